package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-leavemgmt/internal/middleware"
	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTokenService(t *testing.T) *token.Service {
	t.Helper()
	svc, err := token.NewService(token.Config{
		Secret:   strings.Repeat("k", 32),
		Issuer:   "leavemgmt",
		Audience: "leavemgmt-clients",
	})
	require.NoError(t, err)
	return svc
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newTokenService(t)

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.Use(middleware.AuthMiddleware(tokens))
		r.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"id":     middleware.ActorID(c),
				"role":   middleware.ActorRole(c),
				"ctx_id": contextutil.GetUserID(c.Request.Context()),
			})
		})
		return r
	}

	t.Run("bearer header", func(t *testing.T) {
		raw, _, err := tokens.IssueSession("user-1", "MANAGER")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"MANAGER"`)
		assert.Contains(t, w.Body.String(), `"ctx_id":"user-1"`)
	})

	t.Run("cookie", func(t *testing.T) {
		raw, _, err := tokens.IssueSession("user-2", "EMPLOYEE")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: raw})
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"user-2"`)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("decision token is not a session", func(t *testing.T) {
		raw, err := tokens.IssueDecision(token.DecisionClaims{LeaveID: "l", ActorID: "m", Action: token.ActionApprove}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})
}

type fakeRBAC struct {
	EnforceFn func(role, resource, action string) (bool, error)
}

func (f *fakeRBAC) Enforce(role, resource, action string) (bool, error) {
	return f.EnforceFn(role, resource, action)
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(role string, svc middleware.RBACService) *gin.Engine {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			if role != "" {
				c.Set(middleware.CtxRole, role)
			}
			c.Next()
		}, middleware.RBACAuthorize(svc, "leave", "approve"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}

	t.Run("allowed", func(t *testing.T) {
		svc := &fakeRBAC{EnforceFn: func(role, resource, action string) (bool, error) {
			assert.Equal(t, "MANAGER", role)
			assert.Equal(t, "leave", resource)
			assert.Equal(t, "approve", action)
			return true, nil
		}}
		w := httptest.NewRecorder()
		newRouter("MANAGER", svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("denied", func(t *testing.T) {
		svc := &fakeRBAC{EnforceFn: func(string, string, string) (bool, error) { return false, nil }}
		w := httptest.NewRecorder()
		newRouter("EMPLOYEE", svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "leave:approve")
	})

	t.Run("no role", func(t *testing.T) {
		svc := &fakeRBAC{EnforceFn: func(string, string, string) (bool, error) { return true, nil }}
		w := httptest.NewRecorder()
		newRouter("", svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("enforcer error", func(t *testing.T) {
		svc := &fakeRBAC{EnforceFn: func(string, string, string) (bool, error) { return false, errors.New("boom") }}
		w := httptest.NewRecorder()
		newRouter("ADMIN", svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

type redismockClient struct {
	client *redis.Client
	calls  int
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(rdb *redismockClient) *gin.Engine {
		r := gin.New()
		r.POST("/leaves", func(c *gin.Context) {
			c.Set(middleware.CtxUserIDValidated, "user-1")
			c.Next()
		}, middleware.Idempotency(rdb.client), func(c *gin.Context) {
			rdb.calls++
			c.JSON(http.StatusCreated, gin.H{"ok": true, "data": gin.H{"id": "leave-1"}})
		})
		return r
	}

	cacheKey := "idemp:/leaves:user-1:abc"
	lockKey := cacheKey + ":lock"

	t.Run("first request is stored", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		rdb := &redismockClient{client: client}

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(`{"status":201,"body":{"data":{"id":"leave-1"},"ok":true}}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "abc")
		w := httptest.NewRecorder()
		newRouter(rdb).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, rdb.calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay skips handler", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		rdb := &redismockClient{client: client}

		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"ok":true,"data":{"id":"leave-1"}}}`)

		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "abc")
		w := httptest.NewRecorder()
		newRouter(rdb).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.Equal(t, 0, rdb.calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in flight duplicate", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		rdb := &redismockClient{client: client}

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "abc")
		w := httptest.NewRecorder()
		newRouter(rdb).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, rdb.calls)
	})

	t.Run("no header passes through", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		rdb := &redismockClient{client: client}

		w := httptest.NewRecorder()
		newRouter(rdb).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, rdb.calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRateLimitByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set(middleware.CtxUserIDValidated, "user-1")
		c.Next()
	}, middleware.RateLimitByUser(0.001, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ContextLogger(zap.NewNop()))
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "rid-1", w.Body.String())
	assert.Equal(t, "rid-1", w.Header().Get("X-Request-ID"))
}

func TestRequestID_ReplacesUnsafeHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	for _, rid := range []string{"has space", strings.Repeat("a", 65)} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Request-ID", rid)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEqual(t, rid, w.Body.String())
		assert.Len(t, w.Body.String(), 36)
	}
}
