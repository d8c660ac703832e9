package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leavemgmt/internal/health"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type feature bool

func (f feature) Configured() bool { return bool(f) }

func serve(h *health.Handler) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	health.RegisterRoutes(router.Group("/api/v1"), h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	return w
}

func TestHandler_Check(t *testing.T) {
	t.Run("reports optional features", func(t *testing.T) {
		w := serve(health.NewHandler(fakePinger{}, feature(true), feature(false), zap.NewNop()))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"aiEnabled":true`)
		assert.Contains(t, w.Body.String(), `"mailEnabled":false`)
		assert.Contains(t, w.Body.String(), `"database":"up"`)
	})

	t.Run("database down", func(t *testing.T) {
		w := serve(health.NewHandler(fakePinger{err: errors.New("refused")}, feature(false), feature(false), zap.NewNop()))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"DEGRADED"`)
	})
}
