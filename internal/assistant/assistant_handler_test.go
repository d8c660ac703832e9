package assistant_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leavemgmt/internal/ai"
	"go-leavemgmt/internal/assistant"
	assistanterrors "go-leavemgmt/internal/assistant/errors"
	mock_assistant "go-leavemgmt/internal/assistant/mock"
	"go-leavemgmt/internal/middleware"
	"go-leavemgmt/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func withActor(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDValidated, id)
		c.Set(middleware.CtxRole, role)
		c.Next()
	}
}

func TestAssistantHandler_Chat(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock_assistant.NewMockService(ctrl)
	h := assistant.NewHandler(svc, zap.NewNop())
	router := setupRouter()
	router.POST("/ai/chat", withActor("emp-1", user.RoleEmployee), h.Chat)

	t.Run("ok", func(t *testing.T) {
		svc.EXPECT().Chat(gomock.Any(), "emp-1", user.RoleEmployee, "hello").
			Return(ai.ChatReply{Response: "hi there", Helpful: true}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/ai/chat", bytes.NewBufferString(`{"message":"hello"}`))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"response":"hi there"`)
	})

	t.Run("missing message", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/ai/chat", bytes.NewBufferString(`{}`))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}

func TestAssistantHandler_AnalyzePatterns(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock_assistant.NewMockService(ctrl)
	h := assistant.NewHandler(svc, zap.NewNop())
	router := setupRouter()
	router.POST("/ai/analyze-patterns", withActor("emp-1", user.RoleEmployee), h.AnalyzePatterns)

	t.Run("empty body analyzes self", func(t *testing.T) {
		svc.EXPECT().AnalyzePatterns(gomock.Any(), "emp-1", user.RoleEmployee, assistant.AnalyzeRequest{}).
			Return(assistant.PatternResponse{EmployeeID: "emp-1", Timeframe: 90}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ai/analyze-patterns", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"timeframe":90`)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc.EXPECT().AnalyzePatterns(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(assistant.PatternResponse{}, assistanterrors.ErrOwnPatternsOnly)

		body := `{"employee_id":"6f1c1e8e-6e1d-4e0b-9c4a-3c1a2b3c4d5e"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/ai/analyze-patterns", bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("timeframe above bound", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/ai/analyze-patterns", bytes.NewBufferString(`{"timeframe":366}`))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAssistantHandler_Insights(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock_assistant.NewMockService(ctrl)
	h := assistant.NewHandler(svc, zap.NewNop())
	router := setupRouter()
	router.GET("/ai/insights", withActor("mgr-1", user.RoleManager), h.Insights)

	t.Run("default limit", func(t *testing.T) {
		svc.EXPECT().Insights(gomock.Any(), "mgr-1", user.RoleManager, 0).
			Return(assistant.InsightsResponse{TotalPending: 2, HighPriority: 1}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ai/insights", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_pending":2`)
	})

	t.Run("explicit limit", func(t *testing.T) {
		svc.EXPECT().Insights(gomock.Any(), "mgr-1", user.RoleManager, 25).Return(assistant.InsightsResponse{}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ai/insights?limit=25", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non numeric limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ai/insights?limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
