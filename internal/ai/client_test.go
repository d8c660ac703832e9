package ai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-leavemgmt/internal/ai"
	"go-leavemgmt/internal/config"
)

type capturedRequest struct {
	Model          string `json:"model"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// newCompletionServer answers every chat completion with content.
func newCompletionServer(t *testing.T, status int, content string, seen *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, seen)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
			return
		}
		resp := map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "deepseek-chat",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(baseURL string) *ai.Client {
	return ai.NewClient(config.AIConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "deepseek-chat",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func sampleLeave() ai.LeaveInput {
	return ai.LeaveInput{
		EmployeeName: "Eve",
		EmployeeRole: "EMPLOYEE",
		Type:         "SICK",
		StartDate:    time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC),
		Reason:       "flu",
	}
}

func TestClient_Unconfigured(t *testing.T) {
	c := ai.NewClient(config.AIConfig{}, zap.NewNop())
	ctx := context.Background()

	assert.False(t, c.Configured())

	analysis := c.Classify(ctx, sampleLeave())
	assert.True(t, analysis.Fallback)
	assert.Equal(t, 3, analysis.Urgency)
	assert.Equal(t, "general", analysis.Category)
	assert.Equal(t, ai.RecommendManualReview, analysis.Recommendation)

	rec := c.Recommend(ctx, ai.RecommendInput{Leave: sampleLeave()})
	assert.True(t, rec.Fallback)
	assert.Equal(t, 50, rec.Confidence)

	reply := c.Chat(ctx, "how many days do I have?", ai.ChatContext{Role: "EMPLOYEE"})
	assert.False(t, reply.Helpful)
	assert.NotEmpty(t, reply.Response)

	patterns := c.PredictPatterns(ctx, ai.PatternInput{TimeframeDays: 90})
	assert.Equal(t, ai.RiskUnknown, patterns.RiskLevel)
	assert.Empty(t, patterns.Predictions)
}

func TestClient_ExtractDecisionKeywordFallback(t *testing.T) {
	c := ai.NewClient(config.AIConfig{}, zap.NewNop())

	tests := []struct {
		name       string
		body       string
		decision   string
		confidence int
	}{
		{"approve keyword", "Sure, I approve this.", ai.DecisionApproved, 70},
		{"reject keyword", "I have to reject it, sorry", ai.DecisionRejected, 70},
		{"nothing", "let me think about it", ai.DecisionUnclear, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ExtractDecision(context.Background(), tt.body, "leave-1")
			assert.Equal(t, tt.decision, got.Decision)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.True(t, got.Fallback)
		})
	}
}

func TestClient_Classify(t *testing.T) {
	t.Run("success clamps out of range values", func(t *testing.T) {
		var seen capturedRequest
		srv := newCompletionServer(t, http.StatusOK,
			"```json\n{\"urgency\":9,\"category\":\"medical\",\"sentiment\":\"urgent\",\"riskScore\":0,\"recommendation\":\"approve\",\"reasoning\":\"sick\",\"confidence\":140}\n```",
			&seen)
		c := newClient(srv.URL)

		got := c.Classify(context.Background(), sampleLeave())

		assert.False(t, got.Fallback)
		assert.Equal(t, 5, got.Urgency)
		assert.Equal(t, 1, got.RiskScore)
		assert.Equal(t, 100, got.Confidence)
		assert.Equal(t, "medical", got.Category)
		assert.False(t, got.ProcessedAt.IsZero())

		assert.Equal(t, "deepseek-chat", seen.Model)
		require.NotNil(t, seen.ResponseFormat)
		assert.Equal(t, "json_object", seen.ResponseFormat.Type)
		require.Len(t, seen.Messages, 2)
		assert.Contains(t, seen.Messages[1].Content, "Leave type: SICK")
	})

	t.Run("fractional scores are rounded", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusOK,
			`{"urgency":4.0,"category":"family","sentiment":"neutral","riskScore":2.6,"recommendation":"approve","reasoning":"ok","confidence":85.5}`,
			nil)
		c := newClient(srv.URL)

		got := c.Classify(context.Background(), sampleLeave())

		assert.False(t, got.Fallback)
		assert.Equal(t, 4, got.Urgency)
		assert.Equal(t, 3, got.RiskScore)
		assert.Equal(t, 86, got.Confidence)
		assert.Equal(t, "family", got.Category)
	})

	t.Run("upstream error falls back", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusInternalServerError, "", nil)
		c := newClient(srv.URL)

		got := c.Classify(context.Background(), sampleLeave())

		assert.True(t, got.Fallback)
		assert.Equal(t, 2, got.RiskScore)
	})

	t.Run("malformed json falls back", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusOK, "not json at all", nil)
		c := newClient(srv.URL)

		got := c.Classify(context.Background(), sampleLeave())

		assert.True(t, got.Fallback)
	})
}

func TestClient_ExtractDecision(t *testing.T) {
	t.Run("normalizes decision", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusOK, `{"decision":"approved","confidence":92,"extractedInfo":"Manager approved"}`, nil)
		c := newClient(srv.URL)

		got := c.ExtractDecision(context.Background(), "Approved, enjoy.", "leave-1")

		assert.Equal(t, ai.DecisionApproved, got.Decision)
		assert.Equal(t, 92, got.Confidence)
		assert.False(t, got.Fallback)
	})

	t.Run("fractional confidence is accepted", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusOK, `{"decision":"REJECTED","confidence":88.4,"extractedInfo":"No"}`, nil)
		c := newClient(srv.URL)

		got := c.ExtractDecision(context.Background(), "Rejected, sorry.", "leave-1")

		assert.Equal(t, ai.DecisionRejected, got.Decision)
		assert.Equal(t, 88, got.Confidence)
		assert.False(t, got.Fallback)
	})

	t.Run("unknown decision becomes unclear", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusOK, `{"decision":"MAYBE","confidence":50}`, nil)
		c := newClient(srv.URL)

		got := c.ExtractDecision(context.Background(), "hmm", "leave-1")

		assert.Equal(t, ai.DecisionUnclear, got.Decision)
	})

	t.Run("upstream error is unclear with zero confidence", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusBadGateway, "", nil)
		c := newClient(srv.URL)

		got := c.ExtractDecision(context.Background(), "approve", "leave-1")

		assert.Equal(t, ai.DecisionUnclear, got.Decision)
		assert.Equal(t, 0, got.Confidence)
	})
}

func TestClient_Chat(t *testing.T) {
	var seen capturedRequest
	srv := newCompletionServer(t, http.StatusOK, "  You have 12 days left.  ", &seen)
	c := newClient(srv.URL)

	got := c.Chat(context.Background(), "how many days?", ai.ChatContext{
		UserName: "Eve",
		Role:     "EMPLOYEE",
		RecentLeaves: []ai.LeaveSummary{
			{Type: "ANNUAL", Status: "APPROVED", StartDate: "2026-08-01", EndDate: "2026-08-05"},
		},
	})

	assert.True(t, got.Helpful)
	assert.Equal(t, "You have 12 days left.", got.Response)
	assert.Nil(t, seen.ResponseFormat)
	require.Len(t, seen.Messages, 2)
	assert.Contains(t, seen.Messages[0].Content, "User role: EMPLOYEE")
	assert.Contains(t, seen.Messages[1].Content, "recentLeaves")
}

func TestClient_PredictPatterns(t *testing.T) {
	srv := newCompletionServer(t, http.StatusOK,
		`{"predictions":[{"period":"December","reasoning":"holidays"}],"riskLevel":"low","recommendations":["take a break"],"patterns":["end of year"],"healthScore":15}`, nil)
	c := newClient(srv.URL)

	got := c.PredictPatterns(context.Background(), ai.PatternInput{EmployeeName: "Eve", TimeframeDays: 90})

	assert.False(t, got.Fallback)
	assert.Equal(t, "low", got.RiskLevel)
	assert.Equal(t, 10, got.HealthScore)
	require.Len(t, got.Predictions, 1)
	assert.Equal(t, "December", got.Predictions[0].Period)
}
