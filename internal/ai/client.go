package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go-leavemgmt/internal/config"
	"go-leavemgmt/internal/shared/contextutil"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var errEmptyCompletion = errors.New("ai: empty completion")

// Client talks to an OpenAI-compatible chat endpoint (DeepSeek by default).
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewClient(cfg config.AIConfig, logger ...*zap.Logger) *Client {
	l := zap.L().Named("ai.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ai.client")
	}

	c := &Client{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  l,
	}
	if c.model == "" {
		c.model = "deepseek-chat"
	}
	if c.timeout <= 0 {
		c.timeout = 20 * time.Second
	}

	if cfg.APIKey != "" {
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		c.api = openai.NewClientWithConfig(oc)
	} else {
		l.Warn("ai api key not set, classifier runs on fallbacks")
	}
	return c
}

func (c *Client) Configured() bool {
	return c.api != nil
}

type completion struct {
	system      string
	user        string
	temperature float32
	maxTokens   int
	jsonMode    bool
}

func (c *Client) complete(ctx context.Context, req completion) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ccr := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.system},
			{Role: openai.ChatMessageRoleUser, Content: req.user},
		},
		Temperature: req.temperature,
		MaxTokens:   req.maxTokens,
	}
	if req.jsonMode {
		ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.api.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) completeJSON(ctx context.Context, req completion, out any) error {
	req.jsonMode = true
	content, err := c.complete(ctx, req)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(strings.NewReader(stripFences(content)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	normalized, err := json.Marshal(roundNumbers(raw))
	if err != nil {
		return err
	}
	return json.Unmarshal(normalized, out)
}

// roundNumbers turns fractional scores such as 85.5 or 4.0 into integers so
// they decode into the int fields; clamping happens afterwards.
func roundNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = roundNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = roundNumbers(e)
		}
		return t
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return t
		}
		f, err := t.Float64()
		if err != nil {
			return t
		}
		return int64(math.Round(f))
	default:
		return v
	}
}

// stripFences removes a ```json ... ``` wrapper some models add despite JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (c *Client) Classify(ctx context.Context, in LeaveInput) Analysis {
	log := contextutil.GetLogger(ctx, c.logger)
	if !c.Configured() {
		return fallbackAnalysis("AI analysis unavailable - classifier not configured", c.now())
	}

	var out Analysis
	err := c.completeJSON(ctx, completion{
		system:      classifyPrompt,
		user:        leaveContext(in),
		temperature: 0.3,
		maxTokens:   500,
	}, &out)
	if err != nil {
		log.Warn("ai classify failed, using fallback", zap.Error(err))
		return fallbackAnalysis("AI analysis failed - manual review required", c.now())
	}

	out.Urgency = clamp(out.Urgency, 1, 5)
	out.RiskScore = clamp(out.RiskScore, 1, 5)
	out.Confidence = clamp(out.Confidence, 0, 100)
	if out.Category == "" {
		out.Category = "general"
	}
	if out.Sentiment == "" {
		out.Sentiment = "neutral"
	}
	if out.Recommendation == "" {
		out.Recommendation = RecommendManualReview
	}
	out.ProcessedAt = c.now()
	out.Fallback = false

	log.Info("ai classify completed", zap.Int("urgency", out.Urgency), zap.String("category", out.Category))
	return out
}

func (c *Client) Recommend(ctx context.Context, in RecommendInput) Recommendation {
	log := contextutil.GetLogger(ctx, c.logger)
	if !c.Configured() {
		return fallbackRecommendation("AI recommendations unavailable - classifier not configured", c.now())
	}

	var b strings.Builder
	b.WriteString("LEAVE APPROVAL DECISION SUPPORT:\n")
	b.WriteString(leaveContext(in.Leave))
	fmt.Fprintf(&b, "Approver: %s\nPending requests awaiting this approver: %d\nApproved team leaves overlapping these dates: %d\n",
		in.ApproverName, in.PendingForManager, in.OverlappingLeaves)
	if in.Analysis != nil {
		if raw, err := json.Marshal(in.Analysis); err == nil {
			fmt.Fprintf(&b, "Leave analysis: %s\n", raw)
		}
	}

	var out Recommendation
	err := c.completeJSON(ctx, completion{
		system:      recommendPrompt,
		user:        b.String(),
		temperature: 0.2,
		maxTokens:   600,
	}, &out)
	if err != nil {
		log.Warn("ai recommend failed, using fallback", zap.Error(err))
		return fallbackRecommendation("AI recommendation failed - manual review required", c.now())
	}

	out.Confidence = clamp(out.Confidence, 0, 100)
	if out.Recommendation == "" {
		out.Recommendation = RecommendManualReview
	}
	out.ProcessedAt = c.now()
	out.Fallback = false
	return out
}

func (c *Client) ExtractDecision(ctx context.Context, body, leaveID string) DecisionExtraction {
	log := contextutil.GetLogger(ctx, c.logger)
	if !c.Configured() {
		return keywordDecision(body)
	}

	var out DecisionExtraction
	err := c.completeJSON(ctx, completion{
		system:      extractPrompt,
		user:        fmt.Sprintf("LEAVE ID: %s\nEMAIL CONTENT:\n%s", leaveID, body),
		temperature: 0.1,
		maxTokens:   300,
	}, &out)
	if err != nil {
		log.Warn("ai extract decision failed", zap.String("leave_id", leaveID), zap.Error(err))
		return DecisionExtraction{Decision: DecisionUnclear, Confidence: 0, ExtractedInfo: "Email processing failed", Fallback: true}
	}

	out.Decision = strings.ToUpper(strings.TrimSpace(out.Decision))
	switch out.Decision {
	case DecisionApproved, DecisionRejected, DecisionPending:
	default:
		out.Decision = DecisionUnclear
	}
	out.Confidence = clamp(out.Confidence, 0, 100)
	out.Fallback = false
	return out
}

func (c *Client) Chat(ctx context.Context, message string, cctx ChatContext) ChatReply {
	log := contextutil.GetLogger(ctx, c.logger)
	if !c.Configured() {
		return fallbackChat(c.now())
	}

	user := message
	if cctx.UserName != "" || len(cctx.RecentLeaves) > 0 {
		if raw, err := json.Marshal(cctx); err == nil {
			user += "\nContext: " + string(raw)
		}
	}

	content, err := c.complete(ctx, completion{
		system:      fmt.Sprintf(chatPrompt, cctx.Role),
		user:        user,
		temperature: 0.7,
		maxTokens:   400,
	})
	if err != nil {
		log.Warn("ai chat failed", zap.Error(err))
		reply := fallbackChat(c.now())
		reply.Response = "I apologize, but I'm experiencing technical difficulties. Please try again later or contact HR directly."
		return reply
	}

	return ChatReply{Response: strings.TrimSpace(content), Helpful: true, Timestamp: c.now()}
}

func (c *Client) PredictPatterns(ctx context.Context, in PatternInput) PatternPrediction {
	log := contextutil.GetLogger(ctx, c.logger)
	if !c.Configured() {
		return fallbackPatterns()
	}

	history, _ := json.Marshal(in.History)
	var out PatternPrediction
	err := c.completeJSON(ctx, completion{
		system: patternsPrompt,
		user: fmt.Sprintf("EMPLOYEE ANALYSIS:\nName: %s\nRole: %s\nRecent leave history (%d days):\n%s",
			in.EmployeeName, in.EmployeeRole, in.TimeframeDays, history),
		temperature: 0.4,
		maxTokens:   600,
	}, &out)
	if err != nil {
		log.Warn("ai pattern prediction failed", zap.Error(err))
		return fallbackPatterns()
	}

	out.HealthScore = clamp(out.HealthScore, 1, 10)
	if out.RiskLevel == "" {
		out.RiskLevel = RiskUnknown
	}
	if out.Predictions == nil {
		out.Predictions = []PredictedLeave{}
	}
	out.Fallback = false
	return out
}

func leaveContext(in LeaveInput) string {
	// reasons are truncated so free text cannot dominate the prompt
	reason := in.Reason
	if len(reason) > 500 {
		reason = reason[:500]
	}
	return fmt.Sprintf("Employee: %s (%s)\nLeave type: %s\nDuration: %s to %s\nReason: %q\nTeam size: %d\n",
		in.EmployeeName, in.EmployeeRole, in.Type,
		in.StartDate.Format("2006-01-02"), in.EndDate.Format("2006-01-02"),
		reason, in.TeamSize)
}
