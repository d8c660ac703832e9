package ai

import (
	"context"
	"time"
)

const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
	DecisionPending  = "PENDING"
	DecisionUnclear  = "UNCLEAR"
)

const (
	RecommendManualReview = "manual_review"
	RiskUnknown           = "unknown"
)

type LeaveInput struct {
	EmployeeName string
	EmployeeRole string
	Type         string
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
	TeamSize     int
}

// Analysis is the employee-facing annotation stored on a leave request.
type Analysis struct {
	Urgency            int       `json:"urgency"`
	Category           string    `json:"category"`
	Sentiment          string    `json:"sentiment"`
	RiskScore          int       `json:"riskScore"`
	Recommendation     string    `json:"recommendation"`
	Reasoning          string    `json:"reasoning"`
	SuggestedQuestions []string  `json:"suggestedQuestions,omitempty"`
	Confidence         int       `json:"confidence"`
	ProcessedAt        time.Time `json:"processedAt"`
	Fallback           bool      `json:"fallback,omitempty"`
}

type RecommendInput struct {
	Leave             LeaveInput
	ApproverName      string
	PendingForManager int
	OverlappingLeaves int
	Analysis          *Analysis
}

// Recommendation is the approver-facing annotation.
type Recommendation struct {
	Recommendation string    `json:"recommendation"`
	Confidence     int       `json:"confidence"`
	Reasoning      string    `json:"reasoning"`
	Conditions     []string  `json:"conditions,omitempty"`
	BusinessImpact string    `json:"businessImpact,omitempty"`
	ProcessedAt    time.Time `json:"processedAt"`
	Fallback       bool      `json:"fallback,omitempty"`
}

type DecisionExtraction struct {
	Decision      string `json:"decision"`
	Confidence    int    `json:"confidence"`
	ExtractedInfo string `json:"extractedInfo"`
	Fallback      bool   `json:"fallback,omitempty"`
}

type LeaveSummary struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason,omitempty"`
}

type ChatContext struct {
	UserName     string         `json:"userName,omitempty"`
	Role         string         `json:"role"`
	RecentLeaves []LeaveSummary `json:"recentLeaves,omitempty"`
}

type ChatReply struct {
	Response  string    `json:"response"`
	Helpful   bool      `json:"helpful"`
	Timestamp time.Time `json:"timestamp"`
}

type PatternInput struct {
	EmployeeName  string
	EmployeeRole  string
	TimeframeDays int
	History       []LeaveSummary
}

type PredictedLeave struct {
	Period    string `json:"period"`
	Reasoning string `json:"reasoning"`
}

type PatternPrediction struct {
	Predictions     []PredictedLeave `json:"predictions"`
	RiskLevel       string           `json:"riskLevel"`
	Recommendations []string         `json:"recommendations"`
	Patterns        []string         `json:"patterns"`
	HealthScore     int              `json:"healthScore"`
	Fallback        bool             `json:"fallback,omitempty"`
}

// Classifier never fails: every method degrades to a deterministic fallback.
//
//go:generate mockgen -source=ai.go -destination=mock/ai_mock.go -package=mock
type Classifier interface {
	Configured() bool
	Classify(ctx context.Context, in LeaveInput) Analysis
	Recommend(ctx context.Context, in RecommendInput) Recommendation
	ExtractDecision(ctx context.Context, body, leaveID string) DecisionExtraction
	Chat(ctx context.Context, message string, cctx ChatContext) ChatReply
	PredictPatterns(ctx context.Context, in PatternInput) PatternPrediction
}
