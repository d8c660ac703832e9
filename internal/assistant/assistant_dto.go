package assistant

import (
	"time"

	"go-leavemgmt/internal/ai"
)

type ChatRequest struct {
	Message string `json:"message" binding:"required,max=500"`
}

type AnalyzeRequest struct {
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	Timeframe  int    `json:"timeframe" binding:"omitempty,min=1,max=365"`
}

type PatternResponse struct {
	EmployeeID string               `json:"employee_id"`
	Timeframe  int                  `json:"timeframe"`
	Analysis   ai.PatternPrediction `json:"analysis"`
	AnalyzedAt time.Time            `json:"analyzed_at"`
}

type Insight struct {
	LeaveID               string             `json:"leave_id"`
	Employee              string             `json:"employee"`
	Type                  string             `json:"type"`
	StartDate             string             `json:"start_date"`
	EndDate               string             `json:"end_date"`
	AIAnalysis            *ai.Analysis       `json:"ai_analysis,omitempty"`
	ManagerRecommendation *ai.Recommendation `json:"manager_recommendation,omitempty"`
	DaysAgo               int                `json:"days_ago"`
	RequiresAttention     bool               `json:"requires_attention"`

	urgency   int
	createdAt time.Time
}

type InsightsResponse struct {
	TotalPending int       `json:"total_pending"`
	HighPriority int       `json:"high_priority"`
	Insights     []Insight `json:"insights"`
	GeneratedAt  time.Time `json:"generated_at"`
}
