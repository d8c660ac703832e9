package ai

import (
	"strings"
	"time"
)

const chatUnavailable = "I'm sorry, the AI assistant is currently unavailable. Please contact your HR department for help with leave questions."

func fallbackAnalysis(reason string, now time.Time) Analysis {
	return Analysis{
		Urgency:        3,
		Category:       "general",
		Sentiment:      "neutral",
		RiskScore:      2,
		Recommendation: RecommendManualReview,
		Reasoning:      reason,
		ProcessedAt:    now,
		Fallback:       true,
	}
}

func fallbackRecommendation(reason string, now time.Time) Recommendation {
	return Recommendation{
		Recommendation: RecommendManualReview,
		Confidence:     50,
		Reasoning:      reason,
		ProcessedAt:    now,
		Fallback:       true,
	}
}

// keywordDecision is used when no model is configured. Its confidence never clears the default gate.
func keywordDecision(body string) DecisionExtraction {
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, "approve"):
		return DecisionExtraction{Decision: DecisionApproved, Confidence: 70, ExtractedInfo: "Basic keyword detection", Fallback: true}
	case strings.Contains(lower, "reject"):
		return DecisionExtraction{Decision: DecisionRejected, Confidence: 70, ExtractedInfo: "Basic keyword detection", Fallback: true}
	default:
		return DecisionExtraction{Decision: DecisionUnclear, Confidence: 0, ExtractedInfo: "No clear decision found", Fallback: true}
	}
}

func fallbackChat(now time.Time) ChatReply {
	return ChatReply{Response: chatUnavailable, Helpful: false, Timestamp: now}
}

func fallbackPatterns() PatternPrediction {
	return PatternPrediction{
		Predictions:     []PredictedLeave{},
		RiskLevel:       RiskUnknown,
		Recommendations: []string{},
		Patterns:        []string{},
		HealthScore:     0,
		Fallback:        true,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
