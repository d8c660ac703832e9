package leave

import (
	"encoding/json"

	"go-leavemgmt/internal/ai"
	"go-leavemgmt/internal/user"
)

const dateLayout = "2006-01-02"

type CreateLeaveRequest struct {
	Type      string `json:"type" binding:"required,oneof=CASUAL SICK EARNED UNPAID"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"required,min=10,max=1000"`
}

type DecisionRequest struct {
	Comment string `json:"comment" binding:"max=1000"`
}

type TimelineResponse struct {
	Action    string  `json:"action"`
	ActorID   string  `json:"actor_id"`
	Comment   *string `json:"comment,omitempty"`
	Timestamp string  `json:"timestamp"`
}

type EmailResponse struct {
	ThreadID      *string `json:"thread_id,omitempty"`
	RequestMsgID  *string `json:"request_msg_id,omitempty"`
	DecisionMsgID *string `json:"decision_msg_id,omitempty"`
}

type LeaveResponse struct {
	ID                      string             `json:"id"`
	Employee                user.Summary       `json:"employee"`
	Manager                 user.Summary       `json:"manager"`
	Type                    string             `json:"type"`
	StartDate               string             `json:"start_date"`
	EndDate                 string             `json:"end_date"`
	Days                    int                `json:"days"`
	Reason                  string             `json:"reason"`
	Status                  string             `json:"status"`
	AIAnalysis              *ai.Analysis       `json:"ai_analysis,omitempty"`
	ManagerAIRecommendation *ai.Recommendation `json:"manager_ai_recommendation,omitempty"`
	Timeline                []TimelineResponse `json:"timeline"`
	Email                   *EmailResponse     `json:"email,omitempty"`
	CreatedAt               string             `json:"created_at"`
	UpdatedAt               string             `json:"updated_at"`
}

// mapToResponse resolves employee and manager from people; unknown ids keep only the id.
func mapToResponse(l Leave, people map[string]user.User) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID.String(),
		Employee:  summaryOf(l.EmployeeID.String(), people),
		Manager:   summaryOf(l.ManagerID.String(), people),
		Type:      l.Type,
		StartDate: l.StartDate.Format(dateLayout),
		EndDate:   l.EndDate.Format(dateLayout),
		Days:      l.Days(),
		Reason:    l.Reason,
		Status:    l.Status,
		Timeline:  make([]TimelineResponse, 0, len(l.Timeline)),
		CreatedAt: l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: l.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}

	if analysis, ok := l.Analysis(); ok {
		resp.AIAnalysis = &analysis
	}
	if rec, ok := l.Recommendation(); ok {
		resp.ManagerAIRecommendation = &rec
	}

	for _, e := range l.Timeline {
		resp.Timeline = append(resp.Timeline, TimelineResponse{
			Action:    e.Action,
			ActorID:   e.ActorID.String(),
			Comment:   e.Comment,
			Timestamp: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	if l.EmailThreadID != nil || l.EmailRequestMsgID != nil || l.EmailDecisionMsgID != nil {
		resp.Email = &EmailResponse{
			ThreadID:      l.EmailThreadID,
			RequestMsgID:  l.EmailRequestMsgID,
			DecisionMsgID: l.EmailDecisionMsgID,
		}
	}
	return resp
}

func summaryOf(id string, people map[string]user.User) user.Summary {
	if u, ok := people[id]; ok {
		return user.ToSummary(u)
	}
	return user.Summary{ID: id}
}

// Analysis decodes the stored classifier output. ok is false when nothing usable is stored.
func (l Leave) Analysis() (ai.Analysis, bool) {
	var a ai.Analysis
	raw := []byte(l.AIAnalysis)
	if len(raw) == 0 || string(raw) == "null" {
		return a, false
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return a, false
	}
	return a, true
}

func (l Leave) Recommendation() (ai.Recommendation, bool) {
	var r ai.Recommendation
	raw := []byte(l.ManagerAIRecommendation)
	if len(raw) == 0 || string(raw) == "null" {
		return r, false
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, false
	}
	return r, true
}

// Summary is the compact shape handed to the assistant as history or chat context.
func (l Leave) Summary() ai.LeaveSummary {
	return ai.LeaveSummary{
		ID:        l.ID.String(),
		Type:      l.Type,
		Status:    l.Status,
		StartDate: l.StartDate.Format(dateLayout),
		EndDate:   l.EndDate.Format(dateLayout),
		Reason:    l.Reason,
	}
}
