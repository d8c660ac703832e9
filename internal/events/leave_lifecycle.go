package events

import "time"

const LeaveLifecycleTopic = "leave.lifecycle.v1"

const (
	LeaveCreated  = "leave_created"
	LeaveApproved = "leave_approved"
	LeaveRejected = "leave_rejected"
)

// LeaveLifecycleEvent is emitted after a lifecycle transaction commits. Cancellation emits nothing.
type LeaveLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	ActorID    string    `json:"actor_id"`
	Comment    string    `json:"comment,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func IsLeaveLifecycleEvent(eventType string) bool {
	switch eventType {
	case LeaveCreated, LeaveApproved, LeaveRejected:
		return true
	default:
		return false
	}
}
