package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	TypeCasual = "CASUAL"
	TypeSick   = "SICK"
	TypeEarned = "EARNED"
	TypeUnpaid = "UNPAID"
)

const (
	ActionCreated   = "CREATED"
	ActionApproved  = "APPROVED"
	ActionRejected  = "REJECTED"
	ActionCancelled = "CANCELLED"
)

const minReasonLength = 10

func IsValidType(t string) bool {
	switch t {
	case TypeCasual, TypeSick, TypeEarned, TypeUnpaid:
		return true
	default:
		return false
	}
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// Leave is mutated only through status transitions and best-effort annotation/email fields.
// ManagerID is snapshotted from the employee at creation.
type Leave struct {
	ID                      uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID              uuid.UUID      `gorm:"column:employee_id;type:uuid;not null"`
	ManagerID               uuid.UUID      `gorm:"column:manager_id;type:uuid;not null"`
	Type                    string         `gorm:"column:type;type:varchar(20);not null"`
	StartDate               time.Time      `gorm:"column:start_date;type:date;not null"`
	EndDate                 time.Time      `gorm:"column:end_date;type:date;not null"`
	Reason                  string         `gorm:"column:reason;type:text;not null"`
	Status                  string         `gorm:"column:status;type:varchar(20);not null"`
	AIAnalysis              datatypes.JSON `gorm:"column:ai_analysis"`
	ManagerAIRecommendation datatypes.JSON `gorm:"column:manager_ai_recommendation"`
	EmailThreadID           *string        `gorm:"column:email_thread_id;type:varchar(255)"`
	EmailRequestMsgID       *string        `gorm:"column:email_request_msg_id;type:varchar(255)"`
	EmailDecisionMsgID      *string        `gorm:"column:email_decision_msg_id;type:varchar(255)"`
	CreatedAt               time.Time      `gorm:"column:created_at"`
	UpdatedAt               time.Time      `gorm:"column:updated_at"`

	Timeline []TimelineEvent `gorm:"-"`
}

func (Leave) TableName() string {
	return "leave_requests"
}

// Days counts calendar days, both ends inclusive.
func (l Leave) Days() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

type TimelineEvent struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	LeaveID   uuid.UUID `gorm:"column:leave_id;type:uuid;not null"`
	Action    string    `gorm:"column:action;type:varchar(20);not null"`
	ActorID   uuid.UUID `gorm:"column:actor_id;type:uuid;not null"`
	Comment   *string   `gorm:"column:comment;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (TimelineEvent) TableName() string {
	return "leave_timeline_events"
}

// EmailRefs updates only the non-nil fields.
type EmailRefs struct {
	ThreadID      *string
	RequestMsgID  *string
	DecisionMsgID *string
}
