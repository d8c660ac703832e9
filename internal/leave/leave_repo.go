package leave

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ListFilter struct {
	EmployeeID string
	ManagerID  string
	Status     string
	Since      time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	AppendTimeline(ctx context.Context, e *TimelineEvent) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	List(ctx context.Context, f ListFilter) ([]Leave, error)
	TransitionStatus(ctx context.Context, id, from, to string) (bool, error)
	CountOverlapping(ctx context.Context, managerID string, start, end time.Time, excludeID string) (int64, error)
	SaveAnnotations(ctx context.Context, id string, analysis, recommendation datatypes.JSON) error
	SaveEmailRefs(ctx context.Context, id string, refs EmailRefs) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn runs statements on the bound transaction when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) AppendTimeline(ctx context.Context, e *TimelineEvent) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	if err := r.conn(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}

	timelines, err := r.timelines(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	l.Timeline = timelines[id]
	return &l, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Leave, error) {
	db := r.conn(ctx).Model(&Leave{})
	if f.EmployeeID != "" {
		db = db.Where("employee_id = ?", f.EmployeeID)
	}
	if f.ManagerID != "" {
		db = db.Where("manager_id = ?", f.ManagerID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if !f.Since.IsZero() {
		db = db.Where("created_at >= ?", f.Since)
	}

	var leaves []Leave
	if err := db.Order("created_at DESC").Order("id DESC").Find(&leaves).Error; err != nil {
		return nil, err
	}
	if len(leaves) == 0 {
		return leaves, nil
	}

	ids := make([]string, len(leaves))
	for i, l := range leaves {
		ids[i] = l.ID.String()
	}
	timelines, err := r.timelines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range leaves {
		leaves[i].Timeline = timelines[leaves[i].ID.String()]
	}
	return leaves, nil
}

func (r *repository) timelines(ctx context.Context, leaveIDs []string) (map[string][]TimelineEvent, error) {
	var rows []TimelineEvent
	err := r.conn(ctx).
		Where("leave_id IN ?", leaveIDs).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	// CREATED always sorts first, even when timestamps tie
	sort.SliceStable(rows, func(i, j int) bool {
		ci, cj := rows[i].Action == ActionCreated, rows[j].Action == ActionCreated
		if ci != cj {
			return ci
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})

	out := make(map[string][]TimelineEvent, len(leaveIDs))
	for _, e := range rows {
		key := e.LeaveID.String()
		out[key] = append(out[key], e)
	}
	return out, nil
}

// TransitionStatus is a conditional single-row update. false means the row was not in `from`.
func (r *repository) TransitionStatus(ctx context.Context, id, from, to string) (bool, error) {
	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CountOverlapping(ctx context.Context, managerID string, start, end time.Time, excludeID string) (int64, error) {
	db := r.conn(ctx).
		Model(&Leave{}).
		Where("manager_id = ?", managerID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}

	var n int64
	err := db.Count(&n).Error
	return n, err
}

func (r *repository) SaveAnnotations(ctx context.Context, id string, analysis, recommendation datatypes.JSON) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if len(analysis) > 0 {
		updates["ai_analysis"] = analysis
	}
	if len(recommendation) > 0 {
		updates["manager_ai_recommendation"] = recommendation
	}
	return r.conn(ctx).Model(&Leave{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) SaveEmailRefs(ctx context.Context, id string, refs EmailRefs) error {
	updates := map[string]any{}
	if refs.ThreadID != nil {
		updates["email_thread_id"] = *refs.ThreadID
	}
	if refs.RequestMsgID != nil {
		updates["email_request_msg_id"] = *refs.RequestMsgID
	}
	if refs.DecisionMsgID != nil {
		updates["email_decision_msg_id"] = *refs.DecisionMsgID
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return r.conn(ctx).Model(&Leave{}).Where("id = ?", id).Updates(updates).Error
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
