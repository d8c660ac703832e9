package leave

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-leavemgmt/internal/events"
	leaveerrors "go-leavemgmt/internal/leave/errors"
	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/token"
	"go-leavemgmt/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, leaveID, actorID, comment string) (LeaveResponse, error)
	Reject(ctx context.Context, leaveID, actorID, comment string) (LeaveResponse, error)
	Cancel(ctx context.Context, leaveID, employeeID string) (LeaveResponse, error)
	DecideWithToken(ctx context.Context, leaveID, actorID, action, rawToken string) (LeaveResponse, error)
	GetByID(ctx context.Context, leaveID, actorID, actorRole string) (LeaveResponse, error)
	ListVisible(ctx context.Context, actorID, actorRole, status string) ([]LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  user.Repository
	sink   EventSink
	tokens token.DecisionVerifier
	now    func() time.Time
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	sink EventSink,
	tokens token.DecisionVerifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		users:  users,
		sink:   sink,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create leave requested",
		zap.String("employee_id", employeeID),
		zap.String("type", req.Type),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	startDate, endDate, err := s.validateCreateRequest(&req)
	if err != nil {
		log.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	employee, err := s.users.FindByID(ctx, employeeID)
	if err != nil {
		if user.IsNotFound(err) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		log.Error("create leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if employee.ManagerID == nil {
		return LeaveResponse{}, leaveerrors.ErrManagerNotAssigned
	}

	now := s.now()
	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		ManagerID:  *employee.ManagerID,
		Type:       req.Type,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     req.Reason,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created := TimelineEvent{
		ID:        uuid.New(),
		LeaveID:   l.ID,
		Action:    ActionCreated,
		ActorID:   employeeUUID,
		CreatedAt: now,
	}
	evt := s.event(ctx, events.LeaveCreated, l.ID.String(), employeeID, "")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := qtx.AppendTimeline(ctx, &created); err != nil {
		log.Error("create leave timeline failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.sink.Stage(ctx, tx, evt); err != nil {
		log.Error("create leave stage event failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("manager_id", l.ManagerID.String()),
	)

	s.sink.Flush(ctx, evt)

	l.Timeline = []TimelineEvent{created}
	return s.respond(ctx, *l), nil
}

func (s *service) validateCreateRequest(req *CreateLeaveRequest) (time.Time, time.Time, error) {
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	req.Reason = strings.TrimSpace(req.Reason)

	if !IsValidType(req.Type) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}

	today := s.now().Truncate(24 * time.Hour)
	if startDate.Before(today) {
		return time.Time{}, time.Time{}, leaveerrors.ErrStartDateInPast
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if len([]rune(req.Reason)) < minReasonLength {
		return time.Time{}, time.Time{}, leaveerrors.ErrReasonTooShort
	}
	return startDate, endDate, nil
}

func (s *service) Approve(ctx context.Context, leaveID, actorID, comment string) (LeaveResponse, error) {
	return s.decide(ctx, leaveID, actorID, comment, StatusApproved)
}

func (s *service) Reject(ctx context.Context, leaveID, actorID, comment string) (LeaveResponse, error) {
	return s.decide(ctx, leaveID, actorID, comment, StatusRejected)
}

// DecideWithToken applies a decision from a signed email link. The token must be bound to
// exactly this leave, actor and action; authorization is then re-checked as for a session.
func (s *service) DecideWithToken(ctx context.Context, leaveID, actorID, action, rawToken string) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	var to string
	switch action {
	case token.ActionApprove:
		to = StatusApproved
	case token.ActionReject:
		to = StatusRejected
	default:
		return LeaveResponse{}, leaveerrors.ErrInvalidDecisionAction
	}

	if _, err := s.tokens.VerifyDecisionFor(rawToken, leaveID, actorID, action); err != nil {
		log.Warn("decision link rejected",
			zap.String("leave_id", leaveID),
			zap.String("actor_id", actorID),
			zap.String("action", action),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	return s.decide(ctx, leaveID, actorID, "Decided via email link", to)
}

func (s *service) decide(ctx context.Context, leaveID, actorID, comment, to string) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("decide leave requested",
		zap.String("leave_id", leaveID),
		zap.String("actor_id", actorID),
		zap.String("to", to),
	)

	if _, err := uuid.Parse(leaveID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if user.IsNotFound(err) {
			return LeaveResponse{}, leaveerrors.ErrActorNotFound
		}
		log.Error("decide leave actor lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l, err := s.load(ctx, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !CanDecide(actor.Role, actorID, *l) {
		log.Warn("decide leave forbidden",
			zap.String("leave_id", leaveID),
			zap.String("actor_id", actorID),
			zap.String("actor_role", actor.Role),
		)
		return LeaveResponse{}, leaveerrors.ErrNotApprover
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	action, eventType := ActionApproved, events.LeaveApproved
	if to == StatusRejected {
		action, eventType = ActionRejected, events.LeaveRejected
	}
	evt := s.event(ctx, eventType, leaveID, actorID, comment)

	if err := s.transition(ctx, l, to, action, actorUUID, comment, &evt); err != nil {
		return LeaveResponse{}, err
	}
	log.Info("decide leave success",
		zap.String("leave_id", leaveID),
		zap.String("actor_id", actorID),
		zap.String("status", to),
	)

	s.sink.Flush(ctx, evt)
	return s.reload(ctx, leaveID)
}

func (s *service) Cancel(ctx context.Context, leaveID, employeeID string) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(leaveID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l, err := s.load(ctx, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !CanCancel(employeeID, *l) {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	if err := s.transition(ctx, l, StatusCancelled, ActionCancelled, employeeUUID, "", nil); err != nil {
		return LeaveResponse{}, err
	}
	log.Info("cancel leave success", zap.String("leave_id", leaveID), zap.String("employee_id", employeeID))

	return s.reload(ctx, leaveID)
}

// transition moves l out of PENDING and appends the terminal timeline entry in one transaction.
// Losing a race on the conditional update yields ErrNotPending.
func (s *service) transition(
	ctx context.Context,
	l *Leave,
	to, action string,
	actorID uuid.UUID,
	comment string,
	evt *events.LeaveLifecycleEvent,
) error {
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("leave transition begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.TransitionStatus(ctx, l.ID.String(), StatusPending, to)
	if err != nil {
		log.Error("leave transition update failed", zap.Error(err))
		return err
	}
	if !ok {
		log.Warn("leave transition lost race", zap.String("leave_id", l.ID.String()), zap.String("to", to))
		return leaveerrors.ErrNotPending
	}

	entry := TimelineEvent{
		ID:        uuid.New(),
		LeaveID:   l.ID,
		Action:    action,
		ActorID:   actorID,
		CreatedAt: s.now(),
	}
	if c := strings.TrimSpace(comment); c != "" {
		entry.Comment = &c
	}
	if err := qtx.AppendTimeline(ctx, &entry); err != nil {
		log.Error("leave transition timeline failed", zap.Error(err))
		return err
	}

	if evt != nil {
		if err := s.sink.Stage(ctx, tx, *evt); err != nil {
			log.Error("leave transition stage event failed", zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("leave transition commit failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, leaveID, actorID, actorRole string) (LeaveResponse, error) {
	if _, err := uuid.Parse(leaveID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.load(ctx, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !CanView(actorRole, actorID, *l) {
		return LeaveResponse{}, leaveerrors.ErrNotVisible
	}
	return s.respond(ctx, *l), nil
}

func (s *service) ListVisible(ctx context.Context, actorID, actorRole, status string) ([]LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !IsValidStatus(status) {
		return nil, leaveerrors.ErrInvalidStatusFilter
	}

	f := ListFilter{Status: status}
	switch actorRole {
	case user.RoleAdmin:
	case user.RoleManager:
		f.ManagerID = actorID
	default:
		f.EmployeeID = actorID
	}

	leaves, err := s.repo.List(ctx, f)
	if err != nil {
		log.Error("list leaves failed", zap.Error(err))
		return nil, err
	}
	return s.respondAll(ctx, leaves), nil
}

func (s *service) load(ctx context.Context, leaveID string) (*Leave, error) {
	l, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		if IsNotFound(err) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *service) reload(ctx context.Context, leaveID string) (LeaveResponse, error) {
	l, err := s.load(ctx, leaveID)
	if err != nil {
		return LeaveResponse{}, err
	}
	return s.respond(ctx, *l), nil
}

func (s *service) event(ctx context.Context, eventType, leaveID, actorID, comment string) events.LeaveLifecycleEvent {
	return events.LeaveLifecycleEvent{
		EventType:  eventType,
		LeaveID:    leaveID,
		ActorID:    actorID,
		Comment:    strings.TrimSpace(comment),
		RequestID:  contextutil.GetRequestID(ctx),
		OccurredAt: s.now(),
	}
}

func (s *service) respond(ctx context.Context, l Leave) LeaveResponse {
	return s.respondAll(ctx, []Leave{l})[0]
}

// respondAll resolves identities in one lookup. A failed lookup degrades to bare ids.
func (s *service) respondAll(ctx context.Context, leaves []Leave) []LeaveResponse {
	seen := make(map[string]struct{}, len(leaves)*2)
	ids := make([]string, 0, len(leaves)*2)
	for _, l := range leaves {
		for _, id := range []string{l.EmployeeID.String(), l.ManagerID.String()} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	people := make(map[string]user.User, len(ids))
	found, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("resolve leave identities failed", zap.Error(err))
	}
	for _, u := range found {
		people[u.ID.String()] = u
	}

	out := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		out[i] = mapToResponse(l, people)
	}
	return out
}
