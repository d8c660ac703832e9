package leave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go-leavemgmt/internal/ai"
	"go-leavemgmt/internal/events"
	"go-leavemgmt/internal/mail"
	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/token"
	"go-leavemgmt/internal/user"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// SideEffects runs the best-effort phase after a lifecycle commit: annotation and notifications.
// Collaborator failures are logged and swallowed; only a failed lookup of the leave is returned.
type SideEffects struct {
	repo        Repository
	users       user.Repository
	classifier  ai.Classifier
	notifier    mail.Notifier
	tokens      token.DecisionIssuer
	decisionTTL time.Duration
	baseURL     string
	logger      *zap.Logger
}

func NewSideEffects(
	repo Repository,
	users user.Repository,
	classifier ai.Classifier,
	notifier mail.Notifier,
	tokens token.DecisionIssuer,
	decisionTTL time.Duration,
	baseURL string,
	logger ...*zap.Logger,
) *SideEffects {
	l := zap.L().Named("leave.side_effects")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.side_effects")
	}
	return &SideEffects{
		repo:        repo,
		users:       users,
		classifier:  classifier,
		notifier:    notifier,
		tokens:      tokens,
		decisionTTL: decisionTTL,
		baseURL:     strings.TrimRight(baseURL, "/"),
		logger:      l,
	}
}

func (s *SideEffects) Handle(ctx context.Context, evt events.LeaveLifecycleEvent) error {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("event_type", evt.EventType),
		zap.String("leave_id", evt.LeaveID),
	)
	ctx = contextutil.WithLogger(ctx, log)

	l, err := s.repo.FindByID(ctx, evt.LeaveID)
	if err != nil {
		return fmt.Errorf("load leave %s: %w", evt.LeaveID, err)
	}

	people, err := s.users.FindByIDs(ctx, []string{l.EmployeeID.String(), l.ManagerID.String()})
	if err != nil {
		return fmt.Errorf("load leave participants: %w", err)
	}
	var employee, manager user.User
	for _, u := range people {
		switch u.ID {
		case l.EmployeeID:
			employee = u
		case l.ManagerID:
			manager = u
		}
	}

	switch evt.EventType {
	case events.LeaveCreated:
		analysis, rec := s.annotate(ctx, l, employee, manager)
		s.notifyManager(ctx, l, employee, manager, analysis, rec)
	case events.LeaveApproved, events.LeaveRejected:
		s.notifyDecision(ctx, l, evt, employee)
	default:
		log.Warn("unknown leave event ignored")
	}
	return nil
}

// annotate stores the classifier output. Fallback values are stored too and marked as such.
// A redelivered event keeps the existing annotation.
func (s *SideEffects) annotate(ctx context.Context, l *Leave, employee, manager user.User) (*ai.Analysis, *ai.Recommendation) {
	log := contextutil.GetLogger(ctx, s.logger)

	if a, ok := l.Analysis(); ok {
		r, _ := l.Recommendation()
		return &a, &r
	}

	managerID := l.ManagerID.String()
	team, err := s.users.FindByManager(ctx, managerID)
	if err != nil {
		log.Warn("load team for annotation failed", zap.Error(err))
	}
	overlapping, err := s.repo.CountOverlapping(ctx, managerID, l.StartDate, l.EndDate, l.ID.String())
	if err != nil {
		log.Warn("count overlapping leaves failed", zap.Error(err))
	}
	pending, err := s.repo.List(ctx, ListFilter{ManagerID: managerID, Status: StatusPending})
	if err != nil {
		log.Warn("count pending leaves failed", zap.Error(err))
	}

	input := ai.LeaveInput{
		EmployeeName: employee.Name,
		EmployeeRole: employee.Role,
		Type:         l.Type,
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		Reason:       l.Reason,
		TeamSize:     len(team),
	}
	analysis := s.classifier.Classify(ctx, input)
	rec := s.classifier.Recommend(ctx, ai.RecommendInput{
		Leave:             input,
		ApproverName:      manager.Name,
		PendingForManager: len(pending),
		OverlappingLeaves: int(overlapping),
		Analysis:          &analysis,
	})

	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		log.Warn("encode ai analysis failed", zap.Error(err))
		return &analysis, &rec
	}
	recJSON, err := json.Marshal(rec)
	if err != nil {
		log.Warn("encode ai recommendation failed", zap.Error(err))
		return &analysis, &rec
	}
	if err := s.repo.SaveAnnotations(ctx, l.ID.String(), datatypes.JSON(analysisJSON), datatypes.JSON(recJSON)); err != nil {
		log.Warn("save ai annotations failed", zap.Error(err))
		return &analysis, &rec
	}

	log.Info("leave annotated",
		zap.Int("urgency", analysis.Urgency),
		zap.String("recommendation", rec.Recommendation),
		zap.Bool("fallback", analysis.Fallback),
	)
	return &analysis, &rec
}

func (s *SideEffects) notifyManager(
	ctx context.Context,
	l *Leave,
	employee, manager user.User,
	analysis *ai.Analysis,
	rec *ai.Recommendation,
) {
	log := contextutil.GetLogger(ctx, s.logger)

	if l.EmailRequestMsgID != nil {
		log.Debug("manager already notified")
		return
	}
	if !s.notifier.Configured() {
		log.Info("mail not configured, manager notification skipped")
		return
	}
	if manager.Email == "" {
		log.Warn("manager has no email, notification skipped", zap.String("manager_id", l.ManagerID.String()))
		return
	}

	approveURL, err := s.decisionURL(l, token.ActionApprove)
	if err != nil {
		log.Warn("issue approve token failed", zap.Error(err))
		return
	}
	rejectURL, err := s.decisionURL(l, token.ActionReject)
	if err != nil {
		log.Warn("issue reject token failed", zap.Error(err))
		return
	}

	html, err := render(managerRequestTmpl, map[string]any{
		"EmployeeName":   employee.Name,
		"Days":           l.Days(),
		"Type":           l.Type,
		"StartDate":      l.StartDate.Format(dateLayout),
		"EndDate":        l.EndDate.Format(dateLayout),
		"Reason":         l.Reason,
		"Analysis":       analysis,
		"Recommendation": rec,
		"ApproveURL":     approveURL,
		"RejectURL":      rejectURL,
		"LinkTTL":        s.decisionTTL.String(),
		"LeaveID":        l.ID.String(),
	})
	if err != nil {
		log.Warn("render manager email failed", zap.Error(err))
		return
	}

	sent, err := s.notifier.Send(ctx, mail.Outgoing{
		To:      manager.Email,
		Subject: requestSubject(employee.Name, *l),
		HTML:    html,
	})
	if err != nil {
		log.Warn("manager notification failed", zap.Error(err))
		return
	}

	refs := EmailRefs{RequestMsgID: &sent.MessageID}
	if sent.ThreadID != "" {
		refs.ThreadID = &sent.ThreadID
	}
	if err := s.repo.SaveEmailRefs(ctx, l.ID.String(), refs); err != nil {
		log.Warn("save email refs failed", zap.Error(err))
		return
	}
	log.Info("manager notified", zap.String("message_id", sent.MessageID))
}

func (s *SideEffects) notifyDecision(ctx context.Context, l *Leave, evt events.LeaveLifecycleEvent, employee user.User) {
	log := contextutil.GetLogger(ctx, s.logger)

	if l.EmailDecisionMsgID != nil {
		log.Debug("employee already notified")
		return
	}
	if !s.notifier.Configured() {
		log.Info("mail not configured, decision notification skipped")
		return
	}
	if employee.Email == "" {
		log.Warn("employee has no email, notification skipped", zap.String("employee_id", l.EmployeeID.String()))
		return
	}

	deciderName := "your manager"
	if decider, err := s.users.FindByID(ctx, evt.ActorID); err == nil {
		deciderName = decider.Name
	}

	outcome := "approved"
	if evt.EventType == events.LeaveRejected {
		outcome = "rejected"
	}
	html, err := render(decisionTmpl, map[string]any{
		"Outcome":      outcome,
		"EmployeeName": employee.Name,
		"Type":         l.Type,
		"StartDate":    l.StartDate.Format(dateLayout),
		"EndDate":      l.EndDate.Format(dateLayout),
		"DeciderName":  deciderName,
		"Comment":      evt.Comment,
		"LeaveID":      l.ID.String(),
	})
	if err != nil {
		log.Warn("render decision email failed", zap.Error(err))
		return
	}

	out := mail.Outgoing{
		To:      employee.Email,
		Subject: "Re: " + requestSubject(employee.Name, *l),
		HTML:    html,
	}
	if l.EmailThreadID != nil {
		out.ThreadID = *l.EmailThreadID
	}

	sent, err := s.notifier.Send(ctx, out)
	if err != nil {
		log.Warn("decision notification failed", zap.Error(err))
		return
	}
	if err := s.repo.SaveEmailRefs(ctx, l.ID.String(), EmailRefs{DecisionMsgID: &sent.MessageID}); err != nil {
		log.Warn("save decision message id failed", zap.Error(err))
		return
	}
	log.Info("employee notified of decision", zap.String("outcome", outcome), zap.String("message_id", sent.MessageID))
}

func (s *SideEffects) decisionURL(l *Leave, action string) (string, error) {
	raw, err := s.tokens.IssueDecision(token.DecisionClaims{
		LeaveID: l.ID.String(),
		ActorID: l.ManagerID.String(),
		Action:  action,
	}, s.decisionTTL)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("actor", l.ManagerID.String())
	q.Set("token", raw)
	return fmt.Sprintf("%s/api/v1/leaves/%s/%s?%s", s.baseURL, l.ID, action, q.Encode()), nil
}
