package inbound

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go-leavemgmt/internal/ai"
	"go-leavemgmt/internal/bootstrap"
	inbounderrors "go-leavemgmt/internal/inbound/errors"
	"go-leavemgmt/internal/leave"
	leaveerrors "go-leavemgmt/internal/leave/errors"
	"go-leavemgmt/internal/mail"
	mailerrors "go-leavemgmt/internal/mail/errors"
	"go-leavemgmt/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	DefaultQuery      = "subject:leave"
	DefaultMaxResults = 10
	maxResultsLimit   = 50
	pollLockTTL       = 2 * time.Minute
	maxCommentLength  = 1000
)

const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

var (
	leaveIDPattern = regexp.MustCompile(`(?i)Leave ID:\s*([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})`)
	uuidPattern    = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	replyHeader    = regexp.MustCompile(`(?m)^On .+wrote:\s*$`)
)

type PollRequest struct {
	Mailbox    string
	Query      string
	MaxResults int
}

type MessageResult struct {
	MessageID  string `json:"message_id"`
	LeaveID    string `json:"leave_id,omitempty"`
	Outcome    string `json:"outcome"`
	Decision   string `json:"decision,omitempty"`
	Confidence int    `json:"confidence,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

type PollResult struct {
	MessagesChecked  int             `json:"messages_checked"`
	DecisionsApplied int             `json:"decisions_applied"`
	Results          []MessageResult `json:"results"`
}

type LeaveFinder interface {
	FindByID(ctx context.Context, id string) (*leave.Leave, error)
}

// Decider applies a decision with the same rules as a session request.
type Decider interface {
	Approve(ctx context.Context, leaveID, actorID, comment string) (leave.LeaveResponse, error)
	Reject(ctx context.Context, leaveID, actorID, comment string) (leave.LeaveResponse, error)
}

//go:generate mockgen -source=processor.go -destination=mock/processor_mock.go -package=mock
type Service interface {
	Poll(ctx context.Context, req PollRequest) (PollResult, error)
}

type Processor struct {
	notifier   mail.Notifier
	classifier ai.Classifier
	leaves     LeaveFinder
	decider    Decider
	locker     Locker
	audit      bootstrap.AuditLogger
	mailbox    string
	threshold  int
	logger     *zap.Logger
}

func NewProcessor(
	notifier mail.Notifier,
	classifier ai.Classifier,
	leaves LeaveFinder,
	decider Decider,
	locker Locker,
	audit bootstrap.AuditLogger,
	mailbox string,
	threshold int,
	logger ...*zap.Logger,
) *Processor {
	l := zap.L().Named("inbound.processor")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("inbound.processor")
	}
	return &Processor{
		notifier:   notifier,
		classifier: classifier,
		leaves:     leaves,
		decider:    decider,
		locker:     locker,
		audit:      audit,
		mailbox:    mailbox,
		threshold:  threshold,
		logger:     l,
	}
}

// Poll reads recent replies from the mailbox and applies confident decisions.
// Each message is handled on its own; one failure never aborts the batch.
func (p *Processor) Poll(ctx context.Context, req PollRequest) (PollResult, error) {
	log := contextutil.GetLogger(ctx, p.logger)

	req, err := p.normalize(req)
	if err != nil {
		return PollResult{}, err
	}
	if !p.notifier.Configured() {
		return PollResult{}, mailerrors.ErrNotConfigured
	}

	unlock, ok, err := p.locker.TryLock(ctx, "inbound:poll:"+req.Mailbox, pollLockTTL)
	if err != nil {
		return PollResult{}, err
	}
	if !ok {
		return PollResult{}, inbounderrors.ErrPollInProgress
	}
	defer unlock()

	summaries, err := p.notifier.List(ctx, req.Mailbox, req.Query, req.MaxResults)
	if err != nil {
		log.Warn("list mailbox failed", zap.String("mailbox", req.Mailbox), zap.Error(err))
		return PollResult{}, err
	}

	result := PollResult{
		MessagesChecked: len(summaries),
		Results:         make([]MessageResult, 0, len(summaries)),
	}
	for _, s := range summaries {
		r := p.process(ctx, req.Mailbox, s)
		if r.Outcome == OutcomeApplied {
			result.DecisionsApplied++
		}
		result.Results = append(result.Results, r)
	}

	log.Info("mailbox poll finished",
		zap.String("mailbox", req.Mailbox),
		zap.Int("messages_checked", result.MessagesChecked),
		zap.Int("decisions_applied", result.DecisionsApplied),
	)
	return result, nil
}

func (p *Processor) normalize(req PollRequest) (PollRequest, error) {
	req.Mailbox = strings.TrimSpace(req.Mailbox)
	if req.Mailbox == "" {
		req.Mailbox = p.mailbox
	}
	if req.Mailbox == "" {
		return req, inbounderrors.ErrMailboxRequired
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		req.Query = DefaultQuery
	}

	if req.MaxResults == 0 {
		req.MaxResults = DefaultMaxResults
	}
	if req.MaxResults < 1 || req.MaxResults > maxResultsLimit {
		return req, inbounderrors.ErrInvalidMaxResults
	}
	return req, nil
}

func (p *Processor) process(ctx context.Context, mailbox string, s mail.Summary) MessageResult {
	log := contextutil.GetLogger(ctx, p.logger).With(zap.String("message_id", s.ID))
	res := MessageResult{MessageID: s.ID}

	msg, err := p.notifier.Get(ctx, mailbox, s.ID)
	if err != nil {
		log.Warn("fetch message failed", zap.Error(err))
		return failed(res, err)
	}

	leaveID := extractLeaveID(msg.Subject, msg.Body)
	if leaveID == "" {
		return skipped(res, "no leave id found")
	}
	res.LeaveID = leaveID

	l, err := p.leaves.FindByID(ctx, leaveID)
	if err != nil {
		if leave.IsNotFound(err) {
			return skipped(res, "leave request not found")
		}
		log.Error("load leave for reply failed", zap.String("leave_id", leaveID), zap.Error(err))
		return failed(res, err)
	}
	if l.Status != leave.StatusPending {
		return skipped(res, "leave request is not pending")
	}

	ext := p.classifier.ExtractDecision(ctx, replyText(msg.Body), leaveID)
	res.Decision = ext.Decision
	res.Confidence = ext.Confidence

	if ext.Decision != ai.DecisionApproved && ext.Decision != ai.DecisionRejected {
		return skipped(res, "no clear decision in reply")
	}
	if ext.Confidence <= p.threshold {
		return skipped(res, fmt.Sprintf("confidence %d does not exceed %d", ext.Confidence, p.threshold))
	}

	actorID := l.ManagerID.String()
	comment := emailComment(ext.ExtractedInfo)
	if ext.Decision == ai.DecisionApproved {
		_, err = p.decider.Approve(ctx, leaveID, actorID, comment)
	} else {
		_, err = p.decider.Reject(ctx, leaveID, actorID, comment)
	}
	if err != nil {
		if errors.Is(err, leaveerrors.ErrNotPending) {
			return skipped(res, "leave request is not pending")
		}
		log.Warn("apply email decision failed", zap.String("leave_id", leaveID), zap.Error(err))
		return failed(res, err)
	}

	res.Outcome = OutcomeApplied
	p.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "EMAIL_DECISION_APPLIED",
		Message: "Leave decision applied from email reply",
		Meta: map[string]any{
			"leave_id":   leaveID,
			"message_id": s.ID,
			"decision":   ext.Decision,
			"confidence": ext.Confidence,
			"actor_id":   actorID,
		},
	})
	log.Info("email decision applied", zap.String("leave_id", leaveID), zap.String("decision", ext.Decision))
	return res
}

func skipped(r MessageResult, reason string) MessageResult {
	r.Outcome = OutcomeSkipped
	r.Reason = reason
	return r
}

func failed(r MessageResult, err error) MessageResult {
	r.Outcome = OutcomeError
	r.Reason = err.Error()
	return r
}

// extractLeaveID prefers the "Leave ID:" marker in the body, then the subject.
func extractLeaveID(subject, body string) string {
	if m := leaveIDPattern.FindStringSubmatch(body); m != nil {
		return strings.ToLower(m[1])
	}
	if m := leaveIDPattern.FindStringSubmatch(subject); m != nil {
		return strings.ToLower(m[1])
	}
	if m := uuidPattern.FindString(subject); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

// replyText drops quoted history so the original request's wording is not read as the decision.
func replyText(body string) string {
	text := body
	if loc := replyHeader.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), ">") {
			continue
		}
		kept = append(kept, line)
	}

	out := strings.TrimSpace(strings.Join(kept, "\n"))
	if out == "" {
		return strings.TrimSpace(body)
	}
	return out
}

func emailComment(extracted string) string {
	comment := "Decided by email reply"
	if e := strings.TrimSpace(extracted); e != "" {
		comment += ": " + e
	}
	if r := []rune(comment); len(r) > maxCommentLength {
		comment = string(r[:maxCommentLength])
	}
	return comment
}
