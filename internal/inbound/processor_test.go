package inbound_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-leavemgmt/internal/ai"
	mock_ai "go-leavemgmt/internal/ai/mock"
	"go-leavemgmt/internal/bootstrap"
	"go-leavemgmt/internal/inbound"
	inbounderrors "go-leavemgmt/internal/inbound/errors"
	"go-leavemgmt/internal/leave"
	leaveerrors "go-leavemgmt/internal/leave/errors"
	"go-leavemgmt/internal/mail"
	mailerrors "go-leavemgmt/internal/mail/errors"
	mock_mail "go-leavemgmt/internal/mail/mock"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceMailbox = "leave-bot@mail.com"

type fakeFinder struct {
	leaves map[string]*leave.Leave
}

func (f *fakeFinder) FindByID(_ context.Context, id string) (*leave.Leave, error) {
	if l, ok := f.leaves[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type decision struct {
	leaveID, actorID, comment, to string
}

type fakeDecider struct {
	err       error
	decisions []decision
}

func (f *fakeDecider) Approve(_ context.Context, leaveID, actorID, comment string) (leave.LeaveResponse, error) {
	return f.record(leaveID, actorID, comment, leave.StatusApproved)
}

func (f *fakeDecider) Reject(_ context.Context, leaveID, actorID, comment string) (leave.LeaveResponse, error) {
	return f.record(leaveID, actorID, comment, leave.StatusRejected)
}

func (f *fakeDecider) record(leaveID, actorID, comment, to string) (leave.LeaveResponse, error) {
	if f.err != nil {
		return leave.LeaveResponse{}, f.err
	}
	f.decisions = append(f.decisions, decision{leaveID, actorID, comment, to})
	return leave.LeaveResponse{ID: leaveID, Status: to}, nil
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []bootstrap.AuditLog
}

func (a *recordingAudit) Log(_ context.Context, entry bootstrap.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

type processorDeps struct {
	notifier   *mock_mail.MockNotifier
	classifier *mock_ai.MockClassifier
	finder     *fakeFinder
	decider    *fakeDecider
	locker     *inbound.LocalLocker
	audit      *recordingAudit
	processor  *inbound.Processor
}

func setupProcessor(t *testing.T) *processorDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &processorDeps{
		notifier:   mock_mail.NewMockNotifier(ctrl),
		classifier: mock_ai.NewMockClassifier(ctrl),
		finder:     &fakeFinder{leaves: map[string]*leave.Leave{}},
		decider:    &fakeDecider{},
		locker:     inbound.NewLocalLocker(),
		audit:      &recordingAudit{},
	}
	d.processor = inbound.NewProcessor(d.notifier, d.classifier, d.finder, d.decider, d.locker, d.audit, serviceMailbox, 70, zap.NewNop())
	return d
}

func (d *processorDeps) addLeave(status string) *leave.Leave {
	l := &leave.Leave{ID: uuid.New(), EmployeeID: uuid.New(), ManagerID: uuid.New(), Status: status}
	d.finder.leaves[l.ID.String()] = l
	return l
}

func (d *processorDeps) expectInbox(msgs ...mail.Message) {
	d.notifier.EXPECT().Configured().Return(true)
	summaries := make([]mail.Summary, len(msgs))
	for i, m := range msgs {
		summaries[i] = mail.Summary{ID: m.ID, ThreadID: m.ThreadID}
	}
	d.notifier.EXPECT().List(gomock.Any(), serviceMailbox, inbound.DefaultQuery, inbound.DefaultMaxResults).Return(summaries, nil)
	for _, m := range msgs {
		d.notifier.EXPECT().Get(gomock.Any(), serviceMailbox, m.ID).Return(m, nil)
	}
}

func reply(id string, l *leave.Leave, text string) mail.Message {
	return mail.Message{
		ID:      id,
		Subject: "Re: Leave request from Eli",
		Body: text + "\n\nOn Mon, 1 Jan 2030 at 09:00, Leave Bot <leave-bot@mail.com> wrote:\n" +
			"> Approve or reject this request.\n> Leave ID: " + l.ID.String() + "\n",
	}
}

func TestProcessor_Poll(t *testing.T) {
	ctx := context.Background()

	t.Run("confident approval is applied as bound manager", func(t *testing.T) {
		d := setupProcessor(t)
		l := d.addLeave(leave.StatusPending)
		d.expectInbox(reply("m-1", l, "Approved, enjoy the break."))

		d.classifier.EXPECT().ExtractDecision(gomock.Any(), "Approved, enjoy the break.", l.ID.String()).
			Return(ai.DecisionExtraction{Decision: ai.DecisionApproved, Confidence: 92, ExtractedInfo: "manager approved"})

		res, err := d.processor.Poll(ctx, inbound.PollRequest{})

		require.NoError(t, err)
		assert.Equal(t, 1, res.MessagesChecked)
		assert.Equal(t, 1, res.DecisionsApplied)
		assert.Equal(t, inbound.OutcomeApplied, res.Results[0].Outcome)
		require.Len(t, d.decider.decisions, 1)
		assert.Equal(t, l.ManagerID.String(), d.decider.decisions[0].actorID)
		assert.Equal(t, leave.StatusApproved, d.decider.decisions[0].to)
		assert.Equal(t, "Decided by email reply: manager approved", d.decider.decisions[0].comment)
		require.Len(t, d.audit.entries, 1)
		assert.Equal(t, "EMAIL_DECISION_APPLIED", d.audit.entries[0].Action)
	})

	t.Run("mixed batch keeps going", func(t *testing.T) {
		d := setupProcessor(t)
		approved := d.addLeave(leave.StatusPending)
		lowConfidence := d.addLeave(leave.StatusPending)
		unclear := d.addLeave(leave.StatusPending)
		decided := d.addLeave(leave.StatusApproved)

		d.notifier.EXPECT().Configured().Return(true)
		d.notifier.EXPECT().List(gomock.Any(), serviceMailbox, inbound.DefaultQuery, inbound.DefaultMaxResults).
			Return([]mail.Summary{{ID: "m-1"}, {ID: "m-2"}, {ID: "m-3"}, {ID: "m-4"}, {ID: "m-5"}, {ID: "m-6"}}, nil)
		d.notifier.EXPECT().Get(gomock.Any(), serviceMailbox, "m-1").Return(reply("m-1", approved, "Rejected, we need you that week."), nil)
		d.notifier.EXPECT().Get(gomock.Any(), serviceMailbox, "m-2").Return(reply("m-2", lowConfidence, "I approve"), nil)
		d.notifier.EXPECT().Get(gomock.Any(), serviceMailbox, "m-3").Return(reply("m-3", unclear, "let's talk"), nil)
		d.notifier.EXPECT().Get(gomock.Any(), serviceMailbox, "m-4").Return(reply("m-4", decided, "approved"), nil)
		d.notifier.EXPECT().Get(gomock.Any(), serviceMailbox, "m-5").Return(mail.Message{ID: "m-5", Subject: "lunch?", Body: "no ids here"}, nil)
		d.notifier.EXPECT().Get(gomock.Any(), serviceMailbox, "m-6").Return(mail.Message{}, errors.New("gmail 500"))

		d.classifier.EXPECT().ExtractDecision(gomock.Any(), gomock.Any(), approved.ID.String()).
			Return(ai.DecisionExtraction{Decision: ai.DecisionRejected, Confidence: 88})
		d.classifier.EXPECT().ExtractDecision(gomock.Any(), gomock.Any(), lowConfidence.ID.String()).
			Return(ai.DecisionExtraction{Decision: ai.DecisionApproved, Confidence: 70, Fallback: true})
		d.classifier.EXPECT().ExtractDecision(gomock.Any(), gomock.Any(), unclear.ID.String()).
			Return(ai.DecisionExtraction{Decision: ai.DecisionUnclear, Confidence: 95})

		res, err := d.processor.Poll(ctx, inbound.PollRequest{})

		require.NoError(t, err)
		assert.Equal(t, 6, res.MessagesChecked)
		assert.Equal(t, 1, res.DecisionsApplied)
		outcomes := make([]string, len(res.Results))
		for i, r := range res.Results {
			outcomes[i] = r.Outcome
		}
		assert.Equal(t, []string{
			inbound.OutcomeApplied,
			inbound.OutcomeSkipped,
			inbound.OutcomeSkipped,
			inbound.OutcomeSkipped,
			inbound.OutcomeSkipped,
			inbound.OutcomeError,
		}, outcomes)
		assert.Equal(t, leave.StatusRejected, d.decider.decisions[0].to)
		assert.Contains(t, res.Results[1].Reason, "confidence 70")
		assert.Equal(t, "leave request is not pending", res.Results[3].Reason)
		assert.Equal(t, "no leave id found", res.Results[4].Reason)
	})

	t.Run("leave id falls back to subject", func(t *testing.T) {
		d := setupProcessor(t)
		l := d.addLeave(leave.StatusPending)
		d.expectInbox(mail.Message{ID: "m-1", Subject: "Re: Leave request [Leave ID: " + l.ID.String() + "]", Body: "approved"})

		d.classifier.EXPECT().ExtractDecision(gomock.Any(), "approved", l.ID.String()).
			Return(ai.DecisionExtraction{Decision: ai.DecisionApproved, Confidence: 90})

		res, err := d.processor.Poll(ctx, inbound.PollRequest{})

		require.NoError(t, err)
		assert.Equal(t, l.ID.String(), res.Results[0].LeaveID)
	})

	t.Run("race lost during apply is a skip", func(t *testing.T) {
		d := setupProcessor(t)
		l := d.addLeave(leave.StatusPending)
		d.decider.err = leaveerrors.ErrNotPending
		d.expectInbox(reply("m-1", l, "approved"))
		d.classifier.EXPECT().ExtractDecision(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(ai.DecisionExtraction{Decision: ai.DecisionApproved, Confidence: 99})

		res, err := d.processor.Poll(ctx, inbound.PollRequest{})

		require.NoError(t, err)
		assert.Equal(t, 0, res.DecisionsApplied)
		assert.Equal(t, inbound.OutcomeSkipped, res.Results[0].Outcome)
		assert.Empty(t, d.audit.entries)
	})

	t.Run("explicit query and bounds", func(t *testing.T) {
		d := setupProcessor(t)
		d.notifier.EXPECT().Configured().Return(true)
		d.notifier.EXPECT().List(gomock.Any(), "other@mail.com", "from:boss", 50).Return(nil, nil)

		res, err := d.processor.Poll(ctx, inbound.PollRequest{Mailbox: "other@mail.com", Query: " from:boss ", MaxResults: 50})

		require.NoError(t, err)
		assert.Equal(t, 0, res.MessagesChecked)
		assert.NotNil(t, res.Results)

		_, err = d.processor.Poll(ctx, inbound.PollRequest{MaxResults: 51})
		assert.ErrorIs(t, err, inbounderrors.ErrInvalidMaxResults)
	})

	t.Run("mail not configured", func(t *testing.T) {
		d := setupProcessor(t)
		d.notifier.EXPECT().Configured().Return(false)

		_, err := d.processor.Poll(ctx, inbound.PollRequest{})

		assert.ErrorIs(t, err, mailerrors.ErrNotConfigured)
	})

	t.Run("concurrent poll is refused", func(t *testing.T) {
		d := setupProcessor(t)
		unlock, ok, err := d.locker.TryLock(ctx, "inbound:poll:"+serviceMailbox, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
		d.notifier.EXPECT().Configured().Return(true)

		_, err = d.processor.Poll(ctx, inbound.PollRequest{})
		assert.ErrorIs(t, err, inbounderrors.ErrPollInProgress)

		unlock()
		d.notifier.EXPECT().Configured().Return(true)
		d.notifier.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		_, err = d.processor.Poll(ctx, inbound.PollRequest{})
		assert.NoError(t, err)
	})

	t.Run("list failure is returned", func(t *testing.T) {
		d := setupProcessor(t)
		d.notifier.EXPECT().Configured().Return(true)
		d.notifier.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, mailerrors.ErrMailboxNotConnected)

		_, err := d.processor.Poll(ctx, inbound.PollRequest{})

		assert.ErrorIs(t, err, mailerrors.ErrMailboxNotConnected)

		// lock was released
		_, ok, _ := d.locker.TryLock(ctx, "inbound:poll:"+serviceMailbox, time.Minute)
		assert.True(t, ok)
	})
}

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	key := "inbound:poll:" + serviceMailbox

	t.Run("acquire and release", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		locker := inbound.NewRedisLocker(rdb, zap.NewNop())

		mock.ExpectSetNX(key, "locked", time.Minute).SetVal(true)
		mock.ExpectDel(key).SetVal(1)

		unlock, ok, err := locker.TryLock(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		unlock()

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("held elsewhere", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		locker := inbound.NewRedisLocker(rdb, zap.NewNop())

		mock.ExpectSetNX(key, "locked", time.Minute).SetVal(false)

		_, ok, err := locker.TryLock(ctx, key, time.Minute)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("redis down falls back to local lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		locker := inbound.NewRedisLocker(rdb, zap.NewNop())

		mock.ExpectSetNX(key, "locked", time.Minute).SetErr(errors.New("connection refused"))
		mock.ExpectSetNX(key, "locked", time.Minute).SetErr(errors.New("connection refused"))

		_, ok, err := locker.TryLock(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		_, ok, err = locker.TryLock(ctx, key, time.Minute)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
