package leave_test

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"go-leavemgmt/internal/ai"
	mock_ai "go-leavemgmt/internal/ai/mock"
	"go-leavemgmt/internal/events"
	"go-leavemgmt/internal/leave"
	"go-leavemgmt/internal/mail"
	mock_mail "go-leavemgmt/internal/mail/mock"
	"go-leavemgmt/internal/token"
	"go-leavemgmt/internal/user"
	mock_user "go-leavemgmt/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type sideEffectDeps struct {
	repo       *fakeLeaveRepository
	users      *mock_user.MockRepository
	classifier *mock_ai.MockClassifier
	notifier   *mock_mail.MockNotifier
	tokens     *token.Service
	effects    *leave.SideEffects
	employee   user.User
	manager    user.User
	leave      *leave.Leave
}

func setupSideEffects(t *testing.T) *sideEffectDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	tokens, err := token.NewService(token.Config{Secret: strings.Repeat("k", 32), Issuer: "leavemgmt", Audience: "leavemgmt"})
	require.NoError(t, err)

	employee := user.User{ID: uuid.New(), Name: "Eli", Email: "eli@mail.com", Role: user.RoleEmployee}
	manager := user.User{ID: uuid.New(), Name: "Maya", Email: "maya@mail.com", Role: user.RoleManager}
	employee.ManagerID = &manager.ID

	deps := &sideEffectDeps{
		repo:       &fakeLeaveRepository{},
		users:      mock_user.NewMockRepository(ctrl),
		classifier: mock_ai.NewMockClassifier(ctrl),
		notifier:   mock_mail.NewMockNotifier(ctrl),
		tokens:     tokens,
		employee:   employee,
		manager:    manager,
		leave:      pendingLeave(employee.ID, manager.ID),
	}
	deps.repo.findByIDFn = func(_ context.Context, id string) (*leave.Leave, error) {
		if id != deps.leave.ID.String() {
			return nil, gorm.ErrRecordNotFound
		}
		return deps.leave, nil
	}
	deps.users.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return([]user.User{employee, manager}, nil).AnyTimes()
	deps.effects = leave.NewSideEffects(
		deps.repo, deps.users, deps.classifier, deps.notifier, tokens,
		24*time.Hour, "https://leave.example.com/", zap.NewNop(),
	)
	return deps
}

func (d *sideEffectDeps) expectAnnotation(t *testing.T, analysis ai.Analysis, rec ai.Recommendation) {
	d.users.EXPECT().FindByManager(gomock.Any(), d.manager.ID.String()).Return([]user.User{d.employee}, nil)
	d.classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in ai.LeaveInput) ai.Analysis {
			assert.Equal(t, d.employee.Name, in.EmployeeName)
			assert.Equal(t, 1, in.TeamSize)
			return analysis
		})
	d.classifier.EXPECT().Recommend(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in ai.RecommendInput) ai.Recommendation {
			assert.Equal(t, d.manager.Name, in.ApproverName)
			assert.NotNil(t, in.Analysis)
			return rec
		})
}

func createdEvent(l *leave.Leave) events.LeaveLifecycleEvent {
	return events.LeaveLifecycleEvent{EventType: events.LeaveCreated, LeaveID: l.ID.String(), ActorID: l.EmployeeID.String()}
}

var linkPattern = regexp.MustCompile(`href="([^"]+/(approve|reject)\?[^"]+)"`)

func TestSideEffects_Created(t *testing.T) {
	ctx := context.Background()

	t.Run("annotates and notifies manager with bound links", func(t *testing.T) {
		d := setupSideEffects(t)
		d.expectAnnotation(t,
			ai.Analysis{Urgency: 4, Category: "medical", RiskScore: 2, Recommendation: "approve", Confidence: 85},
			ai.Recommendation{Recommendation: "approve", Confidence: 80, Reasoning: "low team impact"},
		)

		var saved datatypes.JSON
		d.repo.saveAnnotationsFn = func(_ context.Context, id string, analysis, _ datatypes.JSON) error {
			saved = analysis
			return nil
		}
		var refs leave.EmailRefs
		d.repo.saveEmailRefsFn = func(_ context.Context, _ string, r leave.EmailRefs) error {
			refs = r
			return nil
		}

		d.notifier.EXPECT().Configured().Return(true)
		var sent mail.Outgoing
		d.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, out mail.Outgoing) (mail.Sent, error) {
				sent = out
				return mail.Sent{MessageID: "msg-1", ThreadID: "thread-1"}, nil
			})

		err := d.effects.Handle(ctx, createdEvent(d.leave))

		require.NoError(t, err)
		assert.Contains(t, string(saved), `"urgency":4`)
		assert.Equal(t, "maya@mail.com", sent.To)
		assert.Contains(t, sent.Subject, "[Leave ID: "+d.leave.ID.String()+"]")
		assert.Contains(t, sent.HTML, "Leave ID: "+d.leave.ID.String())
		assert.Equal(t, "msg-1", *refs.RequestMsgID)
		assert.Equal(t, "thread-1", *refs.ThreadID)

		links := linkPattern.FindAllStringSubmatch(sent.HTML, -1)
		require.Len(t, links, 2)
		for _, m := range links {
			u, err := url.Parse(strings.ReplaceAll(m[1], "&amp;", "&"))
			require.NoError(t, err)
			assert.Equal(t, "leave.example.com", u.Host)
			assert.Equal(t, "/api/v1/leaves/"+d.leave.ID.String()+"/"+m[2], u.Path)
			assert.Equal(t, d.manager.ID.String(), u.Query().Get("actor"))

			_, err = d.tokens.VerifyDecisionFor(u.Query().Get("token"), d.leave.ID.String(), d.manager.ID.String(), m[2])
			assert.NoError(t, err)
		}
	})

	t.Run("classifier fallback is stored and mail skipped when unconfigured", func(t *testing.T) {
		d := setupSideEffects(t)
		d.expectAnnotation(t,
			ai.Analysis{Urgency: 3, Category: "general", Recommendation: ai.RecommendManualReview, Fallback: true},
			ai.Recommendation{Recommendation: ai.RecommendManualReview, Confidence: 50, Fallback: true},
		)
		saved := false
		d.repo.saveAnnotationsFn = func(context.Context, string, datatypes.JSON, datatypes.JSON) error {
			saved = true
			return nil
		}
		d.notifier.EXPECT().Configured().Return(false)

		err := d.effects.Handle(ctx, createdEvent(d.leave))

		assert.NoError(t, err)
		assert.True(t, saved)
	})

	t.Run("send failure is swallowed", func(t *testing.T) {
		d := setupSideEffects(t)
		d.expectAnnotation(t, ai.Analysis{Urgency: 2}, ai.Recommendation{Recommendation: "approve"})
		d.notifier.EXPECT().Configured().Return(true)
		d.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(mail.Sent{}, errors.New("smtp down"))
		d.repo.saveEmailRefsFn = func(context.Context, string, leave.EmailRefs) error {
			t.Fatal("refs must not be saved")
			return nil
		}

		assert.NoError(t, d.effects.Handle(ctx, createdEvent(d.leave)))
	})

	t.Run("redelivery keeps existing annotation and notification", func(t *testing.T) {
		d := setupSideEffects(t)
		msgID := "msg-1"
		d.leave.AIAnalysis = datatypes.JSON(`{"urgency":5}`)
		d.leave.EmailRequestMsgID = &msgID

		assert.NoError(t, d.effects.Handle(ctx, createdEvent(d.leave)))
	})

	t.Run("missing leave is returned", func(t *testing.T) {
		d := setupSideEffects(t)

		err := d.effects.Handle(ctx, events.LeaveLifecycleEvent{EventType: events.LeaveCreated, LeaveID: uuid.NewString()})

		assert.Error(t, err)
	})
}

func TestSideEffects_Decision(t *testing.T) {
	ctx := context.Background()

	t.Run("employee notified on the request thread", func(t *testing.T) {
		d := setupSideEffects(t)
		thread := "thread-1"
		d.leave.EmailThreadID = &thread
		d.leave.Status = leave.StatusRejected

		d.users.EXPECT().FindByID(gomock.Any(), d.manager.ID.String()).Return(&d.manager, nil)
		d.notifier.EXPECT().Configured().Return(true)
		var sent mail.Outgoing
		d.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, out mail.Outgoing) (mail.Sent, error) {
				sent = out
				return mail.Sent{MessageID: "msg-2", ThreadID: thread}, nil
			})
		var refs leave.EmailRefs
		d.repo.saveEmailRefsFn = func(_ context.Context, _ string, r leave.EmailRefs) error {
			refs = r
			return nil
		}

		err := d.effects.Handle(ctx, events.LeaveLifecycleEvent{
			EventType: events.LeaveRejected,
			LeaveID:   d.leave.ID.String(),
			ActorID:   d.manager.ID.String(),
			Comment:   "team offsite that week",
		})

		require.NoError(t, err)
		assert.Equal(t, "eli@mail.com", sent.To)
		assert.Equal(t, "thread-1", sent.ThreadID)
		assert.True(t, strings.HasPrefix(sent.Subject, "Re: "))
		assert.Contains(t, sent.HTML, "rejected")
		assert.Contains(t, sent.HTML, "team offsite that week")
		assert.Equal(t, "msg-2", *refs.DecisionMsgID)
		assert.Nil(t, refs.RequestMsgID)
	})

	t.Run("no mail when unconfigured", func(t *testing.T) {
		d := setupSideEffects(t)
		d.notifier.EXPECT().Configured().Return(false)

		err := d.effects.Handle(ctx, events.LeaveLifecycleEvent{
			EventType: events.LeaveApproved,
			LeaveID:   d.leave.ID.String(),
			ActorID:   d.manager.ID.String(),
		})

		assert.NoError(t, err)
	})
}
