package token_test

import (
	"strings"
	"testing"
	"time"

	"go-leavemgmt/internal/shared/apperror"
	"go-leavemgmt/internal/token"
	tokenerrors "go-leavemgmt/internal/token/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var secret = strings.Repeat("k", 40)

func newService(t *testing.T, opts ...token.Option) *token.Service {
	t.Helper()
	svc, err := token.NewService(token.Config{
		Secret:   secret,
		Issuer:   "leavemgmt",
		Audience: "leavemgmt-clients",
	}, opts...)
	assert.NoError(t, err)
	return svc
}

func TestNewService_WeakSecret(t *testing.T) {
	_, err := token.NewService(token.Config{Secret: "short"})
	assert.ErrorIs(t, err, tokenerrors.ErrWeakSecret)
}

func TestDecisionToken(t *testing.T) {
	leaveID := uuid.NewString()
	actorID := uuid.NewString()

	t.Run("round trip", func(t *testing.T) {
		svc := newService(t)
		raw, err := svc.IssueDecision(token.DecisionClaims{LeaveID: leaveID, ActorID: actorID, Action: token.ActionApprove}, 0)
		assert.NoError(t, err)

		got, err := svc.VerifyDecision(raw)

		assert.NoError(t, err)
		assert.Equal(t, leaveID, got.LeaveID)
		assert.Equal(t, actorID, got.ActorID)
		assert.Equal(t, token.ActionApprove, got.Action)
		assert.WithinDuration(t, got.IssuedAt.Add(24*time.Hour), got.ExpiresAt, time.Second)
	})

	t.Run("binding matches", func(t *testing.T) {
		svc := newService(t)
		raw, _ := svc.IssueDecision(token.DecisionClaims{LeaveID: leaveID, ActorID: actorID, Action: token.ActionReject}, time.Hour)

		_, err := svc.VerifyDecisionFor(raw, leaveID, actorID, token.ActionReject)

		assert.NoError(t, err)
	})

	t.Run("negative token for another leave", func(t *testing.T) {
		svc := newService(t)
		raw, _ := svc.IssueDecision(token.DecisionClaims{LeaveID: leaveID, ActorID: actorID, Action: token.ActionApprove}, time.Hour)

		_, err := svc.VerifyDecisionFor(raw, uuid.NewString(), actorID, token.ActionApprove)

		assert.ErrorIs(t, err, tokenerrors.ErrBindingMismatch)
		assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
	})

	t.Run("negative token for another actor", func(t *testing.T) {
		svc := newService(t)
		raw, _ := svc.IssueDecision(token.DecisionClaims{LeaveID: leaveID, ActorID: actorID, Action: token.ActionApprove}, time.Hour)

		_, err := svc.VerifyDecisionFor(raw, leaveID, uuid.NewString(), token.ActionApprove)

		assert.ErrorIs(t, err, tokenerrors.ErrBindingMismatch)
	})

	t.Run("negative approve token used to reject", func(t *testing.T) {
		svc := newService(t)
		raw, _ := svc.IssueDecision(token.DecisionClaims{LeaveID: leaveID, ActorID: actorID, Action: token.ActionApprove}, time.Hour)

		_, err := svc.VerifyDecisionFor(raw, leaveID, actorID, token.ActionReject)

		assert.ErrorIs(t, err, tokenerrors.ErrBindingMismatch)
	})

	t.Run("negative expired", func(t *testing.T) {
		past := time.Now().Add(-48 * time.Hour)
		issuer := newService(t, token.WithClock(func() time.Time { return past }))
		raw, _ := issuer.IssueDecision(token.DecisionClaims{LeaveID: leaveID, ActorID: actorID, Action: token.ActionApprove}, 24*time.Hour)

		_, err := newService(t).VerifyDecision(raw)

		assert.ErrorIs(t, err, tokenerrors.ErrExpired)
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidToken))
	})

	t.Run("negative bad signature", func(t *testing.T) {
		other, err := token.NewService(token.Config{Secret: strings.Repeat("x", 40), Issuer: "leavemgmt", Audience: "leavemgmt-clients"})
		assert.NoError(t, err)
		raw, _ := other.IssueDecision(token.DecisionClaims{LeaveID: leaveID, ActorID: actorID, Action: token.ActionApprove}, time.Hour)

		_, err = newService(t).VerifyDecision(raw)

		assert.ErrorIs(t, err, tokenerrors.ErrSignature)
	})

	t.Run("negative malformed", func(t *testing.T) {
		_, err := newService(t).VerifyDecision("not-a-token")
		assert.ErrorIs(t, err, tokenerrors.ErrMalformed)

		_, err = newService(t).VerifyDecision("")
		assert.ErrorIs(t, err, tokenerrors.ErrMalformed)
	})

	t.Run("negative unsigned token", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"purpose":  "leave_decision",
			"leave_id": leaveID,
			"actor_id": actorID,
			"action":   "approve",
			"exp":      time.Now().Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		assert.NoError(t, err)

		_, err = newService(t).VerifyDecision(raw)

		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidToken))
	})

	t.Run("negative missing binding fields on issue", func(t *testing.T) {
		_, err := newService(t).IssueDecision(token.DecisionClaims{LeaveID: leaveID}, time.Hour)
		assert.ErrorIs(t, err, tokenerrors.ErrMalformed)
	})
}

func TestSessionToken(t *testing.T) {
	svc := newService(t)
	userID := uuid.NewString()

	raw, exp, err := svc.IssueSession(userID, "MANAGER")
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), exp, 5*time.Second)

	got, err := svc.VerifySession(raw)
	assert.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "MANAGER", got.Role)

	t.Run("purposes are not interchangeable", func(t *testing.T) {
		_, err := svc.VerifyDecision(raw)
		assert.ErrorIs(t, err, tokenerrors.ErrWrongPurpose)

		decision, _ := svc.IssueDecision(token.DecisionClaims{LeaveID: uuid.NewString(), ActorID: userID, Action: token.ActionApprove}, time.Hour)
		_, err = svc.VerifySession(decision)
		assert.ErrorIs(t, err, tokenerrors.ErrWrongPurpose)
	})

	t.Run("negative wrong audience", func(t *testing.T) {
		other, err := token.NewService(token.Config{Secret: secret, Issuer: "leavemgmt", Audience: "someone-else"})
		assert.NoError(t, err)
		foreign, _, _ := other.IssueSession(userID, "ADMIN")

		_, err = svc.VerifySession(foreign)

		assert.ErrorIs(t, err, tokenerrors.ErrMalformed)
	})
}
