package token

import (
	"errors"
	"time"

	tokenerrors "go-leavemgmt/internal/token/errors"

	"github.com/golang-jwt/jwt/v5"
)

type Purpose string

const (
	PurposeSession  Purpose = "session"
	PurposeDecision Purpose = "leave_decision"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

const (
	DefaultSessionTTL  = 2 * time.Hour
	DefaultDecisionTTL = 24 * time.Hour
)

type Config struct {
	Secret      string
	Issuer      string
	Audience    string
	SessionTTL  time.Duration
	DecisionTTL time.Duration
}

// DecisionClaims binds a signed link to one request, one actor and one action.
type DecisionClaims struct {
	LeaveID   string
	ActorID   string
	Action    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type SessionClaims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

type claims struct {
	Purpose Purpose `json:"purpose"`
	Role    string  `json:"role,omitempty"`
	LeaveID string  `json:"leave_id,omitempty"`
	ActorID string  `json:"actor_id,omitempty"`
	Action  string  `json:"action,omitempty"`
	jwt.RegisteredClaims
}

type SessionVerifier interface {
	VerifySession(raw string) (SessionClaims, error)
}

type DecisionIssuer interface {
	IssueDecision(c DecisionClaims, ttl time.Duration) (string, error)
}

type DecisionVerifier interface {
	VerifyDecisionFor(raw, leaveID, actorID, action string) (DecisionClaims, error)
}

type Option func(*Service)

// WithClock overrides time.Now, used by tests to mint expired tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	cfg Config
	now func() time.Time
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	if len(cfg.Secret) < 32 {
		return nil, tokenerrors.ErrWeakSecret
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.DecisionTTL <= 0 {
		cfg.DecisionTTL = DefaultDecisionTTL
	}

	s := &Service{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) DecisionTTL() time.Duration {
	return s.cfg.DecisionTTL
}

func (s *Service) IssueSession(userID, role string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.SessionTTL)
	raw, err := s.sign(claims{
		Purpose:          PurposeSession,
		Role:             role,
		RegisteredClaims: s.registered(userID, now, exp),
	})
	return raw, exp, err
}

func (s *Service) VerifySession(raw string) (SessionClaims, error) {
	c, err := s.parse(raw, PurposeSession)
	if err != nil {
		return SessionClaims{}, err
	}
	if c.Subject == "" {
		return SessionClaims{}, tokenerrors.ErrMalformed
	}

	return SessionClaims{
		UserID:    c.Subject,
		Role:      c.Role,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// IssueDecision signs a decision link token. ttl <= 0 uses the configured default.
func (s *Service) IssueDecision(dc DecisionClaims, ttl time.Duration) (string, error) {
	if dc.LeaveID == "" || dc.ActorID == "" || dc.Action == "" {
		return "", tokenerrors.ErrMalformed
	}
	if ttl <= 0 {
		ttl = s.cfg.DecisionTTL
	}

	now := s.now()
	return s.sign(claims{
		Purpose:          PurposeDecision,
		LeaveID:          dc.LeaveID,
		ActorID:          dc.ActorID,
		Action:           dc.Action,
		RegisteredClaims: s.registered(dc.ActorID, now, now.Add(ttl)),
	})
}

func (s *Service) VerifyDecision(raw string) (DecisionClaims, error) {
	c, err := s.parse(raw, PurposeDecision)
	if err != nil {
		return DecisionClaims{}, err
	}
	if c.LeaveID == "" || c.ActorID == "" || c.Action == "" {
		return DecisionClaims{}, tokenerrors.ErrMalformed
	}

	dc := DecisionClaims{
		LeaveID: c.LeaveID,
		ActorID: c.ActorID,
		Action:  c.Action,
	}
	if c.IssuedAt != nil {
		dc.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		dc.ExpiresAt = c.ExpiresAt.Time
	}
	return dc, nil
}

// VerifyDecisionFor verifies the token and that it was minted for exactly this triple.
func (s *Service) VerifyDecisionFor(raw, leaveID, actorID, action string) (DecisionClaims, error) {
	dc, err := s.VerifyDecision(raw)
	if err != nil {
		return DecisionClaims{}, err
	}
	if dc.LeaveID != leaveID || dc.ActorID != actorID || dc.Action != action {
		return DecisionClaims{}, tokenerrors.ErrBindingMismatch
	}
	return dc, nil
}

func (s *Service) registered(subject string, now, exp time.Time) jwt.RegisteredClaims {
	rc := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	if s.cfg.Audience != "" {
		rc.Audience = jwt.ClaimStrings{s.cfg.Audience}
	}
	return rc
}

func (s *Service) sign(c claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(s.cfg.Secret))
}

func (s *Service) parse(raw string, purpose Purpose) (*claims, error) {
	if raw == "" {
		return nil, tokenerrors.ErrMalformed
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}

	c := &claims{}
	_, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, mapParseError(err)
	}
	if c.Purpose != purpose {
		return nil, tokenerrors.ErrWrongPurpose
	}
	return c, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return tokenerrors.ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return tokenerrors.ErrSignature
	default:
		return tokenerrors.ErrMalformed
	}
}
