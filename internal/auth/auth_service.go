package auth

import (
	"context"
	"strings"
	"time"

	autherrors "go-leavemgmt/internal/auth/errors"
	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/user"
	usererrors "go-leavemgmt/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionIssuer mints session tokens; *token.Service satisfies it.
type SessionIssuer interface {
	IssueSession(userID, role string) (string, time.Time, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	users   user.Repository
	userSvc user.Service
	issuer  SessionIssuer
	logger  *zap.Logger
}

func NewService(users user.Repository, userSvc user.Service, issuer SessionIssuer, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, userSvc: userSvc, issuer: issuer, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if user.IsNotFound(err) {
			return LoginResult{}, autherrors.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		log.Info("login rejected", zap.String("user_id", u.ID.String()))
		return LoginResult{}, autherrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		return LoginResult{}, autherrors.ErrAccountDisabled
	}

	accessToken, expiresAt, err := s.issuer.IssueSession(u.ID.String(), u.Role)
	if err != nil {
		log.Error("issue session failed", zap.Error(err))
		return LoginResult{}, autherrors.ErrTokenGenerationFailed
	}

	return LoginResult{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        toAuthResponse(*u),
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if user.IsNotFound(err) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}

	resp := toAuthResponse(*u)
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	created, err := s.userSvc.Create(ctx, user.CreateUserRequest{
		Email:     req.Email,
		Name:      req.Name,
		Password:  req.Password,
		Role:      req.Role,
		ManagerID: req.ManagerID,
	})
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		ID:        created.ID,
		Email:     created.Email,
		Name:      created.Name,
		Role:      created.Role,
		ManagerID: created.ManagerID,
	}, nil
}

func toAuthResponse(u user.User) AuthResponse {
	resp := AuthResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
	if u.ManagerID != nil {
		m := u.ManagerID.String()
		resp.ManagerID = &m
	}
	return resp
}
