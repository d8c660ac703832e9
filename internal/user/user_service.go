package user

import (
	"context"
	"strings"

	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/shared/database"
	usererrors "go-leavemgmt/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	ListManagers(ctx context.Context) ([]UserResponse, error)
	ListTeam(ctx context.Context, managerID string) ([]UserResponse, error)
	AssignManager(ctx context.Context, employeeID, managerID string) (UserResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if !IsValidRole(role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}
	if len(req.Password) < 8 {
		return UserResponse{}, usererrors.ErrPasswordTooShort
	}

	var managerID *uuid.UUID
	if req.ManagerID != nil && *req.ManagerID != "" {
		mgr, err := s.loadEligibleManager(ctx, *req.ManagerID)
		if err != nil {
			return UserResponse{}, err
		}
		managerID = &mgr.ID
	}
	if role == RoleEmployee && managerID == nil {
		return UserResponse{}, usererrors.ErrManagerRequired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	u := &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		Role:      role,
		ManagerID: managerID,
		Password:  string(hashed),
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err, "") {
			return UserResponse{}, usererrors.ErrEmailAlreadyRegistered
		}
		log.Error("create user persist failed", zap.String("email", email), zap.Error(err))
		return UserResponse{}, err
	}

	log.Info("create user success",
		zap.String("user_id", u.ID.String()),
		zap.String("role", role),
	)
	return mapToResponse(*u), nil
}

func (s *service) ListManagers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAllByRole(ctx, RoleManager)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) ListTeam(ctx context.Context, managerID string) ([]UserResponse, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	users, err := s.repo.FindByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

// AssignManager rebinds an employee. Requests already filed keep the manager they were bound to.
func (s *service) AssignManager(ctx context.Context, employeeID, managerID string) (UserResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(employeeID); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	if employeeID == managerID {
		return UserResponse{}, usererrors.ErrSelfManager
	}

	emp, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if IsNotFound(err) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	if emp.Role != RoleEmployee {
		return UserResponse{}, usererrors.ErrNotAnEmployee
	}

	mgr, err := s.loadEligibleManager(ctx, managerID)
	if err != nil {
		return UserResponse{}, err
	}

	if err := s.repo.UpdateManager(ctx, employeeID, mgr.ID.String()); err != nil {
		if IsNotFound(err) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		log.Error("assign manager persist failed", zap.String("employee_id", employeeID), zap.Error(err))
		return UserResponse{}, err
	}

	log.Info("assign manager success",
		zap.String("employee_id", employeeID),
		zap.String("manager_id", mgr.ID.String()),
	)
	emp.ManagerID = &mgr.ID
	return mapToResponse(*emp), nil
}

func (s *service) loadEligibleManager(ctx context.Context, managerID string) (*User, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	mgr, err := s.repo.FindByID(ctx, managerID)
	if err != nil {
		if IsNotFound(err) {
			return nil, usererrors.ErrManagerNotFound
		}
		return nil, err
	}
	if mgr.Role != RoleManager || !mgr.IsActive {
		return nil, usererrors.ErrManagerNotEligible
	}
	return mgr, nil
}
