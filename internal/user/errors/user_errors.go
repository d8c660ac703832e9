package usererrors

import (
	"net/http"

	"go-leavemgmt/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"email is already registered",
		http.StatusConflict,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"role must be EMPLOYEE, MANAGER or ADMIN",
		http.StatusBadRequest,
	)
	ErrPasswordTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"password must be at least 8 characters",
		http.StatusBadRequest,
	)
	ErrManagerRequired = apperror.New(
		apperror.CodeInvalidInput,
		"manager_id is required for employees",
		http.StatusBadRequest,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodePreconditionFailed,
		"manager not found",
		http.StatusUnprocessableEntity,
	)
	ErrManagerNotEligible = apperror.New(
		apperror.CodePreconditionFailed,
		"assigned manager must be an active MANAGER",
		http.StatusUnprocessableEntity,
	)
	ErrNotAnEmployee = apperror.New(
		apperror.CodeInvalidInput,
		"only employees can be assigned a manager",
		http.StatusBadRequest,
	)
	ErrSelfManager = apperror.New(
		apperror.CodeInvalidInput,
		"a user cannot manage themselves",
		http.StatusBadRequest,
	)
)
