package assistanterrors

import (
	"net/http"

	"go-leavemgmt/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrMessageRequired = apperror.New(
		apperror.CodeInvalidInput,
		"message must be between 1 and 500 characters",
		http.StatusBadRequest,
	)
	ErrInvalidTimeframe = apperror.New(
		apperror.CodeInvalidInput,
		"timeframe must be between 1 and 365 days",
		http.StatusBadRequest,
	)
	ErrInvalidLimit = apperror.New(
		apperror.CodeInvalidInput,
		"limit must be between 1 and 50",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrOwnPatternsOnly = apperror.New(
		apperror.CodeForbidden,
		"employees can only analyze their own patterns",
		http.StatusForbidden,
	)
	ErrTeamPatternsOnly = apperror.New(
		apperror.CodeForbidden,
		"managers can only analyze their own team members",
		http.StatusForbidden,
	)
)
