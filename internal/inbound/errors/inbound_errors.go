package inbounderrors

import (
	"net/http"

	"go-leavemgmt/internal/shared/apperror"
)

var (
	ErrPollInProgress = apperror.New(
		apperror.CodeConflict,
		"a mailbox poll is already running",
		http.StatusConflict,
	)
	ErrInvalidMaxResults = apperror.New(
		apperror.CodeInvalidInput,
		"max must be between 1 and 50",
		http.StatusBadRequest,
	)
	ErrMailboxRequired = apperror.New(
		apperror.CodeInvalidInput,
		"mailbox is required",
		http.StatusBadRequest,
	)
)
