package tokenerrors

import (
	"net/http"

	"go-leavemgmt/internal/shared/apperror"
)

var (
	ErrMalformed = apperror.New(
		apperror.CodeInvalidToken,
		"token is malformed",
		http.StatusUnauthorized,
	)
	ErrExpired = apperror.New(
		apperror.CodeInvalidToken,
		"token has expired",
		http.StatusUnauthorized,
	)
	ErrSignature = apperror.New(
		apperror.CodeInvalidToken,
		"token signature is invalid",
		http.StatusUnauthorized,
	)
	ErrWrongPurpose = apperror.New(
		apperror.CodeInvalidToken,
		"token is not valid for this use",
		http.StatusUnauthorized,
	)
	ErrBindingMismatch = apperror.New(
		apperror.CodeForbidden,
		"token does not match this leave request, actor or action",
		http.StatusForbidden,
	)
	ErrWeakSecret = apperror.New(
		apperror.CodeInternalError,
		"token secret must be at least 32 characters",
		http.StatusInternalServerError,
	)
)
