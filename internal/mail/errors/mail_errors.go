package mailerrors

import (
	"net/http"

	"go-leavemgmt/internal/shared/apperror"
)

var (
	ErrNotConfigured = apperror.New(
		apperror.CodeServiceUnavailable,
		"mail delivery is not configured",
		http.StatusServiceUnavailable,
	)
	ErrMailboxNotConnected = apperror.New(
		apperror.CodePreconditionFailed,
		"service mailbox has not been connected, complete the Gmail authorization first",
		http.StatusUnprocessableEntity,
	)
	ErrInboxUnsupported = apperror.New(
		apperror.CodePreconditionFailed,
		"the configured mail transport cannot read an inbox",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidOAuthState = apperror.New(
		apperror.CodeInvalidInput,
		"oauth state is missing or expired",
		http.StatusBadRequest,
	)
	ErrOAuthExchangeFailed = apperror.New(
		apperror.CodeServiceUnavailable,
		"failed to exchange authorization code",
		http.StatusServiceUnavailable,
	)
	ErrMessageNotFound = apperror.New(
		apperror.CodeNotFound,
		"message not found",
		http.StatusNotFound,
	)
	ErrMissingRecipient = apperror.New(
		apperror.CodeInvalidInput,
		"recipient is required",
		http.StatusBadRequest,
	)
)
