package mail

import (
	"net/http"

	"go-leavemgmt/internal/shared/apperror"
	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	oauth    OAuthService
	notifier Notifier
	logger   *zap.Logger
}

func NewHandler(oauth OAuthService, notifier Notifier, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("mail.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mail.handler")
	}
	return &Handler{oauth: oauth, notifier: notifier, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) AuthURL(c *gin.Context) {
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	url, err := h.oauth.AuthURL(ctx)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, AuthURLResponse{AuthURL: url}, nil)
}

func (h *Handler) Callback(c *gin.Context) {
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("gmail oauth denied", zap.String("error", errParam))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "authorization was denied", errParam)
		return
	}

	mailbox, err := h.oauth.Connect(ctx, c.Query("state"), c.Query("code"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ConnectResponse{Mailbox: mailbox, Connected: true}, nil)
}

// Send delivers an ad-hoc message through the configured notifier.
func (h *Handler) Send(c *gin.Context) {
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	sent, err := h.notifier.Send(ctx, Outgoing{
		To:       req.To,
		Subject:  req.Subject,
		HTML:     req.HTML,
		ThreadID: req.ThreadID,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sent, nil)
}
