package inbound

import (
	"net/http"

	"go-leavemgmt/internal/shared/apperror"
	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("inbound.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("inbound.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) Poll(c *gin.Context) {
	var body PollBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
			return
		}
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.Poll(ctx, PollRequest{Mailbox: body.Mailbox, Query: body.Query, MaxResults: body.Max})
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}
