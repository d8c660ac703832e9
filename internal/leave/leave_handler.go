package leave

import (
	"context"
	"net/http"
	"strconv"

	"go-leavemgmt/internal/middleware"
	"go-leavemgmt/internal/shared/apperror"
	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/shared/response"
	"go-leavemgmt/internal/token"
	"go-leavemgmt/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{svc: service, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.Create(ctx, middleware.ActorID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res, nil)
}

// List returns the leaves visible to the caller's role, optionally filtered by ?status=.
func (h *Handler) List(c *gin.Context) {
	h.list(c, middleware.ActorRole(c))
}

// Mine lists the caller's own requests regardless of role.
func (h *Handler) Mine(c *gin.Context) {
	h.list(c, user.RoleEmployee)
}

func (h *Handler) list(c *gin.Context, role string) {
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.ListVisible(ctx, middleware.ActorID(c), role, c.Query("status"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	items, meta := response.Paginate(res, page, pageSize)

	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.GetByID(ctx, c.Param("id"), middleware.ActorID(c), middleware.ActorRole(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.svc.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.svc.Reject)
}

type decideFunc func(ctx context.Context, leaveID, actorID, comment string) (LeaveResponse, error)

func (h *Handler) decide(c *gin.Context, fn decideFunc) {
	var req DecisionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
			return
		}
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := fn(ctx, c.Param("id"), middleware.ActorID(c), req.Comment)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.Cancel(ctx, c.Param("id"), middleware.ActorID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) ApproveLink(c *gin.Context) {
	h.decisionLink(c, token.ActionApprove)
}

func (h *Handler) RejectLink(c *gin.Context) {
	h.decisionLink(c, token.ActionReject)
}

// decisionLink serves the signed email links. It answers with a small HTML page, never the JSON envelope.
func (h *Handler) decisionLink(c *gin.Context, action string) {
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	leaveID := c.Param("id")

	res, err := h.svc.DecideWithToken(ctx, leaveID, c.Query("actor"), action, c.Query("token"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.writePage(c, httpErr.Status, decisionPage{
			Title:   "Decision not applied",
			Message: httpErr.Message,
			LeaveID: leaveID,
		})
		return
	}

	outcome := "approved"
	if action == token.ActionReject {
		outcome = "rejected"
	}
	h.writePage(c, http.StatusOK, decisionPage{
		Title:   "Leave request " + outcome,
		Message: "The leave request from " + res.Employee.Name + " has been " + outcome + ".",
		LeaveID: res.ID,
	})
}

func (h *Handler) writePage(c *gin.Context, status int, page decisionPage) {
	body, err := render(decisionPageTmpl, page)
	if err != nil {
		h.logger.Error("render decision page failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(body))
}
