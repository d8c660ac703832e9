package auth

import (
	"net/http"
	"strings"
	"time"

	"go-leavemgmt/internal/middleware"
	"go-leavemgmt/internal/shared/apperror"
	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service      Service
	secureCookie bool
	logger       *zap.Logger
}

func NewHandler(s Service, secureCookie bool, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, secureCookie: secureCookie, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func isWebClient(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("X-Client-Type"), "web")
}

func (ctrl *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), ctrl.logger)

	res, err := ctrl.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if isWebClient(c) {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     "access_token",
			Value:    res.AccessToken,
			Path:     "/",
			MaxAge:   int(time.Until(res.ExpiresAt).Seconds()),
			HttpOnly: true,
			Secure:   ctrl.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (ctrl *Handler) Me(c *gin.Context) {
	userID := middleware.ActorID(c)
	if userID == "" {
		writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	userResp, err := ctrl.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, userResp, nil)
}

func (ctrl *Handler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ctrl.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	response.Success(c, http.StatusOK, "Logout success.", nil)
}

func (ctrl *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), ctrl.logger)

	res, err := ctrl.service.Register(ctx, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res, nil)
}
