package health

import (
	"context"
	"net/http"
	"time"

	"go-leavemgmt/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Feature reports whether an optional collaborator is wired with real credentials.
type Feature interface {
	Configured() bool
}

type Status struct {
	Status      string    `json:"status"`
	Service     string    `json:"service"`
	Database    string    `json:"database"`
	AIEnabled   bool      `json:"aiEnabled"`
	MailEnabled bool      `json:"mailEnabled"`
	Timestamp   time.Time `json:"timestamp"`
}

type Handler struct {
	db     Pinger
	ai     Feature
	mail   Feature
	logger *zap.Logger
}

func NewHandler(db Pinger, ai, mail Feature, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("health.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("health.handler")
	}
	return &Handler{db: db, ai: ai, mail: mail, logger: l}
}

// Check answers 200 while the database is reachable. AI and mail are optional and only reported.
func (h *Handler) Check(c *gin.Context) {
	res := Status{
		Status:      "OK",
		Service:     "leavemgmt-api",
		Database:    "up",
		AIEnabled:   h.ai.Configured(),
		MailEnabled: h.mail.Configured(),
		Timestamp:   time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("health: database ping failed", zap.Error(err))
		res.Status = "DEGRADED"
		res.Database = "down"
		response.Success(c, http.StatusServiceUnavailable, res, nil)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/health", handler.Check)
}
