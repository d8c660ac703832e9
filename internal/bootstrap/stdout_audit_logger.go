package bootstrap

import (
	"context"

	"go-leavemgmt/internal/shared/contextutil"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes audit entries through zap, tagged with the request and actor when known.
type StdoutAuditLogger struct {
	logger *zap.Logger
}

func NewStdoutAuditLogger(logger ...*zap.Logger) *StdoutAuditLogger {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &StdoutAuditLogger{logger: l}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	md := contextutil.ExtractMetadata(ctx)

	fields := make([]zap.Field, 0, 4+len(entry.Meta))
	fields = append(fields,
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
	)
	if md.RequestID != "" {
		fields = append(fields, zap.String("request_id", md.RequestID))
	}
	if md.UserID != "" {
		fields = append(fields, zap.String("actor_id", md.UserID))
	}
	for k, v := range entry.Meta {
		fields = append(fields, zap.Any("meta."+k, v))
	}

	l.logger.Info("audit event", fields...)
}
