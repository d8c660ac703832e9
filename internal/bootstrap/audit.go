package bootstrap

import "context"

// AuditLog is one security-relevant event. Meta carries identifiers only, never message bodies.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
