package contextutil_test

import (
	"context"
	"testing"

	"go-leavemgmt/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadataRoundTrip(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	ctx = contextutil.WithUserID(ctx, "user-1")
	ctx = contextutil.WithRole(ctx, "MANAGER")

	md := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, "rid-1", md.RequestID)
	assert.Equal(t, "user-1", md.UserID)
	assert.Equal(t, "MANAGER", md.Role)
}

func TestGetLoggerFallbacks(t *testing.T) {
	def := zap.NewExample()

	assert.Same(t, def, contextutil.GetLogger(context.Background(), def))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))

	scoped := zap.NewExample()
	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, def))
}

func TestDetachSurvivesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(contextutil.WithRequestID(context.Background(), "rid-2"))
	detached := contextutil.Detach(ctx)
	cancel()

	assert.Error(t, ctx.Err())
	assert.NoError(t, detached.Err())
	assert.Equal(t, "rid-2", contextutil.GetRequestID(detached))
}
