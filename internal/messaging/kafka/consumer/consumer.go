package consumer

import (
	"context"
	"encoding/json"

	"go-leavemgmt/internal/events"
	"go-leavemgmt/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type LeaveEventHandler interface {
	Handle(ctx context.Context, event events.LeaveLifecycleEvent) error
}

// ConsumeLeaveLifecycle runs side effects for committed lifecycle events. A handler error
// leaves the message uncommitted; undecodable messages are committed and dropped.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	handler LeaveEventHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || !events.IsLeaveLifecycleEvent(event.EventType) {
			log.Error("decode leave lifecycle event failed",
				zap.Int64("offset", msg.Offset),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		hctx := ctx
		if event.RequestID != "" {
			hctx = contextutil.WithRequestID(ctx, event.RequestID)
		}
		hctx = contextutil.WithLogger(hctx, log.With(
			zap.String("request_id", event.RequestID),
			zap.String("leave_id", event.LeaveID),
		))

		if err := handler.Handle(hctx, event); err != nil {
			log.Error("handle leave lifecycle event failed",
				zap.String("event_type", event.EventType),
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave lifecycle event handled",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
		)
	}
}
