package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"go-leavemgmt/internal/events"
	"go-leavemgmt/internal/messaging/kafka"
	"go-leavemgmt/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventSink carries lifecycle events out of the transaction. Stage runs inside it,
// Flush after a successful commit. Neither may affect the committed transition.
type EventSink interface {
	Stage(ctx context.Context, tx *sql.Tx, evt events.LeaveLifecycleEvent) error
	Flush(ctx context.Context, evt events.LeaveLifecycleEvent)
}

type EventHandler interface {
	Handle(ctx context.Context, evt events.LeaveLifecycleEvent) error
}

// DispatchSink runs the handler in-process on a detached, time-bounded goroutine.
type DispatchSink struct {
	handler EventHandler
	timeout time.Duration
	wg      sync.WaitGroup
	logger  *zap.Logger
}

func NewDispatchSink(handler EventHandler, timeout time.Duration, logger ...*zap.Logger) *DispatchSink {
	l := zap.L().Named("leave.dispatch")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.dispatch")
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &DispatchSink{handler: handler, timeout: timeout, logger: l}
}

func (d *DispatchSink) Stage(context.Context, *sql.Tx, events.LeaveLifecycleEvent) error {
	return nil
}

func (d *DispatchSink) Flush(ctx context.Context, evt events.LeaveLifecycleEvent) {
	bg := contextutil.Detach(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("leave side effect panicked", zap.String("leave_id", evt.LeaveID), zap.Any("panic", r))
			}
		}()

		hctx, cancel := context.WithTimeout(bg, d.timeout)
		defer cancel()
		if err := d.handler.Handle(hctx, evt); err != nil {
			d.logger.Warn("leave side effect failed",
				zap.String("event_type", evt.EventType),
				zap.String("leave_id", evt.LeaveID),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until in-flight side effects finish. Used on shutdown and in tests.
func (d *DispatchSink) Wait() {
	d.wg.Wait()
}

// OutboxSink writes the event to the outbox in the lifecycle transaction; the worker publishes it.
type OutboxSink struct {
	repo kafka.OutboxRepository
}

func NewOutboxSink(repo kafka.OutboxRepository) *OutboxSink {
	return &OutboxSink{repo: repo}
}

func (o *OutboxSink) Stage(ctx context.Context, tx *sql.Tx, evt events.LeaveLifecycleEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return o.repo.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     evt.RequestID,
		AggregateType: "leave",
		AggregateID:   evt.LeaveID,
		EventType:     evt.EventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (o *OutboxSink) Flush(context.Context, events.LeaveLifecycleEvent) {}
