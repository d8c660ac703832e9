package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"go-leavemgmt/internal/messaging/kafka"
	"go-leavemgmt/internal/messaging/kafka/producer"
)

type fakeOutboxRepo struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  []string
	listErr error
}

func (f *fakeOutboxRepo) WithTx(*sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(context.Context, kafka.OutboxEvent) error { return nil }

func (f *fakeOutboxRepo) ListPending(context.Context, int) ([]kafka.OutboxEvent, error) {
	return f.pending, f.listErr
}

func (f *fakeOutboxRepo) MarkSent(_ context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(_ context.Context, event kafka.OutboxEvent, _ string) error {
	f.failed = append(f.failed, event.ID)
	return nil
}

type fakeWriter struct {
	msgs    []kafkago.Message
	failKey string
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == f.failKey {
			return errors.New("leader not available")
		}
		f.msgs = append(f.msgs, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	t.Run("publishes and marks", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []kafka.OutboxEvent{
			{ID: "o1", AggregateID: "leave-1", EventType: "leave_created", Topic: "leave.lifecycle.v1", Payload: []byte(`{}`), RequestID: "r1"},
			{ID: "o2", AggregateID: "leave-2", EventType: "leave_approved", Topic: "leave.lifecycle.v1", Payload: []byte(`{}`)},
		}}
		writer := &fakeWriter{failKey: "leave-2"}

		sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.Equal(t, []string{"o1"}, repo.sent)
		assert.Equal(t, []string{"o2"}, repo.failed)

		msg := writer.msgs[0]
		assert.Equal(t, "leave.lifecycle.v1", msg.Topic)
		assert.Equal(t, []byte("leave-1"), msg.Key)
		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "leave_created", headers["event_type"])
		assert.Equal(t, "r1", headers["request_id"])
	})

	t.Run("list error", func(t *testing.T) {
		repo := &fakeOutboxRepo{listErr: errors.New("db down")}

		_, err := producer.ProcessPendingEvents(context.Background(), repo, &fakeWriter{}, zap.NewNop())

		assert.Error(t, err)
	})
}
