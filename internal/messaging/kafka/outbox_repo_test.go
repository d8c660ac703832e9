package kafka_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-leavemgmt/internal/events"
	"go-leavemgmt/internal/messaging/kafka"
	"go-leavemgmt/internal/shared/testutil"
)

func newOutboxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := testutil.NewSQLiteDB(t).DB()
	require.NoError(t, err)
	return db
}

func newEvent() kafka.OutboxEvent {
	id := uuid.NewString()
	return kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     "req-1",
		AggregateType: "leave",
		AggregateID:   id,
		EventType:     events.LeaveCreated,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       []byte(`{"event_type":"leave_created","leave_id":"` + id + `"}`),
	}
}

func TestOutboxRepository_Lifecycle(t *testing.T) {
	db := newOutboxDB(t)
	repo := kafka.NewOutboxRepository(db)
	ctx := context.Background()

	first, second := newEvent(), newEvent()
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	byID := map[string]kafka.OutboxEvent{}
	for _, e := range pending {
		byID[e.ID] = e
	}
	assert.Equal(t, first.Payload, byID[first.ID].Payload)
	assert.Equal(t, kafka.OutboxStatusPending, byID[first.ID].Status)
	assert.Equal(t, "req-1", byID[first.ID].RequestID)

	require.NoError(t, repo.MarkSent(ctx, first.ID))
	require.NoError(t, repo.MarkFailed(ctx, byID[second.ID], "broker down"))

	// the failed row is scheduled in the future, the sent one is done
	pending, err = repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	var retries int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT retry_count FROM outbox_events WHERE id = $1`, second.ID).Scan(&retries))
	assert.Equal(t, 1, retries)
}

func TestOutboxRepository_CreateInTx(t *testing.T) {
	db := newOutboxDB(t)
	repo := kafka.NewOutboxRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.WithTx(tx).Create(ctx, newEvent()))
	require.NoError(t, tx.Rollback())

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOutboxRepository_CreateValidates(t *testing.T) {
	repo := kafka.NewOutboxRepository(newOutboxDB(t))

	evt := newEvent()
	evt.Topic = ""

	assert.Error(t, repo.Create(context.Background(), evt))
}

func TestNextRetryAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(15*time.Second), kafka.NextRetryAt(now, 0))
	assert.Equal(t, now.Add(45*time.Second), kafka.NextRetryAt(now, 2))
	assert.Equal(t, now.Add(150*time.Second), kafka.NextRetryAt(now, 40))
}
