package inbound

import (
	"context"
	"sync"
	"time"

	"go-leavemgmt/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Locker grants a best-effort exclusive lease on key. unlock is safe to call once.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(), ok bool, err error)
}

type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time)}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if until, ok := l.held[key]; ok && time.Now().Before(until) {
		return nil, false, nil
	}
	l.held[key] = time.Now().Add(ttl)

	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, true, nil
}

// RedisLocker uses SET NX so polls are exclusive across replicas.
// When Redis is unreachable it degrades to a process-local lock.
type RedisLocker struct {
	rdb      redis.Cmdable
	fallback *LocalLocker
	logger   *zap.Logger
}

func NewRedisLocker(rdb redis.Cmdable, logger ...*zap.Logger) *RedisLocker {
	l := zap.L().Named("inbound.lock")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("inbound.lock")
	}
	return &RedisLocker{rdb: rdb, fallback: NewLocalLocker(), logger: l}
}

func (r *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	acquired, err := r.rdb.SetNX(ctx, key, "locked", ttl).Result()
	if err != nil {
		contextutil.GetLogger(ctx, r.logger).Warn("redis lock failed, using local lock", zap.String("key", key), zap.Error(err))
		return r.fallback.TryLock(ctx, key, ttl)
	}
	if !acquired {
		return nil, false, nil
	}

	return func() {
		if err := r.rdb.Del(contextutil.Detach(ctx), key).Err(); err != nil {
			r.logger.Warn("redis unlock failed", zap.String("key", key), zap.Error(err))
		}
	}, true, nil
}
