// Package lock provides the advisory locks serializing engine operations.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/planhub-io/planhub/internal/application/subscription/usecases"
	"github.com/planhub-io/planhub/internal/shared/id"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

// releaseScript deletes the lock key only when it still holds our token, so
// an expired lock reacquired by another instance is never released by us.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

const (
	acquireRetryInterval = 50 * time.Millisecond
	acquireTimeout       = 5 * time.Second
)

// RedisLocker implements cross-instance mutual exclusion with SET NX PX and
// a token-checked release.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, logger logger.Interface) usecases.Locker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	token, err := id.Generate(16)
	if err != nil {
		return fmt.Errorf("failed to generate lock token: %w", err)
	}

	lockKey := "planhub:lock:" + key
	deadline := time.Now().Add(acquireTimeout)

	for {
		acquired, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out acquiring lock %s", key)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(acquireRetryInterval):
		}
	}

	defer func() {
		if err := l.client.Eval(context.WithoutCancel(ctx), releaseScript, []string{lockKey}, token).Err(); err != nil && err != redis.Nil {
			l.logger.Warnw("failed to release lock", "error", err, "key", key)
		}
	}()

	return fn(ctx)
}

// LocalLocker serializes callers per key within a single process. Used when
// Redis is disabled.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() usecases.Locker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
