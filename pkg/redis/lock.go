package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
)

const scoringLockScope = "scoring"

// ErrLockNotAcquired is returned when the scoring mutex stayed held by
// another writer for the whole retry budget.
var ErrLockNotAcquired = errors.New("scoring lock not acquired")

// RequestLocker serializes score recomputation per procurement request.
// Concurrent quote intakes for the same request would otherwise race on the
// full-recompute write and leave incomparable scores behind.
type RequestLocker struct {
	locker  *redislock.Client
	keys    interface{ LockKey(scope, id string) string }
	ttl     time.Duration
	retries int
}

// NewRequestLocker builds the per-request mutex on top of the shared client.
func NewRequestLocker(client *Client, ttl time.Duration, retries int) (*RequestLocker, error) {
	if client == nil || client.raw == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &RequestLocker{
		locker:  redislock.New(client.raw),
		keys:    client,
		ttl:     ttl,
		retries: retries,
	}, nil
}

// WithLock runs fn while holding the mutex for the given request id.
func (l *RequestLocker) WithLock(ctx context.Context, requestID string, fn func(ctx context.Context) error) error {
	if l == nil || l.locker == nil {
		return errors.New("request locker not initialized")
	}

	key := l.keys.LockKey(scoringLockScope, requestID)
	backoff := redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), l.retries)

	lock, err := l.locker.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: backoff})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return ErrLockNotAcquired
		}
		return fmt.Errorf("obtain scoring lock: %w", err)
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()

	return fn(ctx)
}
