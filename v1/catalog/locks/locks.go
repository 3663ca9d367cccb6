package locks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
	"github.com/Aleph-Alpha/catalog-ingest/v1/redis"
)

// ErrTimeout is returned when the provider lock stayed busy for the whole wait.
var ErrTimeout = errors.New("timed out waiting for provider upload lock")

const (
	minPoll = 50 * time.Millisecond
	maxPoll = time.Second
)

// Handle is a held lock.
type Handle interface {
	Refresh(ctx context.Context) error
	Release(ctx context.Context) error
}

// Locker makes a single attempt to take key. It returns
// redis.ErrLockNotAcquired when the key is held elsewhere.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (Handle, error)
}

type redisLocker struct {
	client *redis.RedisClient
}

func (r redisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (Handle, error) {
	lock, err := r.client.TryLock(ctx, r.client.Key(key), ttl)
	if err != nil {
		return nil, err
	}
	return lock, nil
}

// NewRedisLocker adapts the Redis client to Locker.
func NewRedisLocker(client *redis.RedisClient) Locker {
	return redisLocker{client: client}
}

// ProviderLock serializes catalog uploads per provider across replicas.
type ProviderLock struct {
	locker Locker
	ttl    time.Duration
	wait   time.Duration
	log    logger.Logger
}

func NewProviderLock(locker Locker, ttl, wait time.Duration, log logger.Logger) *ProviderLock {
	return &ProviderLock{locker: locker, ttl: ttl, wait: wait, log: log}
}

// Acquire blocks until the provider's lock is taken or the configured wait
// elapses. While held, the lock's TTL is refreshed in the background. The
// returned release func is safe to call more than once.
func (p *ProviderLock) Acquire(ctx context.Context, providerID string) (func(), error) {
	key := "upload:" + providerID
	deadline := time.Now().Add(p.wait)
	poll := minPoll

	var handle Handle
	for {
		h, err := p.locker.TryLock(ctx, key, p.ttl)
		if err == nil {
			handle = h
			break
		}
		if !errors.Is(err, redis.ErrLockNotAcquired) {
			return nil, err
		}
		if time.Now().Add(poll).After(deadline) {
			return nil, fmt.Errorf("%w: provider %s", ErrTimeout, providerID)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(poll):
		}
		poll = min(poll*2, maxPoll)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go p.keepAlive(handle, providerID, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := handle.Release(releaseCtx); err != nil {
				p.log.Warn("failed to release provider upload lock", err, map[string]interface{}{
					"provider_id": providerID,
				})
			}
		})
	}, nil
}

func (p *ProviderLock) keepAlive(h Handle, providerID string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	interval := p.ttl / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			err := h.Refresh(ctx)
			cancel()
			if err != nil {
				p.log.Warn("failed to refresh provider upload lock", err, map[string]interface{}{
					"provider_id": providerID,
				})
				if errors.Is(err, redis.ErrLockNotHeld) {
					return
				}
			}
		}
	}
}
