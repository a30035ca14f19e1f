package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var ErrMemcachedClosed = errors.New("memcached closed")

const shutdownIntervalMax = 500 * time.Millisecond

type cached[V any] struct {
	value    V
	expireAt int64
}

// Memcached is an in-process cache whose items expire ttlTimeout after
// their last Set. Expired items are dropped by a janitor goroutine.
type Memcached[V any] struct {
	mu          sync.RWMutex
	cleanerOnce sync.Once
	cleanerCh   chan struct{}
	items       map[string]cached[V]
	ttlTimeout  time.Duration
	inShutdown  atomic.Bool
}

func NewMemcached[V any](ttlTimeout, cleanupTimeout time.Duration) *Memcached[V] {
	mc := &Memcached[V]{
		cleanerCh:  make(chan struct{}),
		items:      make(map[string]cached[V]),
		ttlTimeout: ttlTimeout,
	}

	go func() {
		ticker := time.NewTicker(cleanupTimeout)
		defer ticker.Stop()

		for {
			select {
			case <-mc.cleanerCh:
				return
			case <-ticker.C:
				mc.cleanExpiredItems()
			}
		}
	}()
	return mc
}

// Set stores value and restarts its lifetime. During shutdown only
// existing keys are accepted, so running sessions can finish but no new
// ones start.
func (mc *Memcached[V]) Set(key string, value V) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	_, known := mc.items[key]
	if mc.inShutdown.Load() && !known {
		return
	}

	mc.items[key] = cached[V]{
		value:    value,
		expireAt: time.Now().Add(mc.ttlTimeout).UnixNano(),
	}
}

func (mc *Memcached[V]) Get(key string) (V, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	var zero V
	item, exists := mc.items[key]
	if !exists || time.Now().UnixNano() > item.expireAt {
		return zero, false
	}
	return item.value, true
}

func (mc *Memcached[V]) Delete(key string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.items, key)
}

// Shutdown refuses new keys and waits until every item has expired or ctx
// is done, polling with a jittered exponential backoff.
func (mc *Memcached[V]) Shutdown(ctx context.Context) error {
	mc.mu.Lock()
	mc.inShutdown.Store(true)
	mc.mu.Unlock()
	mc.closeCleaner()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Millisecond
	bo.RandomizationFactor = 0.1
	bo.Multiplier = 2
	bo.MaxInterval = shutdownIntervalMax
	bo.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		mc.cleanExpiredItems()
		if !mc.IsEmpty() {
			return errors.New("sessions still active")
		}
		return nil
	}, backoff.WithContext(bo, ctx))
}

func (mc *Memcached[V]) Close() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.inShutdown.Load() {
		return ErrMemcachedClosed
	}

	mc.inShutdown.Store(true)
	mc.cleanerOnce.Do(func() {
		close(mc.cleanerCh)
	})
	clear(mc.items)
	return nil
}

func (mc *Memcached[V]) cleanExpiredItems() {
	now := time.Now().UnixNano()
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for k, v := range mc.items {
		if now > v.expireAt {
			delete(mc.items, k)
		}
	}
}

func (mc *Memcached[V]) IsEmpty() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.items) == 0
}

func (mc *Memcached[V]) closeCleaner() {
	mc.cleanerOnce.Do(func() {
		close(mc.cleanerCh)
	})
}
