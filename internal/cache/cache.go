// Package cache provides a read-through cache with a fixed time-to-live,
// backed by an expirable LRU.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Loader computes the value for a key on a cache miss.
type Loader[V any] func(ctx context.Context, key string) (V, error)

// ReadThrough caches successful Loader results for a fixed TTL. Failed loads
// are never cached. Concurrent misses for the same key may each invoke the
// Loader; this is acceptable for idempotent, side-effect-free lookups.
type ReadThrough[V any] struct {
	lru  *expirable.LRU[string, V]
	load Loader[V]
}

// NewReadThrough creates a cache holding at most size entries, each expiring
// ttl after it was stored.
func NewReadThrough[V any](size int, ttl time.Duration, load Loader[V]) *ReadThrough[V] {
	return &ReadThrough[V]{
		lru:  expirable.NewLRU[string, V](size, nil, ttl),
		load: load,
	}
}

// Get returns the cached value for key, loading and storing it on a miss.
func (c *ReadThrough[V]) Get(ctx context.Context, key string) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}
	v, err := c.load(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	c.lru.Add(key, v)
	return v, nil
}

// Purge removes all entries.
func (c *ReadThrough[V]) Purge() {
	c.lru.Purge()
}
