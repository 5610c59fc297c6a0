// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Thread-safe typed cache using sync.Map with background cleanup

package cache

import (
	"log/slog"
	"sync"
	"time"
)

type entry[V any] struct {
	data      V
	expiresAt time.Time
}

// Cache maps string keys to values of type V for a fixed TTL.
// A zero TTL disables caching: Set is a no-op and Get always misses.
type Cache[V any] struct {
	store sync.Map
	ttl   time.Duration
	now   func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a cache and starts its cleanup loop. Call Close to stop it.
func New[V any](ttl time.Duration) *Cache[V] {
	c := &Cache[V]{
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
	}
	if ttl > 0 {
		go c.startCleanup(time.Minute)
	}
	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return zero, false
	}

	e := val.(entry[V])
	if c.now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return zero, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.store.Store(key, entry[V]{
		data:      value,
		expiresAt: c.now().Add(ttl),
	})
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

func (c *Cache[V]) Clear(key string) {
	c.store.Delete(key)
}

// Close stops the cleanup loop
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := c.now()
			c.store.Range(func(key, val any) bool {
				if now.After(val.(entry[V]).expiresAt) {
					c.store.Delete(key)
				}
				return true
			})
		}
	}
}
