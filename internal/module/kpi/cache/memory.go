package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

type entry struct {
	value    []byte
	storedAt time.Time
}

// TTLCache is an in-process Store. Reads never evict; stale entries are
// dropped by ClearExpired, Stats, or by being overwritten.
type TTLCache struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]entry
}

// Option configures a TTLCache.
type Option func(*TTLCache)

// WithClock replaces the wall clock, for tests that advance time.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) {
		c.now = now
	}
}

// NewTTLCache creates an empty in-memory cache. A non-positive ttl selects
// DefaultTTL.
func NewTTLCache(ttl time.Duration, opts ...Option) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &TTLCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the freshness window.
func (c *TTLCache) TTL() time.Duration {
	return c.ttl
}

func (c *TTLCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return nil, ErrNotFound
	}
	return e.value, nil
}

func (c *TTLCache) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	c.mu.Lock()
	c.items[key] = entry{value: v, storedAt: c.now()}
	c.mu.Unlock()
	return nil
}

func (c *TTLCache) ClearExpired(_ context.Context) error {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.items {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.items, k)
		}
	}
	return nil
}

func (c *TTLCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.items = make(map[string]entry)
	c.mu.Unlock()
	return nil
}

func (c *TTLCache) Stats(ctx context.Context) (Stats, error) {
	if err := c.ClearExpired(ctx); err != nil {
		return Stats{}, err
	}

	c.mu.RLock()
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	return Stats{CachedItems: len(keys), CacheKeys: keys}, nil
}
