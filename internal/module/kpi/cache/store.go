// Package cache holds the per-source payload cache shared by the KPI
// fetchers. Values are opaque encoded payloads; freshness is decided by the
// store.
package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long a payload stays fresh.
const DefaultTTL = 5 * time.Minute

var (
	// ErrNotFound is returned when a key is absent or stale.
	ErrNotFound = errors.New("cache: key not found")
)

// Stats describes the live entries of a store.
type Stats struct {
	CachedItems int      `json:"cached_items"`
	CacheKeys   []string `json:"cache_keys"`
}

// Store is a TTL keyed byte store.
type Store interface {
	// Get returns the value for key if it was stored less than one TTL ago.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, restarting its TTL.
	Set(ctx context.Context, key string, value []byte) error
	// ClearExpired drops entries whose TTL has elapsed.
	ClearExpired(ctx context.Context) error
	// Clear drops every entry.
	Clear(ctx context.Context) error
	// Stats drops expired entries and reports the rest.
	Stats(ctx context.Context) (Stats, error)
}
