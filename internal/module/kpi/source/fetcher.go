package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/oneview/server/internal/module/kpi/cache"
	"github.com/oneview/server/internal/shared/metrics"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// DefaultFetchTimeout bounds a single live call.
const DefaultFetchTimeout = 10 * time.Second

// CacheKey returns the cache slot for a source and role. An empty role is
// rendered as "None".
func CacheKey(source, role string) string {
	if role == "" {
		role = "None"
	}
	return source + "_" + role
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Source           string
	Timeout          time.Duration
	FailureThreshold uint32        // consecutive failures that open the breaker
	BreakerTimeout   time.Duration // how long the breaker stays open
	Metrics          *metrics.Metrics
	Logger           *zap.Logger
}

// Fetcher serves one source's payload: from cache when fresh, else from the
// live API through a circuit breaker, else from the mock generator. Fresh
// payloads pass through the post-fetch hook and are cached.
type Fetcher[P Payload] struct {
	source  string
	store   cache.Store
	live    LiveFunc[P]
	mock    MockFunc[P]
	hook    func(P) P
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[P]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewFetcher creates a fetcher. live may be nil, in which case every miss is
// served by mock. hook may be nil.
func NewFetcher[P Payload](cfg FetcherConfig, store cache.Store, live LiveFunc[P], mock MockFunc[P], hook func(P) P) *Fetcher[P] {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFetchTimeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	logger := cfg.Logger.With(zap.String("source", cfg.Source))

	threshold := cfg.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker[P](gobreaker.Settings{
		Name:        cfg.Source,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// Missing credentials are a steady state, not an outage.
			return err == nil || errors.Is(err, ErrNotConfigured)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Fetcher[P]{
		source:  cfg.Source,
		store:   store,
		live:    live,
		mock:    mock,
		hook:    hook,
		timeout: cfg.Timeout,
		breaker: breaker,
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

// Source returns the source name.
func (f *Fetcher[P]) Source() string {
	return f.source
}

// Mock returns an un-enhanced mock payload.
func (f *Fetcher[P]) Mock() P {
	return f.mock()
}

// Fetch returns the payload for role. It never fails: every live error is
// absorbed by the mock fallback, and cache failures degrade to a miss.
func (f *Fetcher[P]) Fetch(ctx context.Context, role string) (P, Origin) {
	// A started fetch runs to completion even if the caller goes away; its
	// result lands in the shared cache slot. Only f.timeout bounds it.
	ctx = context.WithoutCancel(ctx)
	key := CacheKey(f.source, role)

	if p, ok := f.fromCache(ctx, key); ok {
		f.metrics.RecordCacheHit(f.source)
		f.metrics.RecordSourceFetch(f.source, string(OriginCache))
		return p, OriginCache
	}
	f.metrics.RecordCacheMiss(f.source)

	p, origin, err := Fallback(f.callLive, f.mock)(ctx)
	if err != nil {
		level := f.logger.Warn
		if errors.Is(err, ErrNotConfigured) {
			level = f.logger.Debug
		}
		level("live fetch unavailable, using mock data", zap.Error(err))
	}
	if f.hook != nil {
		p = f.hook(p)
	}

	f.toCache(ctx, key, p)
	f.metrics.RecordSourceFetch(f.source, string(origin))
	return p, origin
}

func (f *Fetcher[P]) fromCache(ctx context.Context, key string) (P, bool) {
	var zero P

	data, err := f.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			f.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}

	var p P
	if err := json.Unmarshal(data, &p); err != nil || p == zero {
		f.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return p, true
}

func (f *Fetcher[P]) toCache(ctx context.Context, key string, p P) {
	data, err := json.Marshal(p)
	if err != nil {
		f.logger.Error("encode payload for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := f.store.Set(ctx, key, data); err != nil {
		f.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (f *Fetcher[P]) callLive(ctx context.Context) (P, error) {
	var zero P
	if f.live == nil {
		return zero, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	p, err := f.breaker.Execute(func() (P, error) {
		p, err := f.live(ctx)
		if err == nil && p == zero {
			err = ErrEmptyPayload
		}
		return p, err
	})
	if !errors.Is(err, ErrNotConfigured) {
		f.metrics.RecordLiveCall(f.source, err, time.Since(start))
	}
	if err != nil {
		return zero, fmt.Errorf("%s live fetch: %w", f.source, err)
	}

	p.SetTag(LiveTag(f.source))
	return p, nil
}
