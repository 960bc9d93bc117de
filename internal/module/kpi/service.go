package kpi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oneview/server/internal/module/kpi/cache"
	"github.com/oneview/server/internal/module/kpi/source"
	"github.com/oneview/server/internal/utils/pagination"
)

// SnapshotRecorder persists live payloads. *Recorder implements it.
type SnapshotRecorder interface {
	Record(ctx context.Context, sourceName string, payload source.Augmentable)
}

// Fetchers bundles the three per-source fetchers.
type Fetchers struct {
	Ads       *source.Fetcher[*source.AdsPayload]
	Social    *source.Fetcher[*source.SocialPayload]
	Analytics *source.Fetcher[*source.AnalyticsPayload]
}

// Service assembles the dashboard view and manages the payload cache.
type Service struct {
	fetchers Fetchers
	store    cache.Store
	repo     Repository
	recorder SnapshotRecorder
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a KPI service. repo and recorder may be nil, in which
// case history is unavailable and nothing is persisted.
func NewService(fetchers Fetchers, store cache.Store, repo Repository, recorder SnapshotRecorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetchers: fetchers,
		store:    store,
		repo:     repo,
		recorder: recorder,
		now:      time.Now,
		logger:   logger,
	}
}

// Combine fetches the three sources concurrently and projects them for role.
// It never fails: each source falls back to mock data on its own.
func (s *Service) Combine(ctx context.Context, role string) *CombinedPayload {
	var (
		out = &CombinedPayload{UserRole: role}
		g   errgroup.Group
	)

	g.Go(func() (err error) {
		out.GoogleAds, err = fetchOne(ctx, s, s.fetchers.Ads, role)
		return err
	})
	g.Go(func() (err error) {
		out.MetaAds, err = fetchOne(ctx, s, s.fetchers.Social, role)
		return err
	})
	g.Go(func() (err error) {
		out.GoogleAnalytics, err = fetchOne(ctx, s, s.fetchers.Analytics, role)
		return err
	})
	// Every payload is set even when err is non-nil.
	if err := g.Wait(); err != nil {
		s.logger.Error("source fetch panicked, serving mock data", zap.String("role", role), zap.Error(err))
	}

	totals := CombineTotals(out.GoogleAds, out.MetaAds)
	out.KeyMetrics = Project(role, totals, out.GoogleAnalytics)
	out.LastUpdated = s.now().Format(time.RFC3339)

	s.logger.Debug("combined kpi data",
		zap.String("role", role),
		zap.String("google_ads", out.GoogleAds.DataSource),
		zap.String("meta_ads", out.MetaAds.DataSource),
		zap.String("google_analytics", out.GoogleAnalytics.DataSource))
	return out
}

// fetchOne runs one fetcher and records live payloads. A panic is replaced by
// that source's mock payload and reported as ErrSourcePanicked.
func fetchOne[P source.Payload](ctx context.Context, s *Service, f *source.Fetcher[P], role string) (p P, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = f.Mock()
			err = fmt.Errorf("%w: %s: %v", ErrSourcePanicked, f.Source(), r)
		}
	}()

	p, origin := f.Fetch(ctx, role)
	if origin == source.OriginLive && s.recorder != nil {
		s.recorder.Record(ctx, f.Source(), p)
	}
	return p, nil
}

// ClearCache drops every cached source payload.
func (s *Service) ClearCache(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	s.logger.Info("kpi cache cleared")
	return nil
}

// CacheStats returns the live cache entries.
func (s *Service) CacheStats(ctx context.Context) (cache.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return cache.Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}

// Refresh clears the cache and recombines for role.
func (s *Service) Refresh(ctx context.Context, role string) (*CombinedPayload, error) {
	if err := s.ClearCache(ctx); err != nil {
		return nil, err
	}
	return s.Combine(ctx, role), nil
}

var sourceLabels = map[string]string{
	source.GoogleAds:       "Google Ads",
	source.MetaAds:         "Meta Ads",
	source.GoogleAnalytics: "Google Analytics",
}

// DataSourceStatus reports which sources are currently served from their
// live APIs. It reads through the role-less cache slots.
func (s *Service) DataSourceStatus(ctx context.Context) *DataSourceStatus {
	ads, adsErr := fetchOne(ctx, s, s.fetchers.Ads, "")
	social, socialErr := fetchOne(ctx, s, s.fetchers.Social, "")
	analytics, analyticsErr := fetchOne(ctx, s, s.fetchers.Analytics, "")
	if err := errors.Join(adsErr, socialErr, analyticsErr); err != nil {
		s.logger.Error("source fetch panicked, serving mock data", zap.Error(err))
	}

	sources := map[string]SourceStatus{
		source.GoogleAds:       statusOf(source.GoogleAds, ads.DataSource),
		source.MetaAds:         statusOf(source.MetaAds, social.DataSource),
		source.GoogleAnalytics: statusOf(source.GoogleAnalytics, analytics.DataSource),
	}
	adsStatus := sources[source.GoogleAds]

	return &DataSourceStatus{
		GoogleAdsAPIEnabled: adsStatus.Enabled,
		CurrentSource:       adsStatus.CurrentSource,
		Message:             adsStatus.Message,
		Timestamp:           s.now().UTC().Format(time.RFC3339),
		Sources:             sources,
	}
}

func statusOf(name, tag string) SourceStatus {
	enabled := strings.HasPrefix(tag, source.LiveTag(name))
	msg := "Mock data (API not enabled)"
	if enabled {
		msg = "Real " + sourceLabels[name] + " API"
	}
	return SourceStatus{Enabled: enabled, CurrentSource: tag, Message: msg}
}

// History lists persisted KPI snapshot rows, newest first.
func (s *Service) History(ctx context.Context, filter HistoryFilter, p *pagination.Pagination) ([]*KpiData, int64, error) {
	if s.repo == nil {
		return nil, 0, ErrHistoryUnavailable
	}
	rows, total, err := s.repo.ListHistory(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list kpi history: %w", err)
	}
	return rows, total, nil
}
