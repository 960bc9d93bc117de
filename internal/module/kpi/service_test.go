package kpi

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oneview/server/internal/module/kpi/cache"
	"github.com/oneview/server/internal/module/kpi/enhancer"
	"github.com/oneview/server/internal/module/kpi/source"
	"github.com/oneview/server/internal/utils/pagination"
)

// MockRepository is a mock implementation of Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveSnapshot(ctx context.Context, metrics []*KpiData, campaigns []*CampaignPerformance) error {
	args := m.Called(ctx, metrics, campaigns)
	return args.Error(0)
}

func (m *MockRepository) ListHistory(ctx context.Context, filter HistoryFilter, p *pagination.Pagination) ([]*KpiData, int64, error) {
	args := m.Called(ctx, filter, p)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*KpiData), args.Get(1).(int64), args.Error(2)
}

type recorded struct {
	mu      sync.Mutex
	sources []string
}

func (r *recorded) Record(_ context.Context, name string, _ source.Augmentable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, name)
}

type testEnv struct {
	service  *Service
	store    *cache.TTLCache
	adsCalls *atomic.Int32
	recorder *recorded
	repo     *MockRepository
}

// newTestEnv wires a service whose Google Ads source is live and whose other
// two sources are unconfigured.
func newTestEnv(t *testing.T, adsLive source.LiveFunc[*source.AdsPayload]) *testEnv {
	t.Helper()
	store := cache.NewTTLCache(5 * time.Minute)
	gen := source.NewMockGenerator(3)
	enh := enhancer.New(3, nil)

	calls := &atomic.Int32{}
	var live source.LiveFunc[*source.AdsPayload]
	if adsLive != nil {
		live = func(ctx context.Context) (*source.AdsPayload, error) {
			calls.Add(1)
			return adsLive(ctx)
		}
	}

	fetchers := Fetchers{
		Ads: source.NewFetcher(source.FetcherConfig{Source: source.GoogleAds}, store, live, gen.Ads,
			enhancer.Hook[*source.AdsPayload](enh, enhancer.LabelGoogleAds)),
		Social: source.NewFetcher(source.FetcherConfig{Source: source.MetaAds}, store, nil, gen.Social,
			enhancer.Hook[*source.SocialPayload](enh, enhancer.LabelMetaAds)),
		Analytics: source.NewFetcher(source.FetcherConfig{Source: source.GoogleAnalytics}, store, nil, gen.Analytics,
			enhancer.Hook[*source.AnalyticsPayload](enh, enhancer.LabelGoogleAnalytics)),
	}

	rec := &recorded{}
	repo := new(MockRepository)
	return &testEnv{
		service:  NewService(fetchers, store, repo, rec, nil),
		store:    store,
		adsCalls: calls,
		recorder: rec,
		repo:     repo,
	}
}

func liveAds(context.Context) (*source.AdsPayload, error) {
	return &source.AdsPayload{
		TotalSpend:       200,
		TotalImpressions: 10000,
		TotalClicks:      300,
		TotalConversions: 12,
	}, nil
}

func TestService_Combine(t *testing.T) {
	env := newTestEnv(t, liveAds)

	got := env.service.Combine(context.Background(), "finance")

	assert.Equal(t, "finance", got.UserRole)
	assert.NotEmpty(t, got.LastUpdated)
	assert.Equal(t, "google_ads_api_with_demo_charts_with_demo_campaigns", got.GoogleAds.DataSource)
	assert.Len(t, got.GoogleAds.HistoricalData, 30)
	assert.Len(t, got.GoogleAds.Campaigns, 3)
	assert.Equal(t, source.TagMock, got.MetaAds.DataSource)
	assert.Equal(t, source.TagMock, got.GoogleAnalytics.DataSource)

	totals := CombineTotals(got.GoogleAds, got.MetaAds)
	assert.Equal(t, Project("finance", totals, got.GoogleAnalytics), got.KeyMetrics)
	assert.Contains(t, got.KeyMetrics, "roas")
	assert.NotContains(t, got.KeyMetrics, "ctr")

	assert.Equal(t, []string{source.GoogleAds}, env.recorder.sources)
}

func TestService_CombineServesSecondCallFromCache(t *testing.T) {
	env := newTestEnv(t, liveAds)
	ctx := context.Background()

	first := env.service.Combine(ctx, "admin")
	second := env.service.Combine(ctx, "admin")

	assert.Equal(t, int32(1), env.adsCalls.Load())
	assert.Equal(t, first.GoogleAds, second.GoogleAds)
	assert.Equal(t, first.MetaAds, second.MetaAds)
	assert.Equal(t, first.KeyMetrics, second.KeyMetrics)
	assert.Len(t, env.recorder.sources, 1, "cache hits are not re-recorded")

	stats, err := env.service.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CachedItems)
	assert.Equal(t, []string{"google_ads_admin", "google_analytics_admin", "meta_ads_admin"}, stats.CacheKeys)
}

func TestService_RolesUseSeparateSlots(t *testing.T) {
	env := newTestEnv(t, liveAds)
	ctx := context.Background()

	env.service.Combine(ctx, "admin")
	env.service.Combine(ctx, "marketing")

	assert.Equal(t, int32(2), env.adsCalls.Load())
	stats, err := env.service.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.CachedItems)
}

func TestService_Refresh(t *testing.T) {
	env := newTestEnv(t, liveAds)
	ctx := context.Background()

	env.service.Combine(ctx, "admin")
	_, err := env.service.Refresh(ctx, "admin")
	require.NoError(t, err)

	assert.Equal(t, int32(2), env.adsCalls.Load())
}

func TestService_ClearCache(t *testing.T) {
	env := newTestEnv(t, liveAds)
	ctx := context.Background()

	env.service.Combine(ctx, "admin")
	require.NoError(t, env.service.ClearCache(ctx))

	stats, err := env.service.CacheStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.CachedItems)
	assert.Empty(t, stats.CacheKeys)
}

func TestService_PanickingSourceFallsBackToMock(t *testing.T) {
	env := newTestEnv(t, func(context.Context) (*source.AdsPayload, error) {
		panic("sdk bug")
	})

	got := env.service.Combine(context.Background(), "admin")

	require.NotNil(t, got.GoogleAds)
	assert.Equal(t, source.TagMock, got.GoogleAds.DataSource)
	assert.Empty(t, env.recorder.sources)
}

func TestFetchOne_ReportsPanic(t *testing.T) {
	env := newTestEnv(t, func(context.Context) (*source.AdsPayload, error) {
		panic("sdk bug")
	})

	p, err := fetchOne(context.Background(), env.service, env.service.fetchers.Ads, "admin")
	require.ErrorIs(t, err, ErrSourcePanicked)
	assert.Contains(t, err.Error(), source.GoogleAds)
	require.NotNil(t, p)
	assert.Equal(t, source.TagMock, p.DataSource)

	social, err := fetchOne(context.Background(), env.service, env.service.fetchers.Social, "admin")
	assert.NoError(t, err)
	assert.Equal(t, source.TagMock, social.DataSource)
}

func TestService_LiveFailureFallsBackToMock(t *testing.T) {
	env := newTestEnv(t, func(context.Context) (*source.AdsPayload, error) {
		return nil, errors.New("quota exceeded")
	})

	got := env.service.Combine(context.Background(), "marketing")

	assert.Equal(t, source.TagMock, got.GoogleAds.DataSource)
	assert.Len(t, got.GoogleAds.Campaigns, 5)
	assert.Len(t, got.KeyMetrics, 6)
}

func TestService_DataSourceStatus(t *testing.T) {
	env := newTestEnv(t, liveAds)

	status := env.service.DataSourceStatus(context.Background())

	assert.True(t, status.GoogleAdsAPIEnabled)
	assert.Equal(t, "Real Google Ads API", status.Message)
	assert.True(t, status.Sources[source.GoogleAds].Enabled)
	assert.False(t, status.Sources[source.MetaAds].Enabled)
	assert.Equal(t, source.TagMock, status.Sources[source.GoogleAnalytics].CurrentSource)
	assert.Equal(t, "Mock data (API not enabled)", status.Sources[source.MetaAds].Message)
}

func TestService_History(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	p := pagination.New()
	rows := []*KpiData{{ID: 1, Source: source.GoogleAds, MetricName: "total_spend"}}

	env.repo.On("ListHistory", ctx, HistoryFilter{Source: source.GoogleAds}, p).Return(rows, int64(1), nil)

	got, total, err := env.service.History(ctx, HistoryFilter{Source: source.GoogleAds}, p)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	assert.Equal(t, int64(1), total)
	env.repo.AssertExpectations(t)
}

func TestService_HistoryWithoutRepository(t *testing.T) {
	svc := NewService(Fetchers{}, cache.NewTTLCache(time.Minute), nil, nil, nil)

	_, _, err := svc.History(context.Background(), HistoryFilter{}, pagination.New())
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
}
