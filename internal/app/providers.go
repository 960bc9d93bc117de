package app

import (
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oneview/server/internal/module/auth"
	"github.com/oneview/server/internal/module/kpi"
	"github.com/oneview/server/internal/module/kpi/cache"
	"github.com/oneview/server/internal/module/kpi/enhancer"
	"github.com/oneview/server/internal/module/kpi/source"
	"github.com/oneview/server/internal/module/kpi/source/analytics"
	"github.com/oneview/server/internal/module/kpi/source/googleads"
	"github.com/oneview/server/internal/module/kpi/source/meta"
	"github.com/oneview/server/internal/module/user"
	sharedcache "github.com/oneview/server/internal/shared/cache"
	"github.com/oneview/server/internal/shared/config"
	"github.com/oneview/server/internal/shared/database"
	"github.com/oneview/server/internal/shared/httpclient"
	"github.com/oneview/server/internal/shared/logger"
	"github.com/oneview/server/internal/shared/metrics"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideDatabase,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideLogger,
	ProvideZapLogger,
	ProvideRegistry,
	ProvideMetrics,
)

// ProvideDatabase opens the database and migrates the schema.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db, &user.User{}, &kpi.KpiData{}, &kpi.CampaignPerformance{}); err != nil {
		_ = database.Close(db)
		return nil, nil, err
	}
	return db, func() { _ = database.Close(db) }, nil
}

// ProvideRedisClient creates a Redis client. It returns nil when Redis is
// not configured or unreachable.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (goredis.UniversalClient, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := sharedcache.NewRedisClient(&cfg.Redis)
	if err != nil {
		zapLog.Warn("Redis connection failed, continuing without it", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = sharedcache.Close(client) }
}

// ProvideLogger creates a logger instance.
func ProvideLogger(cfg *config.Config) *logger.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideZapLogger creates a zap logger instance.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	return zapLog, func() { _ = zapLog.Sync() }, nil
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient)
}

// ProvideRegistry creates the Prometheus registry served at /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.NewWithRegistry("oneview", reg)
}

// ===== Auth and User Providers =====

// UserSet provides authentication and user dependencies.
var UserSet = wire.NewSet(
	ProvideJWTManager,
	user.NewRepository,
	user.NewService,
	user.NewHandler,
)

// ProvideJWTManager creates the JWT manager.
func ProvideJWTManager(cfg *config.Config) *auth.JWTManager {
	return auth.NewJWTManager(&auth.JWTConfig{
		Secret:            cfg.Auth.JWTSecret,
		AccessTokenExpiry: cfg.Auth.AccessTokenExpiry,
		Issuer:            cfg.Auth.Issuer,
	})
}

// ===== KPI Providers =====

// KPISet provides the KPI cache, sources and service.
var KPISet = wire.NewSet(
	ProvideCacheStore,
	ProvideFetchers,
	kpi.NewRepository,
	kpi.NewRecorder,
	wire.Bind(new(kpi.SnapshotRecorder), new(*kpi.Recorder)),
	kpi.NewService,
	wire.Bind(new(kpi.UserLookup), new(*user.Service)),
	kpi.NewHandler,
)

// ProvideCacheStore selects the payload cache backend. The redis backend
// falls back to memory when no Redis client is available.
func ProvideCacheStore(cfg *config.Config, redis goredis.UniversalClient, zapLog *zap.Logger) cache.Store {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if cfg.Cache.Backend == "redis" {
		if redis != nil {
			return cache.NewRedisStore(redis, cfg.Cache.Prefix, ttl)
		}
		zapLog.Warn("cache backend redis requested without a Redis connection, using memory")
	}
	return cache.NewTTLCache(ttl)
}

// ProvideFetchers builds the three source fetchers with their live clients,
// mock generator and demo enhancer.
func ProvideFetchers(cfg *config.Config, store cache.Store, httpClient *http.Client, m *metrics.Metrics, zapLog *zap.Logger) kpi.Fetchers {
	src := cfg.Sources
	gen := source.NewMockGenerator(src.MockSeed)
	enh := enhancer.New(src.MockSeed, zapLog)

	fetcherConfig := func(name string) source.FetcherConfig {
		return source.FetcherConfig{
			Source:           name,
			Timeout:          src.FetchTimeout,
			FailureThreshold: src.FailureThreshold,
			BreakerTimeout:   src.BreakerTimeout,
			Metrics:          m,
			Logger:           zapLog,
		}
	}

	adsClient := googleads.New(src.GoogleAds, httpClient, zapLog)
	metaClient := meta.New(src.Meta, httpClient, zapLog)
	gaClient := analytics.New(src.GoogleAnalytics, httpClient, zapLog)

	return kpi.Fetchers{
		Ads: source.NewFetcher(fetcherConfig(source.GoogleAds), store,
			adsClient.Fetch, gen.Ads,
			enhancer.Hook[*source.AdsPayload](enh, enhancer.LabelGoogleAds)),
		Social: source.NewFetcher(fetcherConfig(source.MetaAds), store,
			metaClient.Fetch, gen.Social,
			enhancer.Hook[*source.SocialPayload](enh, enhancer.LabelMetaAds)),
		Analytics: source.NewFetcher(fetcherConfig(source.GoogleAnalytics), store,
			gaClient.Fetch, gen.Analytics,
			enhancer.Hook[*source.AnalyticsPayload](enh, enhancer.LabelGoogleAnalytics)),
	}
}

// AppSet is the full provider set.
var AppSet = wire.NewSet(
	InfraSet,
	UserSet,
	KPISet,
)
