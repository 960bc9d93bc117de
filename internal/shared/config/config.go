package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
	Auth       AuthConfig       `mapstructure:"auth"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Sources    SourcesConfig    `mapstructure:"sources"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	LogSQL          bool          `mapstructure:"log_sql"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Database, c.SSLMode,
	)
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HTTPClientConfig holds outbound HTTP client configuration.
type HTTPClientConfig struct {
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`
	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout time.Duration `mapstructure:"tls_handshake_timeout"`
	ResponseTimeout     time.Duration `mapstructure:"response_timeout"`
	KeepAlive           time.Duration `mapstructure:"keep_alive"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_token_expiry"`
	Issuer            string        `mapstructure:"issuer"`
	SeedUsers         bool          `mapstructure:"seed_users"`
}

// CORSConfig holds allowed browser origins.
type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// CacheConfig selects the per-source payload cache backend.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // memory, redis
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
}

// SourcesConfig holds configuration for the three marketing data sources.
type SourcesConfig struct {
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	BreakerTimeout   time.Duration `mapstructure:"breaker_timeout"`
	MockSeed         uint64        `mapstructure:"mock_seed"` // 0 seeds from the clock

	GoogleAds       GoogleAdsConfig       `mapstructure:"google_ads"`
	GoogleAnalytics GoogleAnalyticsConfig `mapstructure:"google_analytics"`
	Meta            MetaConfig            `mapstructure:"meta"`
}

// GoogleAdsConfig holds Google Ads API credentials.
type GoogleAdsConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	TokenURL        string `mapstructure:"token_url"`
	DeveloperToken  string `mapstructure:"developer_token"`
	ClientID        string `mapstructure:"client_id"`
	ClientSecret    string `mapstructure:"client_secret"`
	RefreshToken    string `mapstructure:"refresh_token"`
	CustomerID      string `mapstructure:"customer_id"`
	LoginCustomerID string `mapstructure:"login_customer_id"`
	LookbackDays    int    `mapstructure:"lookback_days"`
}

// GoogleAnalyticsConfig holds GA4 Data API settings.
type GoogleAnalyticsConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	PropertyID      string `mapstructure:"property_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	LookbackDays    int    `mapstructure:"lookback_days"`
}

// MetaConfig holds Meta Marketing API settings.
type MetaConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AccessToken string `mapstructure:"access_token"`
	AdAccountID string `mapstructure:"ad_account_id"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/oneview")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	v.SetEnvPrefix("ONEVIEW")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides copies secrets from the environment. The Meta and Google
// variable names match what the dashboard's operators already export.
func applyEnvOverrides(cfg *Config) {
	if secret := os.Getenv("ONEVIEW_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if password := os.Getenv("ONEVIEW_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("ONEVIEW_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if token := os.Getenv("META_ACCESS_TOKEN"); token != "" {
		cfg.Sources.Meta.AccessToken = token
	}
	if account := os.Getenv("AD_ACCOUNT_ID"); account != "" {
		cfg.Sources.Meta.AdAccountID = account
	}
	if token := os.Getenv("GOOGLE_ADS_DEVELOPER_TOKEN"); token != "" {
		cfg.Sources.GoogleAds.DeveloperToken = token
	}
	if token := os.Getenv("GOOGLE_ADS_REFRESH_TOKEN"); token != "" {
		cfg.Sources.GoogleAds.RefreshToken = token
	}
	if secret := os.Getenv("GOOGLE_ADS_CLIENT_SECRET"); secret != "" {
		cfg.Sources.GoogleAds.ClientSecret = secret
	}
	if path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
		cfg.Sources.GoogleAnalytics.CredentialsFile = path
	}
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "kpi_dashboard")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.log_sql", false)

	// Redis defaults
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)

	// HTTP client defaults
	v.SetDefault("http_client.max_idle_conns", 50)
	v.SetDefault("http_client.max_idle_conns_per_host", 10)
	v.SetDefault("http_client.idle_conn_timeout", 90*time.Second)
	v.SetDefault("http_client.dial_timeout", 5*time.Second)
	v.SetDefault("http_client.tls_handshake_timeout", 5*time.Second)
	v.SetDefault("http_client.response_timeout", 30*time.Second)
	v.SetDefault("http_client.keep_alive", 30*time.Second)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "your-secret-key-change-in-production")
	v.SetDefault("auth.access_token_expiry", 24*time.Hour)
	v.SetDefault("auth.issuer", "oneview")
	v.SetDefault("auth.seed_users", true)

	// CORS defaults: local dashboard dev servers
	v.SetDefault("cors.allow_origins", []string{
		"http://localhost:5173",
		"http://localhost:5174",
		"http://localhost:3000",
		"http://127.0.0.1:5173",
		"http://127.0.0.1:5174",
		"http://127.0.0.1:3000",
	})
	v.SetDefault("cors.allow_credentials", true)

	// Cache defaults
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.prefix", "kpi:")

	// Source defaults
	v.SetDefault("sources.fetch_timeout", 10*time.Second)
	v.SetDefault("sources.failure_threshold", 5)
	v.SetDefault("sources.breaker_timeout", 60*time.Second)
	v.SetDefault("sources.mock_seed", 0)
	v.SetDefault("sources.google_ads.base_url", "https://googleads.googleapis.com/v17")
	v.SetDefault("sources.google_ads.token_url", "https://oauth2.googleapis.com/token")
	v.SetDefault("sources.google_ads.lookback_days", 90)
	v.SetDefault("sources.google_analytics.base_url", "https://analyticsdata.googleapis.com/v1beta")
	v.SetDefault("sources.google_analytics.credentials_file", "service-account-key.json")
	v.SetDefault("sources.google_analytics.lookback_days", 30)
	v.SetDefault("sources.meta.base_url", "https://graph.facebook.com/v23.0")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
