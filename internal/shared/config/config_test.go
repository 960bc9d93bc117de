package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenExpiry)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "kpi:", cfg.Cache.Prefix)
	assert.Equal(t, 10*time.Second, cfg.Sources.FetchTimeout)
	assert.Equal(t, uint32(5), cfg.Sources.FailureThreshold)
	assert.Equal(t, "https://graph.facebook.com/v23.0", cfg.Sources.Meta.BaseURL)
	assert.Contains(t, cfg.CORS.AllowOrigins, "http://localhost:5173")
	assert.Len(t, cfg.CORS.AllowOrigins, 6)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ONEVIEW_JWT_SECRET", "s3cret")
	t.Setenv("META_ACCESS_TOKEN", "meta-token")
	t.Setenv("AD_ACCOUNT_ID", "act_123")
	t.Setenv("GOOGLE_ADS_DEVELOPER_TOKEN", "dev-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "meta-token", cfg.Sources.Meta.AccessToken)
	assert.Equal(t, "act_123", cfg.Sources.Meta.AdAccountID)
	assert.Equal(t, "dev-token", cfg.Sources.GoogleAds.DeveloperToken)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "kpi",
		Database: "kpi_dashboard",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5432 user=kpi dbname=kpi_dashboard sslmode=disable", cfg.DSN())

	cfg.Password = "pw"
	assert.Contains(t, cfg.DSN(), " password=pw")
}
