// Package kpi combines the per-source payloads into the role-specific
// dashboard view and persists snapshots of live data.
package kpi

import (
	"time"

	"github.com/oneview/server/internal/module/kpi/cache"
	"github.com/oneview/server/internal/module/kpi/source"
)

// Metric types stored with each KPI snapshot row.
const (
	MetricCurrency   = "currency"
	MetricCount      = "count"
	MetricPercentage = "percentage"
)

// KeyMetrics is the role-specific headline block.
type KeyMetrics map[string]float64

// CombinedPayload is the dashboard view for one role.
type CombinedPayload struct {
	UserRole        string                   `json:"user_role"`
	LastUpdated     string                   `json:"last_updated"`
	GoogleAds       *source.AdsPayload       `json:"google_ads"`
	MetaAds         *source.SocialPayload    `json:"meta_ads"`
	GoogleAnalytics *source.AnalyticsPayload `json:"google_analytics"`
	KeyMetrics      KeyMetrics               `json:"key_metrics"`
}

// KpiData is one persisted metric reading.
type KpiData struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Source       string    `json:"source" gorm:"size:100;not null;index"`
	MetricName   string    `json:"metric_name" gorm:"size:255;not null"`
	MetricValue  float64   `json:"metric_value" gorm:"type:numeric(15,2);not null"`
	MetricType   string    `json:"metric_type" gorm:"size:50;not null"`
	DateRecorded time.Time `json:"date_recorded" gorm:"type:date;not null;index"`
	Timestamp    time.Time `json:"timestamp" gorm:"autoCreateTime"`
	CampaignID   *string   `json:"campaign_id,omitempty" gorm:"size:255"`
	CampaignName *string   `json:"campaign_name,omitempty" gorm:"size:255"`
}

// TableName returns the table name for KpiData.
func (KpiData) TableName() string {
	return "kpi_data"
}

// CampaignPerformance is one campaign's totals on a given day.
type CampaignPerformance struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CampaignID     string    `json:"campaign_id" gorm:"size:255;not null;index"`
	CampaignName   string    `json:"campaign_name" gorm:"size:255;not null"`
	Date           time.Time `json:"date" gorm:"type:date;not null"`
	Impressions    int64     `json:"impressions" gorm:"default:0"`
	Clicks         int64     `json:"clicks" gorm:"default:0"`
	Conversions    int64     `json:"conversions" gorm:"default:0"`
	Cost           float64   `json:"cost" gorm:"type:numeric(10,2);default:0"`
	Revenue        float64   `json:"revenue" gorm:"type:numeric(10,2);default:0"`
	CTR            float64   `json:"ctr" gorm:"type:numeric(7,2);default:0"`
	ConversionRate float64   `json:"conversion_rate" gorm:"type:numeric(7,2);default:0"`
	ROAS           float64   `json:"roas" gorm:"type:numeric(10,2);default:0"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the table name for CampaignPerformance.
func (CampaignPerformance) TableName() string {
	return "campaign_performance"
}

// SourceStatus tells whether a source is currently served from its API.
type SourceStatus struct {
	Enabled       bool   `json:"enabled"`
	CurrentSource string `json:"current_source"`
	Message       string `json:"message"`
}

// DataSourceStatus is the response of GET /data-source-status.
type DataSourceStatus struct {
	GoogleAdsAPIEnabled bool                    `json:"google_ads_api_enabled"`
	CurrentSource       string                  `json:"current_source"`
	Message             string                  `json:"message"`
	Timestamp           string                  `json:"timestamp"`
	Sources             map[string]SourceStatus `json:"sources"`
}

// KPIResponse is the body of GET /kpi-data.
type KPIResponse struct {
	Success    bool             `json:"success"`
	UserRole   string           `json:"user_role"`
	UserName   string           `json:"user_name"`
	Data       *CombinedPayload `json:"data"`
	CacheStats cache.Stats      `json:"cache_stats"`
}

// CacheStatsResponse is the body of GET /cache/stats.
type CacheStatsResponse struct {
	Success    bool        `json:"success"`
	CacheStats cache.Stats `json:"cache_stats"`
}

// MessageResponse is a plain success message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
