// Package source defines the per-source KPI payloads and the fetcher that
// serves them from cache, from the live API, or from generated mock data.
package source

// Source names. They prefix cache keys and live data_source tags.
const (
	GoogleAds       = "google_ads"
	MetaAds         = "meta_ads"
	GoogleAnalytics = "google_analytics"
)

// TagMock marks a payload produced by a mock generator.
const TagMock = "mock_data"

// LiveTag returns the data_source tag of a payload fetched from the API.
func LiveTag(source string) string {
	return source + "_api"
}

// DailyRecord is one day of history. Ad sources fill the spend columns;
// analytics fills the optional traffic columns.
type DailyRecord struct {
	Date        string  `json:"date"`
	Spend       float64 `json:"spend"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	Conversions float64 `json:"conversions"`

	Sessions   *int64   `json:"sessions,omitempty"`
	Users      *int64   `json:"users,omitempty"`
	PageViews  *int64   `json:"page_views,omitempty"`
	BounceRate *float64 `json:"bounce_rate,omitempty"`
	Revenue    *float64 `json:"revenue,omitempty"`
}

// AdsCampaign is one Google Ads campaign row.
type AdsCampaign struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	Status         string  `json:"status,omitempty"`
	Spend          float64 `json:"spend"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Conversions    float64 `json:"conversions"`
	CPC            float64 `json:"cpc,omitempty"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate,omitempty"`
}

// AdsPayload is the Google Ads section of the dashboard.
type AdsPayload struct {
	TotalSpend       float64       `json:"total_spend"`
	TotalImpressions int64         `json:"total_impressions"`
	TotalClicks      int64         `json:"total_clicks"`
	TotalConversions float64       `json:"total_conversions"`
	AverageCPC       float64       `json:"average_cpc"`
	CTR              float64       `json:"ctr"`
	ConversionRate   float64       `json:"conversion_rate"`
	Campaigns        []AdsCampaign `json:"campaigns"`
	HistoricalData   []DailyRecord `json:"historical_data"`
	LastUpdated      string        `json:"last_updated"`
	DataSource       string        `json:"data_source"`
}

// AccountInfo describes the Meta ad account.
type AccountInfo struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status,omitempty"`
	Currency      string `json:"currency"`
	TimezoneName  string `json:"timezone_name"`
}

// SocialCampaign is one Meta campaign.
type SocialCampaign struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Objective   string `json:"objective"`
	Status      string `json:"status"`
	CreatedTime string `json:"created_time,omitempty"`
	UpdatedTime string `json:"updated_time,omitempty"`
}

// CampaignInsight is the last-30-days performance of one Meta campaign.
type CampaignInsight struct {
	CampaignID        string  `json:"campaign_id"`
	CampaignName      string  `json:"campaign_name"`
	Impressions       int64   `json:"impressions"`
	Clicks            int64   `json:"clicks"`
	Spend             float64 `json:"spend"`
	CTR               float64 `json:"ctr"`
	CPC               float64 `json:"cpc"`
	Reach             int64   `json:"reach"`
	Conversions       float64 `json:"conversions"`
	CostPerConversion float64 `json:"cost_per_conversion"`
}

// SummaryMetrics are the Meta account totals.
type SummaryMetrics struct {
	TotalImpressions  int64   `json:"total_impressions"`
	TotalClicks       int64   `json:"total_clicks"`
	TotalSpend        float64 `json:"total_spend"`
	TotalConversions  int64   `json:"total_conversions"`
	CTR               float64 `json:"ctr"`
	CPC               float64 `json:"cpc"`
	CostPerConversion float64 `json:"cost_per_conversion"`
	Reach             int64   `json:"reach"`
}

// SocialPayload is the Meta Ads section of the dashboard.
type SocialPayload struct {
	AccountInfo      *AccountInfo      `json:"account_info"`
	Campaigns        []SocialCampaign  `json:"campaigns"`
	CampaignInsights []CampaignInsight `json:"campaign_insights,omitempty"`
	SummaryMetrics   SummaryMetrics    `json:"summary_metrics"`
	HistoricalData   []DailyRecord     `json:"historical_data"`
	LastUpdated      string            `json:"last_updated"`
	DataSource       string            `json:"data_source"`
}

// TrafficSource is sessions per acquisition source.
type TrafficSource struct {
	Source   string `json:"source"`
	Sessions int64  `json:"sessions"`
}

// TopPage is page views per path.
type TopPage struct {
	Page      string `json:"page"`
	PageViews int64  `json:"page_views"`
}

// AnalyticsPayload is the Google Analytics section of the dashboard.
type AnalyticsPayload struct {
	TotalSessions      int64           `json:"total_sessions"`
	TotalUsers         int64           `json:"total_users"`
	PageViews          int64           `json:"page_views"`
	BounceRate         float64         `json:"bounce_rate"`
	AvgSessionDuration float64         `json:"avg_session_duration"`
	ConversionRate     float64         `json:"conversion_rate"`
	Revenue            float64         `json:"revenue"`
	TrafficSources     []TrafficSource `json:"traffic_sources"`
	TopPages           []TopPage       `json:"top_pages"`
	HistoricalData     []DailyRecord   `json:"historical_data"`
	LastUpdated        string          `json:"last_updated"`
	DataSource         string          `json:"data_source"`
}

// Payload is implemented by the pointer forms of the three payload types.
// Fetchers and the enhancer work against it.
type Payload interface {
	comparable
	Augmentable
}

// Augmentable exposes the history and tag of a payload.
type Augmentable interface {
	History() []DailyRecord
	SetHistory([]DailyRecord)
	Tag() string
	SetTag(string)
}

func (p *AdsPayload) History() []DailyRecord     { return p.HistoricalData }
func (p *AdsPayload) SetHistory(h []DailyRecord) { p.HistoricalData = h }
func (p *AdsPayload) Tag() string                { return p.DataSource }
func (p *AdsPayload) SetTag(tag string)          { p.DataSource = tag }

func (p *SocialPayload) History() []DailyRecord     { return p.HistoricalData }
func (p *SocialPayload) SetHistory(h []DailyRecord) { p.HistoricalData = h }
func (p *SocialPayload) Tag() string                { return p.DataSource }
func (p *SocialPayload) SetTag(tag string)          { p.DataSource = tag }

func (p *AnalyticsPayload) History() []DailyRecord     { return p.HistoricalData }
func (p *AnalyticsPayload) SetHistory(h []DailyRecord) { p.HistoricalData = h }
func (p *AnalyticsPayload) Tag() string                { return p.DataSource }
func (p *AnalyticsPayload) SetTag(tag string)          { p.DataSource = tag }
