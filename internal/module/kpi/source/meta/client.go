// Package meta fetches ad account data from the Meta Marketing (Graph) API.
package meta

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/oneview/server/internal/module/kpi/source"
	"github.com/oneview/server/internal/shared/config"
	"github.com/oneview/server/internal/utils/mathutil"
)

const (
	accountFields         = "id,name,account_status,currency,timezone_name"
	campaignFields        = "id,name,objective,status,created_time,updated_time"
	campaignInsightFields = "campaign_id,campaign_name,impressions,clicks,spend,ctr,cpc,reach,conversions,cost_per_conversion"
	accountInsightFields  = "impressions,clicks,spend,ctr,cpc,reach,conversions,cost_per_conversion"
	datePreset            = "last_30d"
	campaignLimit         = 50
	dailyLookbackDays     = 30
)

// Client reads one ad account.
type Client struct {
	cfg    config.MetaConfig
	http   *http.Client
	now    func() time.Time
	logger *zap.Logger
}

// New creates a Meta client.
func New(cfg config.MetaConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		now:    time.Now,
		logger: logger.With(zap.String("source", source.MetaAds)),
	}
}

// Configured reports whether an access token and ad account are set.
func (c *Client) Configured() bool {
	return c.cfg.AccessToken != "" && c.cfg.AdAccountID != ""
}

// Fetch returns account info, campaigns, insights and 30 days of history.
// Only the account lookup is fatal; the other calls degrade to empty lists.
func (c *Client) Fetch(ctx context.Context) (*source.SocialPayload, error) {
	if !c.Configured() {
		return nil, source.ErrNotConfigured
	}

	var account accountInfo
	if err := c.get(ctx, c.cfg.AdAccountID, url.Values{"fields": {accountFields}}, &account); err != nil {
		return nil, fmt.Errorf("account info: %w", err)
	}

	p := &source.SocialPayload{
		AccountInfo: &source.AccountInfo{
			ID:            account.ID,
			Name:          account.Name,
			AccountStatus: account.AccountStatus,
			Currency:      account.Currency,
			TimezoneName:  account.TimezoneName,
		},
		Campaigns:        []source.SocialCampaign{},
		CampaignInsights: []source.CampaignInsight{},
	}

	var campaigns page[source.SocialCampaign]
	if err := c.get(ctx, c.cfg.AdAccountID+"/campaigns", url.Values{
		"fields": {campaignFields},
		"limit":  {fmt.Sprint(campaignLimit)},
	}, &campaigns); err != nil {
		c.logger.Warn("list campaigns failed", zap.Error(err))
	} else {
		p.Campaigns = campaigns.Data
	}

	for _, camp := range p.Campaigns {
		var insights page[insightRow]
		if err := c.get(ctx, camp.ID+"/insights", url.Values{
			"fields":      {campaignInsightFields},
			"date_preset": {datePreset},
		}, &insights); err != nil {
			c.logger.Warn("campaign insights failed", zap.String("campaign_id", camp.ID), zap.Error(err))
			continue
		}
		for _, row := range insights.Data {
			p.CampaignInsights = append(p.CampaignInsights, row.campaignInsight())
		}
	}

	var account30d page[insightRow]
	if err := c.get(ctx, c.cfg.AdAccountID+"/insights", url.Values{
		"fields":      {accountInsightFields},
		"date_preset": {datePreset},
		"level":       {"account"},
	}, &account30d); err != nil {
		c.logger.Warn("account insights failed", zap.Error(err))
	}

	daily, err := c.dailyInsights(ctx)
	if err != nil {
		c.logger.Warn("daily insights failed", zap.Error(err))
	}

	p.SummaryMetrics = summarize(account30d.Data, daily)
	p.HistoricalData = make([]source.DailyRecord, 0, len(daily))
	for _, row := range daily {
		p.HistoricalData = append(p.HistoricalData, row.dailyRecord())
	}
	p.LastUpdated = c.now().Format(time.RFC3339)

	c.logger.Info("fetched meta ads data",
		zap.Int("campaigns", len(p.Campaigns)),
		zap.Int("campaign_insights", len(p.CampaignInsights)),
		zap.Int("days", len(p.HistoricalData)))
	return p, nil
}

func (c *Client) dailyInsights(ctx context.Context) ([]insightRow, error) {
	end := c.now()
	timeRange, err := json.Marshal(map[string]string{
		"since": end.AddDate(0, 0, -dailyLookbackDays).Format(time.DateOnly),
		"until": end.Format(time.DateOnly),
	})
	if err != nil {
		return nil, err
	}

	var out page[insightRow]
	if err := c.get(ctx, c.cfg.AdAccountID+"/insights", url.Values{
		"fields":         {accountInsightFields},
		"time_range":     {string(timeRange)},
		"time_increment": {"1"},
		"level":          {"account"},
	}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := fmt.Sprintf("%s/%s?%s", c.cfg.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	// Header, not query: transport errors quote the full URL and get logged.
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	return source.DoJSON(c.http, req, source.MetaAds, out)
}

// summarize prefers the account-level insight, then the sum of daily rows,
// then zeros.
func summarize(account, daily []insightRow) source.SummaryMetrics {
	if len(account) > 0 {
		a := account[0]
		return source.SummaryMetrics{
			TotalImpressions:  a.Impressions.Int(),
			TotalClicks:       a.Clicks.Int(),
			TotalSpend:        a.Spend.Float(),
			TotalConversions:  int64(a.Conversions),
			CTR:               a.CTR.Float(),
			CPC:               a.CPC.Float(),
			CostPerConversion: float64(a.CostPerConversion),
			Reach:             a.Reach.Int(),
		}
	}
	if len(daily) == 0 {
		return source.SummaryMetrics{}
	}

	var impressions, clicks, spend, conversions, reach float64
	for _, d := range daily {
		impressions += d.Impressions.Float()
		clicks += d.Clicks.Float()
		spend += d.Spend.Float()
		conversions += float64(d.Conversions)
		reach = max(reach, d.Reach.Float())
	}

	m := source.SummaryMetrics{
		TotalImpressions: int64(impressions),
		TotalClicks:      int64(clicks),
		TotalSpend:       mathutil.Round2(spend),
		TotalConversions: int64(conversions),
		Reach:            int64(reach),
	}
	if impressions > 0 {
		m.CTR = mathutil.Round2(clicks / impressions * 100)
	}
	if clicks > 0 {
		m.CPC = mathutil.Round2(spend / clicks)
	}
	if conversions > 0 {
		m.CostPerConversion = mathutil.Round2(spend / conversions)
	}
	return m
}
