// Package googleads fetches campaign performance from the Google Ads REST API.
package googleads

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/oneview/server/internal/module/kpi/source"
	"github.com/oneview/server/internal/shared/config"
	"github.com/oneview/server/internal/utils/mathutil"
)

const defaultLookbackDays = 90

const queryTemplate = `
SELECT
  campaign.id,
  campaign.name,
  campaign.status,
  metrics.impressions,
  metrics.clicks,
  metrics.cost_micros,
  metrics.conversions,
  segments.date
FROM campaign
WHERE segments.date BETWEEN '%s' AND '%s'
ORDER BY segments.date DESC`

// Client queries googleAds:searchStream for one customer.
type Client struct {
	cfg    config.GoogleAdsConfig
	oauth  *oauth2.Config
	base   *http.Client
	now    func() time.Time
	logger *zap.Logger
}

// New creates a Google Ads client. base carries the shared transport settings
// and is used for both token refreshes and API calls.
func New(cfg config.GoogleAdsConfig, base *http.Client, logger *zap.Logger) *Client {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = defaultLookbackDays
	}
	if base == nil {
		base = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	return &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{"https://www.googleapis.com/auth/adwords"},
		},
		base:   base,
		now:    time.Now,
		logger: logger.With(zap.String("source", source.GoogleAds)),
	}
}

// Configured reports whether the client has the credentials it needs.
func (c *Client) Configured() bool {
	return c.cfg.DeveloperToken != "" && c.cfg.CustomerID != "" && c.cfg.RefreshToken != ""
}

// Fetch returns campaign performance over the lookback window.
func (c *Client) Fetch(ctx context.Context) (*source.AdsPayload, error) {
	if !c.Configured() {
		return nil, source.ErrNotConfigured
	}

	end := c.now()
	start := end.AddDate(0, 0, -c.cfg.LookbackDays)
	query := fmt.Sprintf(queryTemplate, start.Format(time.DateOnly), end.Format(time.DateOnly))

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	url := fmt.Sprintf("%s/customers/%s/googleAds:searchStream", c.cfg.BaseURL, c.cfg.CustomerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", c.cfg.DeveloperToken)
	if c.cfg.LoginCustomerID != "" {
		req.Header.Set("login-customer-id", c.cfg.LoginCustomerID)
	}

	var batches []searchBatch
	if err := source.DoJSON(c.httpClient(ctx), req, source.GoogleAds, &batches); err != nil {
		return nil, err
	}

	p := aggregate(batches)
	p.LastUpdated = c.now().Format(time.RFC3339)

	c.logger.Info("fetched google ads data",
		zap.Int("campaigns", len(p.Campaigns)),
		zap.Int("days", len(p.HistoricalData)),
		zap.Float64("total_spend", p.TotalSpend))
	return p, nil
}

func (c *Client) httpClient(ctx context.Context) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	ts := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: c.cfg.RefreshToken})
	return oauth2.NewClient(ctx, ts)
}

type searchBatch struct {
	Results []searchRow `json:"results"`
}

type searchRow struct {
	Campaign struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"campaign"`
	Metrics struct {
		Impressions source.Number `json:"impressions"`
		Clicks      source.Number `json:"clicks"`
		CostMicros  source.Number `json:"costMicros"`
		Conversions source.Number `json:"conversions"`
	} `json:"metrics"`
	Segments struct {
		Date string `json:"date"`
	} `json:"segments"`
}

// aggregate folds per-day campaign rows into campaign totals, daily totals,
// and account totals. Campaigns keep the order of first appearance.
func aggregate(batches []searchBatch) *source.AdsPayload {
	var (
		campaigns []source.AdsCampaign
		index     = map[string]int{}
		days      = map[string]*source.DailyRecord{}
		p         = &source.AdsPayload{}
	)

	for _, batch := range batches {
		for _, row := range batch.Results {
			id := row.Campaign.ID
			cost := row.Metrics.CostMicros.Float() / 1e6
			impressions := row.Metrics.Impressions.Int()
			clicks := row.Metrics.Clicks.Int()
			conversions := row.Metrics.Conversions.Float()

			i, ok := index[id]
			if !ok {
				i = len(campaigns)
				index[id] = i
				campaigns = append(campaigns, source.AdsCampaign{
					ID:     id,
					Name:   row.Campaign.Name,
					Status: row.Campaign.Status,
				})
			}
			camp := &campaigns[i]
			camp.Spend += cost
			camp.Impressions += impressions
			camp.Clicks += clicks
			camp.Conversions += conversions

			day, ok := days[row.Segments.Date]
			if !ok {
				day = &source.DailyRecord{Date: row.Segments.Date}
				days[row.Segments.Date] = day
			}
			day.Spend += cost
			day.Clicks += clicks
			day.Impressions += impressions
			day.Conversions += conversions

			p.TotalSpend += cost
			p.TotalImpressions += impressions
			p.TotalClicks += clicks
			p.TotalConversions += conversions
		}
	}

	for i := range campaigns {
		camp := &campaigns[i]
		camp.Spend = mathutil.Round2(camp.Spend)
		camp.CTR = mathutil.Round2(ratio(float64(camp.Clicks), float64(camp.Impressions)) * 100)
		camp.ConversionRate = mathutil.Round2(ratio(camp.Conversions, float64(camp.Clicks)) * 100)
		camp.CPC = mathutil.Round2(ratio(camp.Spend, float64(camp.Clicks)))
	}

	history := make([]source.DailyRecord, 0, len(days))
	for _, day := range days {
		day.Spend = mathutil.Round2(day.Spend)
		history = append(history, *day)
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })

	p.CTR = mathutil.Round2(ratio(float64(p.TotalClicks), float64(p.TotalImpressions)) * 100)
	p.ConversionRate = mathutil.Round2(ratio(p.TotalConversions, float64(p.TotalClicks)) * 100)
	p.AverageCPC = mathutil.Round2(ratio(p.TotalSpend, float64(p.TotalClicks)))
	p.TotalSpend = mathutil.Round2(p.TotalSpend)
	p.TotalConversions = math.Trunc(p.TotalConversions)
	p.Campaigns = campaigns
	p.HistoricalData = history
	return p
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
