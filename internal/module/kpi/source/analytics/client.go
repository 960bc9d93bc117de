// Package analytics fetches site traffic from the Google Analytics 4 Data API.
package analytics

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"

	"github.com/oneview/server/internal/module/kpi/source"
	"github.com/oneview/server/internal/shared/config"
	"github.com/oneview/server/internal/utils/mathutil"
)

const (
	readonlyScope       = "https://www.googleapis.com/auth/analytics.readonly"
	defaultLookbackDays = 30
	topN                = 5
	gaDateLayout        = "20060102"
)

var dailyMetrics = []string{
	"sessions",
	"totalUsers",
	"screenPageViews",
	"bounceRate",
	"averageSessionDuration",
	"conversions",
	"totalRevenue",
}

// Client runs GA4 reports for one property with service-account credentials.
type Client struct {
	cfg    config.GoogleAnalyticsConfig
	jwt    *jwt.Config
	base   *http.Client
	now    func() time.Time
	logger *zap.Logger
}

// New creates an analytics client. A missing or unreadable credentials file
// leaves the client unconfigured.
func New(cfg config.GoogleAnalyticsConfig, base *http.Client, logger *zap.Logger) *Client {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = defaultLookbackDays
	}
	if base == nil {
		base = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		cfg:    cfg,
		base:   base,
		now:    time.Now,
		logger: logger.With(zap.String("source", source.GoogleAnalytics)),
	}

	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			c.logger.Debug("service account key unavailable", zap.String("path", cfg.CredentialsFile), zap.Error(err))
			return c
		}
		conf, err := google.JWTConfigFromJSON(data, readonlyScope)
		if err != nil {
			c.logger.Warn("invalid service account key", zap.String("path", cfg.CredentialsFile), zap.Error(err))
			return c
		}
		c.jwt = conf
	}
	return c
}

// Configured reports whether the client has a property and credentials.
func (c *Client) Configured() bool {
	return c.cfg.PropertyID != "" && c.jwt != nil
}

// Fetch returns traffic totals and daily history over the lookback window.
// The traffic source and top page sub-reports degrade to empty lists.
func (c *Client) Fetch(ctx context.Context) (*source.AnalyticsPayload, error) {
	if !c.Configured() {
		return nil, source.ErrNotConfigured
	}

	end := c.now()
	dates := []dateRange{{
		StartDate: end.AddDate(0, 0, -c.cfg.LookbackDays).Format(time.DateOnly),
		EndDate:   end.Format(time.DateOnly),
	}}
	client := c.httpClient(ctx)

	daily, err := c.runReport(ctx, client, reportRequest{
		DateRanges: dates,
		Dimensions: []named{{Name: "date"}},
		Metrics:    namedList(dailyMetrics...),
		OrderBys:   []orderBy{{Dimension: &dimensionOrder{DimensionName: "date", OrderType: "ALPHANUMERIC"}}},
	})
	if err != nil {
		return nil, err
	}

	p := summarize(daily)

	p.TrafficSources = []source.TrafficSource{}
	if rows, err := c.topRows(ctx, client, dates, "sessionSource", "sessions"); err != nil {
		c.logger.Warn("traffic sources report failed", zap.Error(err))
	} else {
		for _, row := range rows {
			p.TrafficSources = append(p.TrafficSources, source.TrafficSource{Source: row.dimension(0), Sessions: row.metric(0).Int()})
		}
	}

	p.TopPages = []source.TopPage{}
	if rows, err := c.topRows(ctx, client, dates, "pagePath", "screenPageViews"); err != nil {
		c.logger.Warn("top pages report failed", zap.Error(err))
	} else {
		for _, row := range rows {
			p.TopPages = append(p.TopPages, source.TopPage{Page: row.dimension(0), PageViews: row.metric(0).Int()})
		}
	}

	p.LastUpdated = c.now().Format(time.RFC3339)

	c.logger.Info("fetched google analytics data",
		zap.Int64("sessions", p.TotalSessions),
		zap.Int("days", len(p.HistoricalData)))
	return p, nil
}

func (c *Client) topRows(ctx context.Context, client *http.Client, dates []dateRange, dimension, metric string) ([]reportRow, error) {
	return c.runReport(ctx, client, reportRequest{
		DateRanges: dates,
		Dimensions: []named{{Name: dimension}},
		Metrics:    namedList(metric),
		Limit:      topN,
	})
}

func (c *Client) runReport(ctx context.Context, client *http.Client, body reportRequest) ([]reportRow, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode report request: %w", err)
	}

	url := fmt.Sprintf("%s/properties/%s:runReport", c.cfg.BaseURL, c.cfg.PropertyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp reportResponse
	if err := source.DoJSON(client, req, source.GoogleAnalytics, &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

func (c *Client) httpClient(ctx context.Context) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	return c.jwt.Client(ctx)
}

// summarize computes totals and derived rates from the daily report.
// Bounce rate is averaged over days with sessions; session duration is
// weighted by sessions.
func summarize(rows []reportRow) *source.AnalyticsPayload {
	p := &source.AnalyticsPayload{HistoricalData: make([]source.DailyRecord, 0, len(rows))}

	var (
		bounceSum      float64
		durationSum    float64
		conversionsSum float64
		activeDays     int
	)
	for _, row := range rows {
		sessions := row.metric(0).Int()
		users := row.metric(1).Int()
		pageViews := row.metric(2).Int()
		bounce := row.metric(3).Float()
		duration := row.metric(4).Float()
		conversions := row.metric(5).Float()
		revenue := row.metric(6).Float()

		p.TotalSessions += sessions
		p.TotalUsers += users
		p.PageViews += pageViews
		p.Revenue += revenue
		conversionsSum += conversions
		durationSum += duration * float64(sessions)
		if sessions > 0 {
			bounceSum += bounce
			activeDays++
		}

		p.HistoricalData = append(p.HistoricalData, source.DailyRecord{
			Date:        formatDate(row.dimension(0)),
			Conversions: conversions,
			Sessions:    &sessions,
			Users:       &users,
			PageViews:   &pageViews,
			BounceRate:  &bounce,
			Revenue:     &revenue,
		})
	}

	if activeDays > 0 {
		p.BounceRate = mathutil.Round2(bounceSum / float64(activeDays))
	}
	if p.TotalSessions > 0 {
		p.AvgSessionDuration = math.Round(durationSum / float64(p.TotalSessions))
		p.ConversionRate = mathutil.Round2(conversionsSum / float64(p.TotalSessions) * 100)
	}
	p.Revenue = mathutil.Round2(p.Revenue)
	return p
}

// formatDate turns the GA4 YYYYMMDD date dimension into YYYY-MM-DD.
func formatDate(v string) string {
	t, err := time.Parse(gaDateLayout, v)
	if err != nil {
		return v
	}
	return t.Format(time.DateOnly)
}

type named struct {
	Name string `json:"name"`
}

func namedList(names ...string) []named {
	out := make([]named, len(names))
	for i, n := range names {
		out[i] = named{Name: n}
	}
	return out
}

type dateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type dimensionOrder struct {
	DimensionName string `json:"dimensionName"`
	OrderType     string `json:"orderType,omitempty"`
}

type orderBy struct {
	Dimension *dimensionOrder `json:"dimension,omitempty"`
}

type reportRequest struct {
	DateRanges []dateRange `json:"dateRanges"`
	Dimensions []named     `json:"dimensions"`
	Metrics    []named     `json:"metrics"`
	OrderBys   []orderBy   `json:"orderBys,omitempty"`
	Limit      int         `json:"limit,omitempty"`
}

type value struct {
	Value string `json:"value"`
}

type reportRow struct {
	DimensionValues []value `json:"dimensionValues"`
	MetricValues    []value `json:"metricValues"`
}

func (r reportRow) dimension(i int) string {
	if i >= len(r.DimensionValues) {
		return ""
	}
	return r.DimensionValues[i].Value
}

func (r reportRow) metric(i int) source.Number {
	if i >= len(r.MetricValues) {
		return 0
	}
	var n source.Number
	if err := n.UnmarshalJSON([]byte(r.MetricValues[i].Value)); err != nil {
		return 0
	}
	return n
}

type reportResponse struct {
	Rows []reportRow `json:"rows"`
}
