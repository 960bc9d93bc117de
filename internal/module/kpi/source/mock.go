package source

import (
	"fmt"
	"math"
	"time"

	"github.com/oneview/server/internal/utils/random"
)

// historyDays is the length of generated daily history.
const historyDays = 30

var adsCampaignNames = []string{
	"Summer Sale Campaign",
	"Holiday Promotion",
	"Brand Awareness Drive",
	"Product Launch Campaign",
	"Retargeting Campaign",
}

// MockGenerator produces plausible random payloads when live data is
// unavailable. Totals and per-campaign rows are drawn independently and do
// not sum up.
type MockGenerator struct {
	rnd *random.Source
	now func() time.Time
}

// NewMockGenerator creates a generator. A zero seed seeds from the clock.
func NewMockGenerator(seed uint64) *MockGenerator {
	return &MockGenerator{rnd: random.New(seed), now: time.Now}
}

// WithClock returns g with its clock replaced.
func (g *MockGenerator) WithClock(now func() time.Time) *MockGenerator {
	g.now = now
	return g
}

// Ads generates a Google Ads payload.
func (g *MockGenerator) Ads() *AdsPayload {
	r := g.rnd
	p := &AdsPayload{
		TotalSpend:       r.Uniform2(10000, 50000),
		TotalImpressions: r.IntRange(100000, 500000),
		TotalClicks:      r.IntRange(5000, 25000),
		TotalConversions: float64(r.IntRange(200, 1000)),
		AverageCPC:       r.Uniform2(1.5, 3.5),
		CTR:              r.Uniform2(2, 8),
		ConversionRate:   r.Uniform2(3, 12),
		Campaigns:        make([]AdsCampaign, 0, len(adsCampaignNames)),
	}

	for i, name := range adsCampaignNames {
		p.Campaigns = append(p.Campaigns, AdsCampaign{
			ID:             fmt.Sprintf("camp_%d", i+1),
			Name:           name,
			Spend:          r.Uniform2(2000, 10000),
			Impressions:    r.IntRange(20000, 100000),
			Clicks:         r.IntRange(1000, 5000),
			Conversions:    float64(r.IntRange(40, 200)),
			CPC:            r.Uniform2(1, 4),
			CTR:            r.Uniform2(1.5, 9),
			ConversionRate: r.Uniform2(2.5, 15),
		})
	}

	now := g.now()
	p.HistoricalData = make([]DailyRecord, 0, historyDays)
	for i := 0; i < historyDays; i++ {
		p.HistoricalData = append(p.HistoricalData, DailyRecord{
			Date:        now.AddDate(0, 0, -i).Format(time.DateOnly),
			Spend:       r.Uniform2(300, 1500),
			Clicks:      r.IntRange(150, 800),
			Impressions: r.IntRange(5000, 20000),
			Conversions: float64(r.IntRange(10, 50)),
		})
	}

	p.LastUpdated = now.Format(time.RFC3339)
	p.DataSource = TagMock
	return p
}

// Social generates a Meta Ads payload.
func (g *MockGenerator) Social() *SocialPayload {
	r := g.rnd
	now := g.now()
	p := &SocialPayload{
		AccountInfo: &AccountInfo{
			Name:         "Meta Ads Account",
			Currency:     "USD",
			TimezoneName: "UTC",
		},
		Campaigns: []SocialCampaign{
			{ID: "120234091337580024", Name: "Meta Brand Campaign", Objective: "OUTCOME_TRAFFIC", Status: "ACTIVE"},
			{ID: "120234091337580025", Name: "Meta Retargeting Campaign", Objective: "OUTCOME_ENGAGEMENT", Status: "ACTIVE"},
		},
		SummaryMetrics: SummaryMetrics{
			TotalImpressions:  r.IntRange(50000, 150000),
			TotalClicks:       r.IntRange(2000, 8000),
			TotalSpend:        r.Uniform2(1000, 5000),
			TotalConversions:  r.IntRange(50, 200),
			CTR:               r.Uniform2(2, 6),
			CPC:               r.Uniform2(0.5, 3),
			CostPerConversion: r.Uniform2(10, 50),
			Reach:             r.IntRange(30000, 100000),
		},
		HistoricalData: make([]DailyRecord, 0, historyDays),
		LastUpdated:    now.Format(time.RFC3339),
		DataSource:     TagMock,
	}

	for i := 0; i < historyDays; i++ {
		p.HistoricalData = append(p.HistoricalData, DailyRecord{
			Date:        now.AddDate(0, 0, -i).Format(time.DateOnly),
			Spend:       r.Uniform2(50, 200),
			Clicks:      r.IntRange(50, 300),
			Impressions: r.IntRange(2000, 8000),
			Conversions: float64(r.IntRange(2, 15)),
		})
	}
	return p
}

// Analytics generates a Google Analytics payload.
func (g *MockGenerator) Analytics() *AnalyticsPayload {
	r := g.rnd
	now := g.now()
	p := &AnalyticsPayload{
		TotalSessions:      r.IntRange(15000, 75000),
		TotalUsers:         r.IntRange(12000, 60000),
		PageViews:          r.IntRange(50000, 200000),
		BounceRate:         r.Uniform2(25, 65),
		AvgSessionDuration: math.Round(r.Uniform(120, 300)),
		ConversionRate:     r.Uniform2(2, 8),
		Revenue:            r.Uniform2(25000, 100000),
		TrafficSources: []TrafficSource{
			{Source: "organic", Sessions: r.IntRange(5000, 25000)},
			{Source: "direct", Sessions: r.IntRange(3000, 15000)},
			{Source: "social", Sessions: r.IntRange(2000, 10000)},
			{Source: "paid", Sessions: r.IntRange(4000, 20000)},
			{Source: "referral", Sessions: r.IntRange(1000, 5000)},
		},
		TopPages: []TopPage{
			{Page: "/", PageViews: r.IntRange(8000, 25000)},
			{Page: "/products", PageViews: r.IntRange(5000, 15000)},
			{Page: "/about", PageViews: r.IntRange(2000, 8000)},
			{Page: "/contact", PageViews: r.IntRange(1500, 6000)},
			{Page: "/blog", PageViews: r.IntRange(3000, 12000)},
		},
		HistoricalData: make([]DailyRecord, 0, historyDays),
		LastUpdated:    now.Format(time.RFC3339),
		DataSource:     TagMock,
	}

	for i := 0; i < historyDays; i++ {
		sessions := r.IntRange(400, 2000)
		users := r.IntRange(300, 1500)
		pageViews := r.IntRange(1200, 6000)
		bounce := r.Uniform2(20, 70)
		p.HistoricalData = append(p.HistoricalData, DailyRecord{
			Date:       now.AddDate(0, 0, -i).Format(time.DateOnly),
			Sessions:   &sessions,
			Users:      &users,
			PageViews:  &pageViews,
			BounceRate: &bounce,
		})
	}
	return p
}
