// Package enhancer backfills sparse live payloads with demo history and
// campaigns so the dashboard charts always have something to draw.
package enhancer

import (
	"time"

	"go.uber.org/zap"

	"github.com/oneview/server/internal/module/kpi/source"
	"github.com/oneview/server/internal/utils/mathutil"
	"github.com/oneview/server/internal/utils/random"
)

// Display labels passed to Enhance.
const (
	LabelGoogleAds       = "Google Ads"
	LabelMetaAds         = "Meta Ads"
	LabelGoogleAnalytics = "Google Analytics"
)

const (
	backfillDays    = 30
	suffixCharts    = "_with_demo_charts"
	suffixCampaigns = "_with_demo_campaigns"
	unknownTag      = "unknown"
)

// Enhancer fills empty history and, for Google Ads, empty campaign lists.
type Enhancer struct {
	rnd    *random.Source
	now    func() time.Time
	logger *zap.Logger
}

// New creates an Enhancer. A zero seed seeds from the clock.
func New(seed uint64, logger *zap.Logger) *Enhancer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enhancer{rnd: random.New(seed), now: time.Now, logger: logger}
}

// WithClock returns e with its clock replaced.
func (e *Enhancer) WithClock(now func() time.Time) *Enhancer {
	e.now = now
	return e
}

// Enhance mutates p in place and returns it. A nil payload is returned
// unchanged. Applying it twice is a no-op the second time.
func (e *Enhancer) Enhance(p source.Augmentable, label string) source.Augmentable {
	if isNil(p) {
		return p
	}

	if len(p.History()) == 0 {
		p.SetHistory(e.backfill(label))
		p.SetTag(tagOrUnknown(p.Tag()) + suffixCharts)
		e.logger.Info("added demo history", zap.String("source", label), zap.Int("days", backfillDays))
	}

	if ads, ok := p.(*source.AdsPayload); ok && label == LabelGoogleAds && len(ads.Campaigns) == 0 {
		ads.Campaigns = e.demoCampaigns()
		ads.DataSource = tagOrUnknown(ads.DataSource) + suffixCampaigns
		e.logger.Info("added demo campaigns", zap.String("source", label), zap.Int("campaigns", len(ads.Campaigns)))
	}

	return p
}

// Hook adapts e to a fetcher post-fetch hook for payload type P.
func Hook[P source.Payload](e *Enhancer, label string) func(P) P {
	return func(p P) P {
		e.Enhance(p, label)
		return p
	}
}

func (e *Enhancer) backfill(label string) []source.DailyRecord {
	var baseSpend float64
	var baseClicks int64
	if label == LabelGoogleAds {
		baseSpend, baseClicks = 50, 25
	}

	today := e.now()
	rows := make([]source.DailyRecord, 0, backfillDays)
	for i := backfillDays; i > 0; i-- {
		rows = append(rows, source.DailyRecord{
			Date:        today.AddDate(0, 0, -i).Format(time.DateOnly),
			Spend:       mathutil.Round2(baseSpend + e.rnd.Uniform(-20, 40)),
			Clicks:      baseClicks + e.rnd.IntRange(-10, 20),
			Impressions: e.rnd.IntRange(100, 500),
			Conversions: float64(e.rnd.IntRange(0, 5)),
		})
	}
	return rows
}

func (e *Enhancer) demoCampaigns() []source.AdsCampaign {
	r := e.rnd
	return []source.AdsCampaign{
		{
			Name:        "Brand Awareness Campaign",
			Status:      "ENABLED",
			Spend:       r.Uniform2(1500, 3000),
			Clicks:      r.IntRange(200, 500),
			Impressions: r.IntRange(8000, 15000),
			Conversions: float64(r.IntRange(15, 40)),
			CTR:         r.Uniform2(2.5, 6),
		},
		{
			Name:        "Product Launch Campaign",
			Status:      "ENABLED",
			Spend:       r.Uniform2(800, 2000),
			Clicks:      r.IntRange(150, 350),
			Impressions: r.IntRange(5000, 12000),
			Conversions: float64(r.IntRange(10, 25)),
			CTR:         r.Uniform2(1.8, 4.5),
		},
		{
			Name:        "Retargeting Campaign",
			Status:      "PAUSED",
			Spend:       r.Uniform2(400, 1200),
			Clicks:      r.IntRange(80, 200),
			Impressions: r.IntRange(2000, 6000),
			Conversions: float64(r.IntRange(5, 15)),
			CTR:         r.Uniform2(3, 7.5),
		},
	}
}

func tagOrUnknown(tag string) string {
	if tag == "" {
		return unknownTag
	}
	return tag
}

// isNil reports whether p is nil or a typed nil payload pointer.
func isNil(p source.Augmentable) bool {
	switch v := p.(type) {
	case nil:
		return true
	case *source.AdsPayload:
		return v == nil
	case *source.SocialPayload:
		return v == nil
	case *source.AnalyticsPayload:
		return v == nil
	}
	return false
}
