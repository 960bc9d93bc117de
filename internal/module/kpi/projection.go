package kpi

import (
	"github.com/oneview/server/internal/module/kpi/source"
	"github.com/oneview/server/internal/utils/mathutil"
)

// Totals are the ad metrics summed over Google Ads and Meta Ads.
type Totals struct {
	AdSpend     float64
	Impressions float64
	Clicks      float64
	Conversions float64
	CTR         float64
}

// CombineTotals sums the two ad sources. Nil payloads count as zero.
func CombineTotals(ads *source.AdsPayload, social *source.SocialPayload) Totals {
	var t Totals
	if ads != nil {
		t.AdSpend += ads.TotalSpend
		t.Impressions += float64(ads.TotalImpressions)
		t.Clicks += float64(ads.TotalClicks)
		t.Conversions += ads.TotalConversions
	}
	if social != nil {
		m := social.SummaryMetrics
		t.AdSpend += m.TotalSpend
		t.Impressions += float64(m.TotalImpressions)
		t.Clicks += float64(m.TotalClicks)
		t.Conversions += float64(m.TotalConversions)
	}
	t.AdSpend = mathutil.Round2(t.AdSpend)
	t.CTR = mathutil.Round2(ratio(t.Clicks, t.Impressions) * 100)
	return t
}

// Project builds the key metrics shown to role. Unknown roles, including
// admin, get the full overview.
func Project(role string, t Totals, analytics *source.AnalyticsPayload) KeyMetrics {
	var a source.AnalyticsPayload
	if analytics != nil {
		a = *analytics
	}
	roas := mathutil.Round2(ratio(a.Revenue, t.AdSpend))

	switch role {
	case "finance":
		return KeyMetrics{
			"total_ad_spend":      t.AdSpend,
			"total_revenue":       a.Revenue,
			"roas":                roas,
			"cost_per_conversion": mathutil.Round2(ratio(t.AdSpend, t.Conversions)),
			"conversion_value":    mathutil.Round2(ratio(a.Revenue, t.Conversions)),
		}
	case "marketing":
		return KeyMetrics{
			"total_impressions": t.Impressions,
			"total_clicks":      t.Clicks,
			"ctr":               t.CTR,
			"total_sessions":    float64(a.TotalSessions),
			"bounce_rate":       a.BounceRate,
			"conversion_rate":   a.ConversionRate,
		}
	default:
		return KeyMetrics{
			"total_ad_spend":    t.AdSpend,
			"total_revenue":     a.Revenue,
			"total_impressions": t.Impressions,
			"total_clicks":      t.Clicks,
			"total_sessions":    float64(a.TotalSessions),
			"conversion_rate":   a.ConversionRate,
			"roas":              roas,
		}
	}
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
