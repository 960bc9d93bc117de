package kpi

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/oneview/server/internal/module/kpi/source"
	"github.com/oneview/server/internal/shared/metrics"
)

// Recorder persists summary metrics of freshly fetched live payloads.
// Failures are logged and counted, never returned.
type Recorder struct {
	repo    Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewRecorder creates a snapshot recorder.
func NewRecorder(repo Repository, m *metrics.Metrics, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, metrics: m, logger: logger, now: time.Now}
}

// Record stores a snapshot of payload for the named source.
func (r *Recorder) Record(ctx context.Context, sourceName string, payload source.Augmentable) {
	if r == nil || r.repo == nil {
		return
	}

	now := r.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	metricRows, campaignRows := snapshotRows(sourceName, payload, day)
	if len(metricRows) == 0 && len(campaignRows) == 0 {
		return
	}

	err := r.repo.SaveSnapshot(ctx, metricRows, campaignRows)
	r.metrics.RecordSnapshotWrite(sourceName, err)
	if err != nil {
		r.logger.Warn("save kpi snapshot failed", zap.String("source", sourceName), zap.Error(err))
		return
	}
	r.logger.Debug("saved kpi snapshot",
		zap.String("source", sourceName),
		zap.Int("metrics", len(metricRows)),
		zap.Int("campaigns", len(campaignRows)))
}

type metric struct {
	name  string
	value float64
	kind  string
}

func snapshotRows(sourceName string, payload source.Augmentable, day time.Time) ([]*KpiData, []*CampaignPerformance) {
	var (
		readings  []metric
		campaigns []*CampaignPerformance
	)

	switch p := payload.(type) {
	case *source.AdsPayload:
		if p == nil {
			return nil, nil
		}
		readings = []metric{
			{"total_spend", p.TotalSpend, MetricCurrency},
			{"total_impressions", float64(p.TotalImpressions), MetricCount},
			{"total_clicks", float64(p.TotalClicks), MetricCount},
			{"total_conversions", p.TotalConversions, MetricCount},
			{"ctr", p.CTR, MetricPercentage},
			{"conversion_rate", p.ConversionRate, MetricPercentage},
			{"average_cpc", p.AverageCPC, MetricCurrency},
		}
		for _, c := range p.Campaigns {
			if c.ID == "" {
				continue
			}
			campaigns = append(campaigns, &CampaignPerformance{
				CampaignID:     c.ID,
				CampaignName:   c.Name,
				Date:           day,
				Impressions:    c.Impressions,
				Clicks:         c.Clicks,
				Conversions:    int64(c.Conversions),
				Cost:           c.Spend,
				CTR:            c.CTR,
				ConversionRate: c.ConversionRate,
			})
		}
	case *source.SocialPayload:
		if p == nil {
			return nil, nil
		}
		m := p.SummaryMetrics
		readings = []metric{
			{"total_spend", m.TotalSpend, MetricCurrency},
			{"total_impressions", float64(m.TotalImpressions), MetricCount},
			{"total_clicks", float64(m.TotalClicks), MetricCount},
			{"total_conversions", float64(m.TotalConversions), MetricCount},
			{"ctr", m.CTR, MetricPercentage},
			{"cpc", m.CPC, MetricCurrency},
			{"reach", float64(m.Reach), MetricCount},
		}
	case *source.AnalyticsPayload:
		if p == nil {
			return nil, nil
		}
		readings = []metric{
			{"total_sessions", float64(p.TotalSessions), MetricCount},
			{"total_users", float64(p.TotalUsers), MetricCount},
			{"page_views", float64(p.PageViews), MetricCount},
			{"bounce_rate", p.BounceRate, MetricPercentage},
			{"avg_session_duration", p.AvgSessionDuration, MetricCount},
			{"conversion_rate", p.ConversionRate, MetricPercentage},
			{"revenue", p.Revenue, MetricCurrency},
		}
	}

	rows := make([]*KpiData, 0, len(readings))
	for _, m := range readings {
		rows = append(rows, &KpiData{
			Source:       sourceName,
			MetricName:   m.name,
			MetricValue:  m.value,
			MetricType:   m.kind,
			DateRecorded: day,
		})
	}
	return rows, campaigns
}
