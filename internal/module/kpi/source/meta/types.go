package meta

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/oneview/server/internal/module/kpi/source"
)

type page[T any] struct {
	Data []T `json:"data"`
}

type accountInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status"`
	Currency      string `json:"currency"`
	TimezoneName  string `json:"timezone_name"`
}

// actionTotal decodes a Graph metric that is either a scalar or a list of
// {action_type, value} entries, summing the list.
type actionTotal float64

func (a *actionTotal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		var n source.Number
		if err := n.UnmarshalJSON(data); err != nil {
			return err
		}
		*a = actionTotal(n)
		return nil
	}

	var actions []struct {
		ActionType string        `json:"action_type"`
		Value      source.Number `json:"value"`
	}
	if err := json.Unmarshal(data, &actions); err != nil {
		return fmt.Errorf("decode actions: %w", err)
	}
	var sum float64
	for _, act := range actions {
		sum += act.Value.Float()
	}
	*a = actionTotal(sum)
	return nil
}

type insightRow struct {
	CampaignID        string        `json:"campaign_id"`
	CampaignName      string        `json:"campaign_name"`
	Impressions       source.Number `json:"impressions"`
	Clicks            source.Number `json:"clicks"`
	Spend             source.Number `json:"spend"`
	CTR               source.Number `json:"ctr"`
	CPC               source.Number `json:"cpc"`
	Reach             source.Number `json:"reach"`
	Conversions       actionTotal   `json:"conversions"`
	CostPerConversion actionTotal   `json:"cost_per_conversion"`
	DateStart         string        `json:"date_start"`
	DateStop          string        `json:"date_stop"`
}

func (r insightRow) campaignInsight() source.CampaignInsight {
	return source.CampaignInsight{
		CampaignID:        r.CampaignID,
		CampaignName:      r.CampaignName,
		Impressions:       r.Impressions.Int(),
		Clicks:            r.Clicks.Int(),
		Spend:             r.Spend.Float(),
		CTR:               r.CTR.Float(),
		CPC:               r.CPC.Float(),
		Reach:             r.Reach.Int(),
		Conversions:       float64(r.Conversions),
		CostPerConversion: float64(r.CostPerConversion),
	}
}

func (r insightRow) dailyRecord() source.DailyRecord {
	return source.DailyRecord{
		Date:        r.DateStart,
		Spend:       r.Spend.Float(),
		Clicks:      r.Clicks.Int(),
		Impressions: r.Impressions.Int(),
		Conversions: float64(r.Conversions),
	}
}
