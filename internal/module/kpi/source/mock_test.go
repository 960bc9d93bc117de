package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

func newTestGenerator() *MockGenerator {
	return NewMockGenerator(1).WithClock(func() time.Time { return fixedNow })
}

func TestMockGenerator_Ads(t *testing.T) {
	p := newTestGenerator().Ads()

	assert.Equal(t, TagMock, p.DataSource)
	assert.GreaterOrEqual(t, p.TotalSpend, 10000.0)
	assert.LessOrEqual(t, p.TotalSpend, 50000.0)
	assert.GreaterOrEqual(t, p.TotalImpressions, int64(100000))
	assert.LessOrEqual(t, p.TotalImpressions, int64(500000))
	assert.GreaterOrEqual(t, p.TotalClicks, int64(5000))
	assert.LessOrEqual(t, p.TotalClicks, int64(25000))
	assert.GreaterOrEqual(t, p.TotalConversions, 200.0)
	assert.LessOrEqual(t, p.TotalConversions, 1000.0)

	require.Len(t, p.Campaigns, 5)
	assert.Equal(t, "Summer Sale Campaign", p.Campaigns[0].Name)
	assert.Equal(t, "camp_5", p.Campaigns[4].ID)

	require.Len(t, p.HistoricalData, 30)
	assert.Equal(t, "2024-06-15", p.HistoricalData[0].Date)
	assert.Equal(t, "2024-05-17", p.HistoricalData[29].Date)
	for _, d := range p.HistoricalData {
		assert.GreaterOrEqual(t, d.Spend, 300.0)
		assert.LessOrEqual(t, d.Spend, 1500.0)
		assert.Nil(t, d.Sessions)
	}
}

func TestMockGenerator_Social(t *testing.T) {
	p := newTestGenerator().Social()

	assert.Equal(t, TagMock, p.DataSource)
	require.NotNil(t, p.AccountInfo)
	assert.Equal(t, "USD", p.AccountInfo.Currency)
	require.Len(t, p.Campaigns, 2)
	assert.Equal(t, "Meta Retargeting Campaign", p.Campaigns[1].Name)

	m := p.SummaryMetrics
	assert.GreaterOrEqual(t, m.TotalSpend, 1000.0)
	assert.LessOrEqual(t, m.TotalSpend, 5000.0)
	assert.GreaterOrEqual(t, m.Reach, int64(30000))
	assert.LessOrEqual(t, m.Reach, int64(100000))
	assert.Len(t, p.HistoricalData, 30)
}

func TestMockGenerator_Analytics(t *testing.T) {
	p := newTestGenerator().Analytics()

	assert.Equal(t, TagMock, p.DataSource)
	assert.GreaterOrEqual(t, p.Revenue, 25000.0)
	assert.LessOrEqual(t, p.Revenue, 100000.0)
	assert.Equal(t, p.AvgSessionDuration, float64(int64(p.AvgSessionDuration)))

	require.Len(t, p.TrafficSources, 5)
	assert.Equal(t, "organic", p.TrafficSources[0].Source)
	require.Len(t, p.TopPages, 5)
	assert.Equal(t, "/blog", p.TopPages[4].Page)

	require.Len(t, p.HistoricalData, 30)
	for _, d := range p.HistoricalData {
		require.NotNil(t, d.Sessions)
		assert.GreaterOrEqual(t, *d.Sessions, int64(400))
		assert.LessOrEqual(t, *d.Sessions, int64(2000))
		require.NotNil(t, d.BounceRate)
	}
}

func TestMockGenerator_Seeded(t *testing.T) {
	a := newTestGenerator().Ads()
	b := newTestGenerator().Ads()
	assert.Equal(t, a, b)
}
