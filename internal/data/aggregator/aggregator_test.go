package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usagelens/usagelens/internal/core/model"
)

func day(month, dayOfMonth int) time.Time {
	return time.Date(2024, time.Month(month), dayOfMonth, 12, 0, 0, 0, time.Local)
}

func newTestEngine(records []model.Record) *Engine {
	e := NewEngine()
	e.SetRecords(records)
	return e
}

func TestAggregateByTimeDaily(t *testing.T) {
	e := newTestEngine([]model.Record{
		{Date: day(1, 1), Category: "A", Usage: 100, Requests: 5},
		{Date: day(1, 1), Category: "B", Usage: 50, Requests: 2},
		{Date: day(1, 2), Category: "A", Usage: 200, Requests: 8},
	})

	buckets := e.AggregateByTime(model.GranularityDaily)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-01-01", buckets[0].Key)
	assert.Equal(t, float64(150), buckets[0].Usage)
	assert.Equal(t, float64(7), buckets[0].Requests)
	assert.Equal(t, 2, buckets[0].Records)
	assert.Equal(t, "2024-01-02", buckets[1].Key)
	assert.Equal(t, float64(200), buckets[1].Usage)
	assert.Equal(t, float64(8), buckets[1].Requests)
}

func TestAggregateByTimeKeysUniqueAndSorted(t *testing.T) {
	e := newTestEngine([]model.Record{
		{Date: day(3, 15), Usage: 1},
		{Date: day(1, 2), Usage: 1},
		{Date: day(2, 28), Usage: 1},
		{Date: day(1, 2), Usage: 1},
	})

	buckets := e.AggregateByTime(model.GranularityDaily)
	require.Len(t, buckets, 3)
	seen := make(map[string]bool)
	for i, bucket := range buckets {
		assert.False(t, seen[bucket.Key])
		seen[bucket.Key] = true
		if i > 0 {
			assert.Less(t, buckets[i-1].Key, bucket.Key)
		}
	}
}

func TestAggregateByTimeWeekly(t *testing.T) {
	// 2024-01-10 is a Wednesday; its week starts Sunday 2024-01-07.
	e := newTestEngine([]model.Record{
		{Date: day(1, 10), Usage: 10},
		{Date: day(1, 7), Usage: 5},
		{Date: day(1, 13), Usage: 1},
		{Date: day(1, 14), Usage: 100},
	})

	buckets := e.AggregateByTime(model.GranularityWeekly)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-01-07", buckets[0].Key)
	assert.Equal(t, float64(16), buckets[0].Usage)
	assert.Equal(t, "2024-01-14", buckets[1].Key)
	assert.Equal(t, float64(100), buckets[1].Usage)
}

func TestAggregateByTimeMonthly(t *testing.T) {
	e := newTestEngine([]model.Record{
		{Date: day(1, 1), Usage: 1},
		{Date: day(1, 31), Usage: 2},
		{Date: day(2, 1), Usage: 4},
	})

	buckets := e.AggregateByTime(model.GranularityMonthly)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-01", buckets[0].Key)
	assert.Equal(t, float64(3), buckets[0].Usage)
	assert.Equal(t, "2024-02", buckets[1].Key)
}

func TestAggregateByCategoryOrdering(t *testing.T) {
	e := newTestEngine([]model.Record{
		{Date: day(1, 1), Category: "A", Usage: 100, Requests: 5},
		{Date: day(1, 1), Category: "B", Usage: 50, Requests: 2},
		{Date: day(1, 2), Category: "A", Usage: 200, Requests: 8},
	})

	buckets := e.AggregateByCategory()
	require.Len(t, buckets, 2)
	assert.Equal(t, "A", buckets[0].Category)
	assert.Equal(t, float64(300), buckets[0].Usage)
	assert.Equal(t, float64(13), buckets[0].Requests)
	assert.Equal(t, "B", buckets[1].Category)
	assert.Equal(t, float64(50), buckets[1].Usage)
	assert.Equal(t, float64(2), buckets[1].Requests)
}

func TestAggregateByCategoryTieBreaksAlphabetical(t *testing.T) {
	e := newTestEngine([]model.Record{
		{Date: day(1, 1), Category: "zeta", Usage: 10},
		{Date: day(1, 1), Category: "alpha", Usage: 10},
	})

	buckets := e.AggregateByCategory()
	require.Len(t, buckets, 2)
	assert.Equal(t, "alpha", buckets[0].Category)
	assert.Equal(t, "zeta", buckets[1].Category)
}

func TestAggregateSeriesZeroFilled(t *testing.T) {
	e := newTestEngine([]model.Record{
		{Date: day(1, 1), Category: "A", Usage: 100},
		{Date: day(1, 2), Category: "B", Usage: 50},
	})

	table := e.AggregateSeries(model.GranularityDaily, model.MetricUsage)
	require.Len(t, table.Buckets, 2)
	assert.Equal(t, []string{"A", "B"}, table.Categories)

	// Every bucket carries every category.
	for _, bucket := range table.Buckets {
		require.Len(t, bucket.Series, 2)
	}
	assert.Equal(t, float64(100), table.Buckets[0].Series["A"])
	assert.Equal(t, float64(0), table.Buckets[0].Series["B"])
	assert.Equal(t, float64(0), table.Buckets[1].Series["A"])
	assert.Equal(t, float64(50), table.Buckets[1].Series["B"])
}

func TestAggregateSeriesMetricSelection(t *testing.T) {
	e := newTestEngine([]model.Record{
		{Date: day(1, 1), Category: "A", Usage: 100, Cost: 1.5},
		{Date: day(1, 1), Category: "A", Usage: 50, Cost: 0.5},
	})

	table := e.AggregateSeries(model.GranularityDaily, model.MetricCost)
	require.Len(t, table.Buckets, 1)
	assert.Equal(t, model.MetricCost, table.Metric)
	assert.Equal(t, float64(2), table.Buckets[0].Series["A"])
}

func TestCachedResultsReused(t *testing.T) {
	e := newTestEngine([]model.Record{
		{Date: day(1, 1), Category: "A", Usage: 100},
	})

	first := e.AggregateByTime(model.GranularityDaily)
	second := e.AggregateByTime(model.GranularityDaily)
	require.Len(t, first, 1)
	assert.Same(t, &first[0], &second[0])

	table1 := e.AggregateSeries(model.GranularityDaily, model.MetricUsage)
	table2 := e.AggregateSeries(model.GranularityDaily, model.MetricUsage)
	assert.Same(t, table1, table2)
}

func TestSetRecordsInvalidatesCache(t *testing.T) {
	e := newTestEngine([]model.Record{
		{Date: day(1, 1), Category: "A", Usage: 100},
	})
	require.Equal(t, float64(100), e.AggregateByTime(model.GranularityDaily)[0].Usage)

	e.SetRecords([]model.Record{
		{Date: day(1, 1), Category: "A", Usage: 999},
	})
	assert.Equal(t, float64(999), e.AggregateByTime(model.GranularityDaily)[0].Usage)
}

func TestSetRecordsCopiesInput(t *testing.T) {
	records := []model.Record{{Date: day(1, 1), Category: "A", Usage: 100}}
	e := newTestEngine(records)

	records[0].Usage = -1
	assert.Equal(t, float64(100), e.AggregateByTime(model.GranularityDaily)[0].Usage)
}

func TestClearDropsCacheKeepsRecords(t *testing.T) {
	e := newTestEngine([]model.Record{
		{Date: day(1, 1), Category: "A", Usage: 100},
	})
	first := e.AggregateByTime(model.GranularityDaily)
	e.Clear()

	second := e.AggregateByTime(model.GranularityDaily)
	assert.Equal(t, first, second)
}

func TestBucketKey(t *testing.T) {
	tests := []struct {
		name        string
		date        time.Time
		granularity model.Granularity
		expected    string
	}{
		{"daily", day(1, 15), model.GranularityDaily, "2024-01-15"},
		{"weekly mid-week", day(1, 10), model.GranularityWeekly, "2024-01-07"},
		{"weekly on sunday", day(1, 7), model.GranularityWeekly, "2024-01-07"},
		{"weekly across month boundary", day(2, 2), model.GranularityWeekly, "2024-01-28"},
		{"monthly", day(1, 15), model.GranularityMonthly, "2024-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BucketKey(tt.date, tt.granularity))
		})
	}
}

func TestComputeStats(t *testing.T) {
	records := []model.Record{
		{Date: day(1, 2), Category: "A", Usage: 100, Requests: 5, Cost: 1.5},
		{Date: day(1, 1), Category: "B", Usage: 50, Requests: 2, Cost: 0.5},
		{Date: day(1, 3), Category: "A", Usage: 10, Requests: 1, Cost: 0.25},
	}

	stats := ComputeStats(records, 5)
	assert.Equal(t, 5, stats.TotalRows)
	assert.Equal(t, 3, stats.ValidRecords)
	assert.Equal(t, 2, stats.SkippedRows)
	assert.Equal(t, float64(160), stats.TotalUsage)
	assert.Equal(t, float64(8), stats.TotalRequests)
	assert.Equal(t, 2.25, stats.TotalCost)
	assert.InDelta(t, 2.25/8, stats.AvgCostPerRequest, 1e-12)
	assert.InDelta(t, 2.25/160, stats.AvgCostPerUnit, 1e-12)
	assert.Equal(t, 2, stats.Categories)
	assert.Equal(t, "2024-01-01", stats.FirstDay)
	assert.Equal(t, "2024-01-03", stats.LastDay)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, 0)
	assert.Zero(t, stats.ValidRecords)
	assert.Empty(t, stats.FirstDay)
	assert.Empty(t, stats.LastDay)
}
