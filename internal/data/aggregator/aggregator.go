package aggregator

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/usagelens/usagelens/internal/core/model"
	"github.com/usagelens/usagelens/internal/util"
)

// TimeBucket holds the totals for one time period.
type TimeBucket struct {
	Key          string  `json:"key"`
	Usage        float64 `json:"usage"`
	Requests     float64 `json:"requests"`
	Cost         float64 `json:"cost"`
	InputTokens  float64 `json:"inputTokens"`
	OutputTokens float64 `json:"outputTokens"`
	Records      int     `json:"records"`
}

// CategoryBucket holds the totals for one category across the whole
// record set.
type CategoryBucket struct {
	Category string  `json:"category"`
	Usage    float64 `json:"usage"`
	Requests float64 `json:"requests"`
	Cost     float64 `json:"cost"`
	Records  int     `json:"records"`
}

// SeriesBucket is one time period of a category-split series. Series
// holds one value per category; every bucket in a table carries the
// same key set, zero-filled where a category had no records.
type SeriesBucket struct {
	Key    string             `json:"key"`
	Series map[string]float64 `json:"series"`
}

// SeriesTable is a time-by-category matrix for one metric.
type SeriesTable struct {
	Metric     model.Metric   `json:"metric"`
	Categories []string       `json:"categories"`
	Buckets    []SeriesBucket `json:"buckets"`
}

// Engine computes aggregations over a record set and memoizes the
// results. Each call with the same operation, granularity, and record
// set returns the cached value; SetRecords invalidates everything by
// bumping a version counter. Safe for concurrent use.
//
// Results are shared with the memo cache: callers must treat returned
// buckets and tables as read-only.
type Engine struct {
	mu      sync.Mutex
	records []model.Record
	version uint64
	cache   map[string]any
}

func NewEngine() *Engine {
	return &Engine{cache: make(map[string]any)}
}

// SetRecords replaces the engine's record set. The slice is copied, so
// later mutation of the caller's slice does not leak into cached
// results.
func (e *Engine) SetRecords(records []model.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = make([]model.Record, len(records))
	copy(e.records, records)
	e.version++
	e.cache = make(map[string]any)
	util.LogDebug(fmt.Sprintf("Aggregation engine loaded %d records (version %d)", len(records), e.version))
}

// Clear drops all cached results without touching the record set.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]any)
}

// AggregateByTime sums records into time buckets at the given
// granularity, sorted by key ascending. The returned slice is cached;
// do not mutate it.
func (e *Engine) AggregateByTime(g model.Granularity) []TimeBucket {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := fmt.Sprintf("time|%s|%d", g, e.version)
	if cached, ok := e.cache[key]; ok {
		return cached.([]TimeBucket)
	}

	byKey := make(map[string]*TimeBucket)
	for _, record := range e.records {
		bucketKey := BucketKey(record.Date, g)
		bucket, ok := byKey[bucketKey]
		if !ok {
			bucket = &TimeBucket{Key: bucketKey}
			byKey[bucketKey] = bucket
		}
		bucket.Usage += record.Usage
		bucket.Requests += record.Requests
		bucket.Cost += record.Cost
		bucket.InputTokens += record.InputTokens
		bucket.OutputTokens += record.OutputTokens
		bucket.Records++
	}

	buckets := make([]TimeBucket, 0, len(byKey))
	for _, bucket := range byKey {
		buckets = append(buckets, *bucket)
	}
	// Bucket keys are zero-padded, so lexicographic order is
	// chronological order.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })

	e.cache[key] = buckets
	return buckets
}

// AggregateByCategory sums records per category, sorted by usage
// descending with alphabetical ties. The returned slice is cached; do
// not mutate it.
func (e *Engine) AggregateByCategory() []CategoryBucket {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := fmt.Sprintf("category|%d", e.version)
	if cached, ok := e.cache[key]; ok {
		return cached.([]CategoryBucket)
	}

	byCategory := make(map[string]*CategoryBucket)
	for _, record := range e.records {
		bucket, ok := byCategory[record.Category]
		if !ok {
			bucket = &CategoryBucket{Category: record.Category}
			byCategory[record.Category] = bucket
		}
		bucket.Usage += record.Usage
		bucket.Requests += record.Requests
		bucket.Cost += record.Cost
		bucket.Records++
	}

	buckets := make([]CategoryBucket, 0, len(byCategory))
	for _, bucket := range byCategory {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Usage != buckets[j].Usage {
			return buckets[i].Usage > buckets[j].Usage
		}
		return buckets[i].Category < buckets[j].Category
	})

	e.cache[key] = buckets
	return buckets
}

// AggregateSeries builds a time-by-category matrix for one metric.
// Every bucket carries a value for every category observed anywhere in
// the record set, zero-filled where the category had no records in that
// period. Categories are ordered by total metric value descending. The
// returned table is cached; do not mutate it.
func (e *Engine) AggregateSeries(g model.Granularity, metric model.Metric) *SeriesTable {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := fmt.Sprintf("series|%s|%s|%d", g, metric, e.version)
	if cached, ok := e.cache[key]; ok {
		return cached.(*SeriesTable)
	}

	totals := make(map[string]float64)
	byKey := make(map[string]map[string]float64)
	for _, record := range e.records {
		bucketKey := BucketKey(record.Date, g)
		series, ok := byKey[bucketKey]
		if !ok {
			series = make(map[string]float64)
			byKey[bucketKey] = series
		}
		value := metric.Of(record)
		series[record.Category] += value
		totals[record.Category] += value
	}

	categories := make([]string, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if totals[categories[i]] != totals[categories[j]] {
			return totals[categories[i]] > totals[categories[j]]
		}
		return categories[i] < categories[j]
	})

	keys := make([]string, 0, len(byKey))
	for bucketKey := range byKey {
		keys = append(keys, bucketKey)
	}
	sort.Strings(keys)

	buckets := make([]SeriesBucket, 0, len(keys))
	for _, bucketKey := range keys {
		series := make(map[string]float64, len(categories))
		for _, category := range categories {
			series[category] = byKey[bucketKey][category]
		}
		buckets = append(buckets, SeriesBucket{Key: bucketKey, Series: series})
	}

	table := &SeriesTable{Metric: metric, Categories: categories, Buckets: buckets}
	e.cache[key] = table
	return table
}

// BucketKey formats a record date as its time bucket key. Weekly
// buckets are keyed by the Sunday that starts the week.
func BucketKey(t time.Time, g model.Granularity) string {
	switch g {
	case model.GranularityWeekly:
		sunday := t.AddDate(0, 0, -int(t.Weekday()))
		return sunday.Format("2006-01-02")
	case model.GranularityMonthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
