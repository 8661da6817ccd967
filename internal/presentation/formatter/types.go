package formatter

import (
	"github.com/usagelens/usagelens/internal/core/model"
	"github.com/usagelens/usagelens/internal/data/aggregator"
)

// GroupBy selects the primary dimension of a report.
type GroupBy string

const (
	GroupByTime     GroupBy = "time"
	GroupByCategory GroupBy = "category"
)

// ParseGroupBy maps a user-supplied string to a GroupBy, defaulting to
// time.
func ParseGroupBy(s string) GroupBy {
	if GroupBy(s) == GroupByCategory {
		return GroupByCategory
	}
	return GroupByTime
}

// Report carries everything a formatter may need: the aggregated views,
// the summary stats, and the filtered records they were computed from.
type Report struct {
	GroupBy     GroupBy                     `json:"groupBy"`
	Granularity model.Granularity           `json:"granularity"`
	Stats       aggregator.SummaryStats     `json:"stats"`
	TimeBuckets []aggregator.TimeBucket     `json:"timeBuckets,omitempty"`
	Categories  []aggregator.CategoryBucket `json:"categories,omitempty"`
	Series      *aggregator.SeriesTable     `json:"series,omitempty"`
	Records     []model.Record              `json:"-"`
}

// Formatter renders a report to its configured destination.
type Formatter interface {
	Format(report *Report) error
}
