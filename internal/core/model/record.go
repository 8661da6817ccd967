package model

import (
	"time"
)

// UnknownCategory is the sentinel assigned when a row carries no
// recognizable category value.
const UnknownCategory = "unknown"

// RawRow is one undecoded row from an export: source column name to raw
// cell value (string, float64, or nil). Column names vary across exports
// and no fixed schema is guaranteed.
type RawRow map[string]any

// Granularity is the time-bucketing resolution for aggregation.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// ParseGranularity maps a user-supplied string to a Granularity,
// defaulting to daily.
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case GranularityWeekly:
		return GranularityWeekly
	case GranularityMonthly:
		return GranularityMonthly
	default:
		return GranularityDaily
	}
}

// Record is a normalized, validated usage entry. Records are treated as
// immutable once built; aggregation never mutates them.
//
// Date carries no time-of-day semantics. It is pinned to noon so that
// day bucketing and min/max comparisons survive timezone conversion.
type Record struct {
	Date           time.Time `json:"date"`
	Category       string    `json:"category"`
	Usage          float64   `json:"usage"`
	Requests       float64   `json:"requests"`
	Cost           float64   `json:"cost"`
	InputTokens    float64   `json:"inputTokens"`
	OutputTokens   float64   `json:"outputTokens"`
	CostPerRequest float64   `json:"costPerRequest"`
	CostPerUnit    float64   `json:"costPerUnit"`
}

// DayKey returns the record's calendar day as YYYY-MM-DD.
func (r Record) DayKey() string {
	return r.Date.Format("2006-01-02")
}

// DateRange is an inclusive calendar-day interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// FilterSpec narrows a record set. Nil DateRange and empty Categories
// mean "no restriction" on that dimension.
type FilterSpec struct {
	DateRange   *DateRange
	Categories  []string
	Granularity Granularity
}
