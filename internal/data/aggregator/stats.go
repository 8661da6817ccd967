package aggregator

import (
	"github.com/usagelens/usagelens/internal/core/model"
)

// SummaryStats describes one processed record set end to end: how many
// rows survived normalization and the overall totals and span.
type SummaryStats struct {
	TotalRows         int     `json:"totalRows"`
	ValidRecords      int     `json:"validRecords"`
	SkippedRows       int     `json:"skippedRows"`
	TotalUsage        float64 `json:"totalUsage"`
	TotalRequests     float64 `json:"totalRequests"`
	TotalCost         float64 `json:"totalCost"`
	AvgCostPerRequest float64 `json:"avgCostPerRequest"`
	AvgCostPerUnit    float64 `json:"avgCostPerUnit"`
	Categories        int     `json:"categories"`
	FirstDay          string  `json:"firstDay,omitempty"`
	LastDay           string  `json:"lastDay,omitempty"`
}

// ComputeStats summarizes a record set. totalRows is the raw row count
// before normalization, so the skip count falls out of the difference.
func ComputeStats(records []model.Record, totalRows int) SummaryStats {
	stats := SummaryStats{
		TotalRows:    totalRows,
		ValidRecords: len(records),
		SkippedRows:  totalRows - len(records),
	}

	categories := make(map[string]struct{})
	for i, record := range records {
		stats.TotalUsage += record.Usage
		stats.TotalRequests += record.Requests
		stats.TotalCost += record.Cost
		categories[record.Category] = struct{}{}

		day := record.DayKey()
		if i == 0 || day < stats.FirstDay {
			stats.FirstDay = day
		}
		if i == 0 || day > stats.LastDay {
			stats.LastDay = day
		}
	}
	stats.Categories = len(categories)
	if stats.TotalRequests > 0 {
		stats.AvgCostPerRequest = stats.TotalCost / stats.TotalRequests
	}
	if stats.TotalUsage > 0 {
		stats.AvgCostPerUnit = stats.TotalCost / stats.TotalUsage
	}

	return stats
}
