package filter

import (
	"fmt"

	"github.com/usagelens/usagelens/internal/core/model"
	"github.com/usagelens/usagelens/internal/util"
)

// Apply returns the records that satisfy every criterion in spec,
// preserving input order. The input slice is never mutated; the result
// is always a fresh slice.
//
// Date ranges are inclusive at both ends and compare at day
// granularity, so a record at any time of day on the end date is kept.
// An empty category list means no category restriction.
func Apply(records []model.Record, spec model.FilterSpec) []model.Record {
	categories := make(map[string]struct{}, len(spec.Categories))
	for _, c := range spec.Categories {
		categories[c] = struct{}{}
	}

	var startKey, endKey string
	if spec.DateRange != nil {
		startKey = spec.DateRange.Start.Format("2006-01-02")
		endKey = spec.DateRange.End.Format("2006-01-02")
	}

	result := make([]model.Record, 0, len(records))
	for _, record := range records {
		if spec.DateRange != nil {
			day := record.DayKey()
			if day < startKey || day > endKey {
				continue
			}
		}
		if len(categories) > 0 {
			if _, ok := categories[record.Category]; !ok {
				continue
			}
		}
		result = append(result, record)
	}

	if len(result) == 0 && len(records) > 0 {
		util.LogWarn(fmt.Sprintf("Filter matched none of %d records", len(records)))
	}
	return result
}
