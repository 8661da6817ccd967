package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/usagelens/usagelens/internal/util"
)

// SummaryFormatter writes a human-readable processing summary: row
// counts, totals, and the top categories.
type SummaryFormatter struct {
	w io.Writer
}

func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

func (f *SummaryFormatter) Format(report *Report) error {
	stats := report.Stats

	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	fmt.Fprintln(f.w, "Usage Summary Report")
	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	fmt.Fprintln(f.w)

	if stats.FirstDay != "" {
		if stats.FirstDay == stats.LastDay {
			fmt.Fprintf(f.w, "Date Range: %s\n", stats.FirstDay)
		} else {
			fmt.Fprintf(f.w, "Date Range: %s to %s\n", stats.FirstDay, stats.LastDay)
		}
		fmt.Fprintln(f.w)
	}

	if stats.ValidRecords == 0 {
		fmt.Fprintln(f.w, "No data to summarize")
		fmt.Fprintln(f.w)
		fmt.Fprintln(f.w, strings.Repeat("=", 60))
		return nil
	}

	fmt.Fprintln(f.w, "Rows:")
	fmt.Fprintf(f.w, "  Read:    %d\n", stats.TotalRows)
	fmt.Fprintf(f.w, "  Valid:   %d\n", stats.ValidRecords)
	fmt.Fprintf(f.w, "  Skipped: %d\n", stats.SkippedRows)
	fmt.Fprintln(f.w)

	fmt.Fprintln(f.w, "Totals:")
	fmt.Fprintf(f.w, "  Usage:    %s\n", util.FormatAmount(stats.TotalUsage))
	fmt.Fprintf(f.w, "  Requests: %s\n", util.FormatAmount(stats.TotalRequests))
	fmt.Fprintf(f.w, "  Cost:     %s\n", util.FormatCurrency(stats.TotalCost))
	if stats.TotalRequests > 0 {
		fmt.Fprintf(f.w, "  Cost per request: %.4f\n", stats.AvgCostPerRequest)
	}
	if stats.TotalUsage > 0 {
		fmt.Fprintf(f.w, "  Cost per unit:    %.6f\n", stats.AvgCostPerUnit)
	}
	fmt.Fprintln(f.w)

	if len(report.Categories) > 0 {
		fmt.Fprintf(f.w, "Categories (%d):\n", stats.Categories)
		fmt.Fprintln(f.w, strings.Repeat("-", 60))
		for _, bucket := range report.Categories {
			fmt.Fprintf(f.w, "  %-24s %10s usage %10s cost\n",
				bucket.Category,
				util.FormatAmount(bucket.Usage),
				util.FormatCurrency(bucket.Cost))
		}
	}

	fmt.Fprintln(f.w)
	fmt.Fprintln(f.w, strings.Repeat("=", 60))

	return nil
}
