package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/usagelens/usagelens/internal/util"
)

// TableFormatter renders time or category totals as a bordered text
// table. Column widths follow content, measured with runewidth so CJK
// category names line up.
type TableFormatter struct {
	w io.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{w: w}
}

func (f *TableFormatter) Format(report *Report) error {
	var headers []string
	var rows [][]string

	switch report.GroupBy {
	case GroupByCategory:
		headers = []string{"Category", "Usage", "Requests", "Cost", "Records"}
		var totalUsage, totalRequests, totalCost float64
		var totalRecords int
		for _, bucket := range report.Categories {
			rows = append(rows, []string{
				bucket.Category,
				util.FormatAmount(bucket.Usage),
				util.FormatAmount(bucket.Requests),
				util.FormatCurrency(bucket.Cost),
				fmt.Sprintf("%d", bucket.Records),
			})
			totalUsage += bucket.Usage
			totalRequests += bucket.Requests
			totalCost += bucket.Cost
			totalRecords += bucket.Records
		}
		rows = append(rows, []string{
			"Total",
			util.FormatAmount(totalUsage),
			util.FormatAmount(totalRequests),
			util.FormatCurrency(totalCost),
			fmt.Sprintf("%d", totalRecords),
		})
	default:
		headers = []string{"Period", "Usage", "Requests", "Cost", "Input", "Output", "Records"}
		var totalUsage, totalRequests, totalCost, totalInput, totalOutput float64
		var totalRecords int
		for _, bucket := range report.TimeBuckets {
			rows = append(rows, []string{
				bucket.Key,
				util.FormatAmount(bucket.Usage),
				util.FormatAmount(bucket.Requests),
				util.FormatCurrency(bucket.Cost),
				util.FormatAmount(bucket.InputTokens),
				util.FormatAmount(bucket.OutputTokens),
				fmt.Sprintf("%d", bucket.Records),
			})
			totalUsage += bucket.Usage
			totalRequests += bucket.Requests
			totalCost += bucket.Cost
			totalInput += bucket.InputTokens
			totalOutput += bucket.OutputTokens
			totalRecords += bucket.Records
		}
		rows = append(rows, []string{
			"Total",
			util.FormatAmount(totalUsage),
			util.FormatAmount(totalRequests),
			util.FormatCurrency(totalCost),
			util.FormatAmount(totalInput),
			util.FormatAmount(totalOutput),
			fmt.Sprintf("%d", totalRecords),
		})
	}

	widths := f.columnWidths(headers, rows)

	f.printBorder(widths, "top")
	f.printRow(headers, widths)
	f.printBorder(widths, "middle")
	for i, row := range rows {
		if i == len(rows)-1 {
			f.printBorder(widths, "middle")
		}
		f.printRow(row, widths)
	}
	f.printBorder(widths, "bottom")

	return nil
}

func (f *TableFormatter) columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := runewidth.StringWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// Clamp the first column so long category names cannot push the
	// table past the terminal edge.
	if limit := firstColumnLimit(widths); widths[0] > limit {
		widths[0] = limit
	}
	return widths
}

// firstColumnLimit leaves the numeric columns intact and gives whatever
// terminal width remains to the label column.
func firstColumnLimit(widths []int) int {
	termWidth := 120
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			termWidth = w
		}
	}

	rest := 0
	for _, w := range widths[1:] {
		rest += w + 3
	}
	limit := termWidth - rest - 4
	if limit < 12 {
		limit = 12
	}
	return limit
}

func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	fmt.Fprint(f.w, left)
	for i, width := range widths {
		fmt.Fprint(f.w, strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			fmt.Fprint(f.w, middle)
		}
	}
	fmt.Fprintln(f.w, right)
}

func (f *TableFormatter) printRow(values []string, widths []int) {
	fmt.Fprint(f.w, "│")
	for i, value := range values {
		value = runewidth.Truncate(value, widths[i], "…")
		if i == 0 {
			// Label column is left-aligned, numeric columns right.
			fmt.Fprintf(f.w, " %s │", runewidth.FillRight(value, widths[i]))
		} else {
			fmt.Fprintf(f.w, " %s │", runewidth.FillLeft(value, widths[i]))
		}
	}
	fmt.Fprintln(f.w)
}
