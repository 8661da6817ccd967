package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVFormatter exports the filtered record set row by row, one CSV line
// per record. Aggregated views are left to the other formatters; this
// output round-trips back through the loader.
type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

var csvHeader = []string{
	"date", "category", "usage", "requests", "cost",
	"input_tokens", "output_tokens", "cost_per_request", "cost_per_unit",
}

func (f *CSVFormatter) Format(report *Report) error {
	w := csv.NewWriter(f.w)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, record := range report.Records {
		row := []string{
			record.DayKey(),
			record.Category,
			formatValue(record.Usage),
			formatValue(record.Requests),
			formatValue(record.Cost),
			formatValue(record.InputTokens),
			formatValue(record.OutputTokens),
			formatValue(record.CostPerRequest),
			formatValue(record.CostPerUnit),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
