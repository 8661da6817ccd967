package builder

import (
	"fmt"

	"github.com/usagelens/usagelens/internal/config"
	"github.com/usagelens/usagelens/internal/core/model"
	"github.com/usagelens/usagelens/internal/data/parser"
	"github.com/usagelens/usagelens/internal/data/resolver"
	"github.com/usagelens/usagelens/internal/util"
)

// Rejection reasons reported to the diagnostics sink.
const (
	ReasonInvalidDate  = "invalid date"
	ReasonInvalidUsage = "invalid usage"
)

// Diagnostics receives per-row rejection reports. A single bad row never
// halts processing; the builder skips it and continues.
type Diagnostics interface {
	RowRejected(index int, reason string)
}

// LogDiagnostics reports rejections through the structured logger.
type LogDiagnostics struct{}

func (LogDiagnostics) RowRejected(index int, reason string) {
	util.LogWarn(fmt.Sprintf("Row %d skipped: %s", index+1, reason))
}

// Builder turns raw rows into canonical records using the field
// resolver and value parsers.
type Builder struct {
	resolver   *resolver.Resolver
	categories []config.CategoryAlias
	diag       Diagnostics
}

// New creates a Builder. A nil diagnostics sink falls back to the
// logger-backed default.
func New(aliases config.Aliases, diag Diagnostics) *Builder {
	if diag == nil {
		diag = LogDiagnostics{}
	}
	return &Builder{
		resolver:   resolver.New(aliases.Fields),
		categories: aliases.Categories,
		diag:       diag,
	}
}

// Build converts one raw row into a canonical record. The second return
// is false when the row was rejected; the reason has already been
// reported to the diagnostics sink.
func (b *Builder) Build(index int, row model.RawRow) (model.Record, bool) {
	rawDate, ok := b.resolver.Resolve(row, resolver.FieldDate)
	if !ok {
		b.diag.RowRejected(index, ReasonInvalidDate)
		return model.Record{}, false
	}
	date, ok := parser.ParseDate(rawDate)
	if !ok {
		b.diag.RowRejected(index, ReasonInvalidDate)
		return model.Record{}, false
	}

	rawCategory, _ := b.resolver.Resolve(row, resolver.FieldCategory)
	category := parser.NormalizeCategory(rawCategory, b.categories)

	rawInput, inputProvided := b.resolver.Resolve(row, resolver.FieldInputTokens)
	rawOutput, outputProvided := b.resolver.Resolve(row, resolver.FieldOutputTokens)
	inputTokens := parser.ParseNumber(rawInput)
	outputTokens := parser.ParseNumber(rawOutput)

	var usage float64
	if rawUsage, usageProvided := b.resolver.Resolve(row, resolver.FieldUsage); usageProvided {
		usage = parser.ParseNumber(rawUsage)
	} else if inputProvided || outputProvided {
		// Fallback: the token split sums to the total.
		usage = inputTokens + outputTokens
	} else {
		b.diag.RowRejected(index, ReasonInvalidUsage)
		return model.Record{}, false
	}
	if usage < 0 {
		b.diag.RowRejected(index, ReasonInvalidUsage)
		return model.Record{}, false
	}

	var requests float64
	if rawRequests, provided := b.resolver.Resolve(row, resolver.FieldRequests); provided {
		requests = parser.ParseNumber(rawRequests)
	}
	var cost float64
	if rawCost, provided := b.resolver.Resolve(row, resolver.FieldCost); provided {
		cost = parser.ParseNumber(rawCost)
	}

	record := model.Record{
		Date:         date,
		Category:     category,
		Usage:        usage,
		Requests:     requests,
		Cost:         cost,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}
	if requests > 0 {
		record.CostPerRequest = cost / requests
	}
	if usage > 0 {
		record.CostPerUnit = cost / usage
	}

	return record, true
}

// BuildAll converts a full row set, skipping rejected rows.
func (b *Builder) BuildAll(rows []model.RawRow) []model.Record {
	records := make([]model.Record, 0, len(rows))
	for i, row := range rows {
		if record, ok := b.Build(i, row); ok {
			records = append(records, record)
		}
	}
	util.LogDebug(fmt.Sprintf("Built %d records from %d rows", len(records), len(rows)))
	return records
}
