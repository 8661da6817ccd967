package analyzer

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/usagelens/usagelens/internal/config"
	"github.com/usagelens/usagelens/internal/core/model"
	"github.com/usagelens/usagelens/internal/data/aggregator"
	"github.com/usagelens/usagelens/internal/data/builder"
	"github.com/usagelens/usagelens/internal/data/filter"
	"github.com/usagelens/usagelens/internal/data/parser"
	"github.com/usagelens/usagelens/internal/data/scanner"
	"github.com/usagelens/usagelens/internal/presentation/formatter"
	"github.com/usagelens/usagelens/internal/util"
)

type Config struct {
	InputPath    string
	OutputFormat string
	GroupBy      string
	Granularity  string
	From         string
	To           string
	Categories   []string
	Metric       string
	AliasesPath  string
	Output       io.Writer
}

type Analyzer struct {
	config  *Config
	scanner *scanner.Scanner
	builder *builder.Builder
}

func New(cfg *Config) (*Analyzer, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	aliases, err := config.LoadAliases(cfg.AliasesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}

	return &Analyzer{
		config:  cfg,
		scanner: scanner.New(),
		builder: builder.New(aliases, nil),
	}, nil
}

func (a *Analyzer) Run() error {
	report, err := a.Process()
	if err != nil {
		return err
	}
	return a.formatAndOutput(report)
}

// Process runs the pipeline up to (but not including) output: scan,
// build, filter, aggregate. The returned report carries every view the
// formatters consume.
func (a *Analyzer) Process() (*formatter.Report, error) {
	startTime := time.Now()
	util.LogInfo(fmt.Sprintf("Starting analysis of %s", a.config.InputPath))

	// Phase 1: Decode raw rows
	scanStart := time.Now()
	rows, err := a.scanner.Read(a.config.InputPath)
	if err != nil {
		return nil, err
	}
	scanDuration := time.Since(scanStart)
	util.LogDebug(fmt.Sprintf("Phase 1 - Scan duration: %v, %d rows", scanDuration, len(rows)))

	// Phase 2: Normalize rows into records
	buildStart := time.Now()
	records := a.builder.BuildAll(rows)
	buildDuration := time.Since(buildStart)
	util.LogDebug(fmt.Sprintf("Phase 2 - Build duration: %v, %d records", buildDuration, len(records)))

	if len(records) == 0 {
		return nil, fmt.Errorf("no valid records in %s", a.config.InputPath)
	}

	// Phase 3: Filter
	filterStart := time.Now()
	spec, err := a.filterSpec()
	if err != nil {
		return nil, err
	}
	filtered := filter.Apply(records, spec)
	filterDuration := time.Since(filterStart)
	util.LogDebug(fmt.Sprintf("Phase 3 - Filter duration: %v, %d records kept", filterDuration, len(filtered)))

	// Phase 4: Aggregate. The engine is owned by this run: concurrent
	// reloads must never interleave SetRecords and aggregation on
	// shared state, or a report could mix two record sets.
	aggregateStart := time.Now()
	engine := aggregator.NewEngine()
	engine.SetRecords(filtered)
	granularity := model.ParseGranularity(a.config.Granularity)
	metric := model.ParseMetric(a.config.Metric)

	report := &formatter.Report{
		GroupBy:     formatter.ParseGroupBy(a.config.GroupBy),
		Granularity: granularity,
		Stats:       aggregator.ComputeStats(filtered, len(rows)),
		TimeBuckets: engine.AggregateByTime(granularity),
		Categories:  engine.AggregateByCategory(),
		Series:      engine.AggregateSeries(granularity, metric),
		Records:     filtered,
	}
	aggregateDuration := time.Since(aggregateStart)
	util.LogDebug(fmt.Sprintf("Phase 4 - Aggregation duration: %v", aggregateDuration))

	util.LogDebug(fmt.Sprintf("Total duration: %v (scan:%v build:%v filter:%v aggregate:%v)",
		time.Since(startTime), scanDuration, buildDuration, filterDuration, aggregateDuration))

	return report, nil
}

func (a *Analyzer) filterSpec() (model.FilterSpec, error) {
	spec := model.FilterSpec{
		Categories:  a.config.Categories,
		Granularity: model.ParseGranularity(a.config.Granularity),
	}

	if a.config.From != "" || a.config.To != "" {
		from, ok := parser.ParseDate(a.config.From)
		if a.config.From != "" && !ok {
			return spec, fmt.Errorf("invalid --from date: %s", a.config.From)
		}
		to, ok := parser.ParseDate(a.config.To)
		if a.config.To != "" && !ok {
			return spec, fmt.Errorf("invalid --to date: %s", a.config.To)
		}
		if a.config.From == "" {
			from = time.Date(1900, 1, 1, 12, 0, 0, 0, time.Local)
		}
		if a.config.To == "" {
			to = time.Date(2200, 1, 1, 12, 0, 0, 0, time.Local)
		}
		spec.DateRange = &model.DateRange{Start: from, End: to}
	}

	return spec, nil
}

func (a *Analyzer) formatAndOutput(report *formatter.Report) error {
	var f formatter.Formatter
	switch a.config.OutputFormat {
	case "json":
		f = formatter.NewJSONFormatter(a.config.Output)
	case "csv":
		f = formatter.NewCSVFormatter(a.config.Output)
	case "chart":
		f = formatter.NewChartFormatter(a.config.Output)
	case "summary":
		f = formatter.NewSummaryFormatter(a.config.Output)
	default:
		f = formatter.NewTableFormatter(a.config.Output)
	}
	return f.Format(report)
}
