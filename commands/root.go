package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/usagelens/usagelens/internal/analyzer"
	"github.com/usagelens/usagelens/internal/util"
)

var (
	// Logging related
	debug   bool
	logFile string

	// Input data
	inputPath   string
	aliasesPath string

	// Filtering and grouping
	groupBy     string
	granularity string
	fromDate    string
	toDate      string
	categories  []string

	// Output related
	outputFormat string
	metric       string
	watch        bool

	rootCmd = &cobra.Command{
		Use:   "usagelens [flags]",
		Short: "Usage and billing export analysis tool",
		Long: `usagelens normalizes spreadsheet-style usage exports and aggregates
them into per-period and per-category reports.

It understands the messy reality of billing exports: column names that
differ between vendors and languages, dates written as strings, serial
numbers, or CJK forms, and numbers wrapped in currency symbols.

Examples:
  usagelens --input export.csv                          # Daily table report
  usagelens --input export.csv --group-by category      # Totals per category
  usagelens --input export.csv -g weekly -o json        # Weekly buckets as JSON
  usagelens --input export.csv --from 2024-01-01 --to 2024-01-31
  usagelens --input export.csv -o chart --metric cost   # Chart payload
  usagelens --input export.csv -w                       # Re-run on file change`,
		RunE: runAnalyze,
	}
)

const defaultLogFile = "~/.usagelens/logs/app.log"

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "",
		"Path to the export file (CSV or JSON row dump)")
	rootCmd.Flags().StringVar(&aliasesPath, "aliases", "",
		"YAML file overriding the built-in column and category aliases")

	rootCmd.Flags().StringVar(&groupBy, "group-by", "time",
		"Primary report dimension (time, category)")
	rootCmd.Flags().StringVarP(&granularity, "granularity", "g", "daily",
		"Time bucket size (daily, weekly, monthly)")
	rootCmd.Flags().StringVar(&fromDate, "from", "",
		"Keep records on or after this date (e.g. 2024-01-01)")
	rootCmd.Flags().StringVar(&toDate, "to", "",
		"Keep records on or before this date")
	rootCmd.Flags().StringSliceVar(&categories, "category", nil,
		"Keep only these categories (repeatable)")

	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, chart, summary)")
	rootCmd.Flags().StringVar(&metric, "metric", "usage",
		"Metric for chart series (usage, requests, cost)")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false,
		"Keep running and refresh the report when the input changes")

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path")

	rootCmd.MarkFlagRequired("input")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	path := expandPath(logFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		// Console-only logging when the log directory is unusable.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: cannot create log directory %s: %v\n",
			filepath.Dir(path), err)
		path = ""
	}
	util.InitLogger(logLevel, path)

	config := &analyzer.Config{
		InputPath:    expandPath(inputPath),
		OutputFormat: outputFormat,
		GroupBy:      groupBy,
		Granularity:  granularity,
		From:         fromDate,
		To:           toDate,
		Categories:   categories,
		Metric:       metric,
		AliasesPath:  aliasesPath,
		Output:       cmd.OutOrStdout(),
	}

	a, err := analyzer.New(config)
	if err != nil {
		return err
	}

	if watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := analyzer.NewWatcher(a).Watch(ctx)
		if err == context.Canceled {
			return nil
		}
		return err
	}

	return a.Run()
}

func Execute() error {
	return rootCmd.Execute()
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
