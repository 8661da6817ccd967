package formatter

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/usagelens/usagelens/internal/core/model"
)

// ChartDataset is one category's line in a chart payload.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartConfig is a renderer-agnostic chart description: one label per
// time bucket and one dataset per category, aligned by index.
type ChartConfig struct {
	Type     string         `json:"type"`
	Metric   string         `json:"metric"`
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartFormatter emits a ChartConfig built from the report's series
// table as indented JSON.
type ChartFormatter struct {
	w io.Writer
}

func NewChartFormatter(w io.Writer) *ChartFormatter {
	return &ChartFormatter{w: w}
}

func (f *ChartFormatter) Format(report *Report) error {
	var config *ChartConfig
	if report.GroupBy == GroupByCategory {
		config = BuildComparisonChart(report)
	} else {
		if report.Series == nil {
			return fmt.Errorf("report carries no series data")
		}
		config = BuildChartConfig(report)
	}

	data, err := sonic.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}

// BuildChartConfig flattens a series table into chart labels and
// datasets. Dataset order follows the table's category order, and every
// dataset has exactly one point per label.
func BuildChartConfig(report *Report) *ChartConfig {
	table := report.Series

	labels := make([]string, len(table.Buckets))
	for i, bucket := range table.Buckets {
		labels[i] = bucket.Key
	}

	datasets := make([]ChartDataset, 0, len(table.Categories))
	for _, category := range table.Categories {
		data := make([]float64, len(table.Buckets))
		for i, bucket := range table.Buckets {
			data[i] = bucket.Series[category]
		}
		datasets = append(datasets, ChartDataset{Label: category, Data: data})
	}

	return &ChartConfig{
		Type:     "line",
		Metric:   string(table.Metric),
		Labels:   labels,
		Datasets: datasets,
	}
}

// BuildComparisonChart renders the per-category totals as a single bar
// dataset, keeping the report's descending category order.
func BuildComparisonChart(report *Report) *ChartConfig {
	metric := model.MetricUsage
	if report.Series != nil {
		metric = report.Series.Metric
	}

	labels := make([]string, len(report.Categories))
	data := make([]float64, len(report.Categories))
	for i, bucket := range report.Categories {
		labels[i] = bucket.Category
		switch metric {
		case model.MetricRequests:
			data[i] = bucket.Requests
		case model.MetricCost:
			data[i] = bucket.Cost
		default:
			data[i] = bucket.Usage
		}
	}

	return &ChartConfig{
		Type:     "bar",
		Metric:   string(metric),
		Labels:   labels,
		Datasets: []ChartDataset{{Label: string(metric), Data: data}},
	}
}
