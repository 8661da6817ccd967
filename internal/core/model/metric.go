package model

// Metric selects which measure of a record a chart or series reports.
type Metric string

const (
	MetricUsage    Metric = "usage"
	MetricRequests Metric = "requests"
	MetricCost     Metric = "cost"
)

// ParseMetric maps a user-supplied string to a Metric, defaulting to
// usage for anything unrecognized.
func ParseMetric(s string) Metric {
	switch Metric(s) {
	case MetricRequests:
		return MetricRequests
	case MetricCost:
		return MetricCost
	default:
		return MetricUsage
	}
}

// Of extracts the metric's value from a record.
func (m Metric) Of(r Record) float64 {
	switch m {
	case MetricRequests:
		return r.Requests
	case MetricCost:
		return r.Cost
	default:
		return r.Usage
	}
}
