package parser

import (
	"math"
	"regexp"
	"strconv"
)

var numericStrip = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumber coerces a raw cell to a float. Native numbers pass
// through (NaN and infinities become 0); strings are stripped of
// currency symbols and thousands separators before parsing. Anything
// unparseable yields 0, never an error.
func ParseNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		return ParseNumber(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		clean := numericStrip.ReplaceAllString(v, "")
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	return 0
}
