package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serial dates: day 1 corresponds to 1899-12-31, and the
// convention's historical leap-year defect is reproduced for
// compatibility, so serial N lands on epoch + (N - 2) days.
const serialEpochOffset = 2

// Serials outside this window are treated as invalid rather than mapped
// to absurd years; it also keeps digit strings like "20240101" from
// being read as serials.
const maxSerial = 100000

var (
	ymdPattern = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	dmyPattern = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})`)
	cjkPattern = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
	digitsOnly = regexp.MustCompile(`^\d+$`)
)

var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006.01.02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate normalizes a raw date cell to a calendar day pinned at noon
// local time, which keeps day bucketing and range comparisons immune to
// timezone and DST shifts. Accepts spreadsheet serial numbers, several
// string layouts, and a free-text "<date> ~ <date>" range (start date
// only). Returns false for anything unparseable.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return atNoon(v.Year(), int(v.Month()), v.Day())
	case float64:
		return fromSerial(int(v))
	case int:
		return fromSerial(v)
	case string:
		return parseDateString(v)
	}
	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Free-text range: only the start date matters.
	if idx := strings.Index(s, "~"); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
		if s == "" {
			return time.Time{}, false
		}
	}

	if digitsOnly.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, false
		}
		return fromSerial(n)
	}

	if m := ymdPattern.FindStringSubmatch(s); m != nil {
		return atNoon(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := dmyPattern.FindStringSubmatch(s); m != nil {
		return atNoon(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := cjkPattern.FindStringSubmatch(s); m != nil {
		return atNoon(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return atNoon(t.Year(), int(t.Month()), t.Day())
		}
	}

	return time.Time{}, false
}

func fromSerial(n int) (time.Time, bool) {
	if n <= 0 || n > maxSerial {
		return time.Time{}, false
	}
	epoch := time.Date(1899, 12, 31, 12, 0, 0, 0, time.Local)
	return epoch.AddDate(0, 0, n-serialEpochOffset), true
}

// atNoon builds the noon-pinned day, rejecting components that do not
// name a real calendar date.
func atNoon(year, month, day int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.Local)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
