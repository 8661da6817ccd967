package util

import (
	"fmt"
	"strings"
)

// FormatAmount renders a usage quantity compactly (1.2K, 3.4M).
// Whole values below 1000 print without a decimal part.
func FormatAmount(n float64) string {
	if n < 0 {
		return "-" + FormatAmount(-n)
	}
	switch {
	case n < 1000:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%.2f", n)
	case n < 1000000:
		return fmt.Sprintf("%.1fK", n/1000)
	default:
		return fmt.Sprintf("%.1fM", n/1000000)
	}
}

// FormatCurrency formats an amount with two decimals and comma separators.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	if len(intPart) > 3 {
		var groups []string
		for len(intPart) > 3 {
			groups = append([]string{intPart[len(intPart)-3:]}, groups...)
			intPart = intPart[:len(intPart)-3]
		}
		groups = append([]string{intPart}, groups...)
		intPart = strings.Join(groups, ",")
	}

	result := intPart + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}
