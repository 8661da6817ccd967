package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/usagelens/usagelens/internal/config"
	"github.com/usagelens/usagelens/internal/core/model"
)

var (
	labelPrefix = regexp.MustCompile(`(?i)^model\s*[:：]?\s*`)
	labelSuffix = regexp.MustCompile(`(?i)\s*[:：]?\s*model$`)
	// Keep letters, digits, underscore, CJK ideographs, whitespace and
	// hyphen; everything else becomes a space.
	unsafeChars = regexp.MustCompile(`[^\w\p{Han}\s-]`)
)

// NormalizeCategory cleans a raw category/model cell and canonicalizes
// known name variants through the alias table. The table is scanned in
// order with case-insensitive substring matching, so specific entries
// shadow their shorter prefixes. Unrecognized non-empty names pass
// through cleaned; empty input maps to the unknown-category sentinel.
func NormalizeCategory(value any, aliases []config.CategoryAlias) string {
	name := stringify(value)
	if name == "" {
		return model.UnknownCategory
	}

	name = labelPrefix.ReplaceAllString(name, "")
	name = labelSuffix.ReplaceAllString(name, "")
	name = strings.TrimSpace(unsafeChars.ReplaceAllString(name, " "))
	if name == "" {
		return model.UnknownCategory
	}

	lower := strings.ToLower(name)
	for _, alias := range aliases {
		if alias.Match == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(alias.Match)) {
			return alias.Canonical
		}
	}

	return name
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
