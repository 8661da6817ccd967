package resolver

import (
	"strings"

	"github.com/usagelens/usagelens/internal/config"
	"github.com/usagelens/usagelens/internal/core/model"
)

// Field names a canonical record field the resolver can look up.
type Field string

const (
	FieldDate         Field = "date"
	FieldCategory     Field = "category"
	FieldUsage        Field = "usage"
	FieldRequests     Field = "requests"
	FieldCost         Field = "cost"
	FieldInputTokens  Field = "inputTokens"
	FieldOutputTokens Field = "outputTokens"
)

// Resolver maps raw rows to canonical field values through ordered
// column-name alias lists. Alias lists are data (see config.FieldAliases),
// not conditional chains.
type Resolver struct {
	aliases map[Field][]string
}

// New creates a Resolver from an alias table.
func New(fields config.FieldAliases) *Resolver {
	return &Resolver{
		aliases: map[Field][]string{
			FieldDate:         fields.Date,
			FieldCategory:     fields.Category,
			FieldUsage:        fields.Usage,
			FieldRequests:     fields.Requests,
			FieldCost:         fields.Cost,
			FieldInputTokens:  fields.InputTokens,
			FieldOutputTokens: fields.OutputTokens,
		},
	}
}

// Resolve returns the first provided value among the field's aliases,
// checked in order. A value counts as provided when the column exists
// and the cell is neither nil nor blank; numeric zero is provided and
// does not fall through to later aliases.
func (r *Resolver) Resolve(row model.RawRow, field Field) (any, bool) {
	for _, name := range r.aliases[field] {
		value, exists := row[name]
		if !exists {
			continue
		}
		if provided(value) {
			return value, true
		}
	}
	return nil, false
}

// ResolveString resolves a field and renders it as a trimmed string.
func (r *Resolver) ResolveString(row model.RawRow, field Field) (string, bool) {
	value, ok := r.Resolve(row, field)
	if !ok {
		return "", false
	}
	if s, isString := value.(string); isString {
		return strings.TrimSpace(s), true
	}
	return "", false
}

// provided distinguishes an empty cell from a real value. Blank strings
// are absent; everything else, including 0, is present.
func provided(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	default:
		return true
	}
}
