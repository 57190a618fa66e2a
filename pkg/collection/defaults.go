package collection

import (
	"github.com/goliatone/go-formstate/pkg/paramschema"
	"github.com/goliatone/go-formstate/pkg/valuetree"
)

// Defaults produces the initial item for a newly added option group. Only
// mandatory fields are seeded; optional fields (per isOptional) stay absent
// until explicitly toggled on. Every default is deep-copied so the result
// never aliases schema-declared values.
func Defaults(group paramschema.OptionGroup, isOptional func(string) bool) valuetree.Item {
	item := make(valuetree.Item, len(group.Values))
	for _, field := range group.Values {
		if isOptional != nil && isOptional(field.Name) {
			continue
		}
		item[field.Name] = defaultValue(field)
	}
	return item
}

func defaultValue(field paramschema.FieldSchema) any {
	switch {
	case field.FixedCollection() && field.MultipleValues():
		// Nested repeatable groups start empty and are populated lazily when
		// the user adds their own items.
		return map[string]any{}
	case field.MultipleValues():
		return multiDefault(field.Default)
	default:
		return valuetree.Clone(field.Default)
	}
}

// multiDefault seeds a multi-value field: an array default is copied in
// wholesale, a non-empty scalar becomes the sole element, anything else
// leaves the array empty.
func multiDefault(value any) []any {
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		return valuetree.Clone(v).([]any)
	case map[string]any:
		return []any{}
	case string:
		if v == "" {
			return []any{}
		}
		return []any{v}
	default:
		return []any{valuetree.Clone(v)}
	}
}
