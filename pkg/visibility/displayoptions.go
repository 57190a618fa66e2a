package visibility

import (
	"reflect"
	"strings"

	"github.com/goliatone/go-formstate/pkg/paramschema"
)

// New returns the default evaluator interpreting the show/hide rules declared
// in a field's display options. A field with no rules is visible. Show rules
// form a conjunctive whitelist: every declared key must match one of its
// allowed values. Hide rules form a disjunctive blacklist: any matching key
// hides the field, overriding a passing show. Keys carrying the reserved meta
// prefix are treated as satisfied; their vocabulary belongs to the caller.
func New() Evaluator {
	return EvaluatorFunc(visible)
}

func visible(field paramschema.FieldSchema, ctx Context) bool {
	opts := field.DisplayOptions
	if opts == nil {
		return true
	}

	for key, blocked := range opts.Hide {
		if metaKey(key) {
			continue
		}
		if matches(ctx.Siblings[key], blocked) {
			return false
		}
	}

	for key, allowed := range opts.Show {
		if metaKey(key) {
			continue
		}
		if !matches(ctx.Siblings[key], allowed) {
			return false
		}
	}

	return true
}

func metaKey(key string) bool {
	return strings.HasPrefix(key, paramschema.MetaPrefix)
}

// matches reports whether the sibling value is a member of the rule set. A
// slice-valued sibling matches when any of its elements does.
func matches(value any, set []any) bool {
	if list, ok := value.([]any); ok {
		for _, entry := range list {
			if matches(entry, set) {
				return true
			}
		}
		return false
	}
	for _, candidate := range set {
		if equal(value, candidate) {
			return true
		}
	}
	return false
}

// equal compares rule and sibling values, normalising numeric types first:
// JSON decoding yields float64 while YAML and callers produce ints, and the
// two must compare equal.
func equal(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	if !comparableValue(a) || !comparableValue(b) {
		return false
	}
	return a == b
}

// comparableValue reports whether == is defined for the value's dynamic type.
// Schema files can declare structured rule entries (maps, slices); those never
// match a sibling, and comparing them with == would panic.
func comparableValue(v any) bool {
	return v == nil || reflect.TypeOf(v).Comparable()
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
