// Package collection implements the state engine for repeatable option-group
// parameters. An Engine owns a private working copy of the value-tree slice
// it manages, derives which option groups are instantiated and which fields
// are visible or offerable, and turns user actions (add, delete, reorder,
// toggle optional field, edit) into path-addressed intents the caller applies
// to its authoritative document. The engine never mutates caller-owned state.
package collection

// IntentKind distinguishes ordinary value edits from structural reorders so
// the caller can apply the latter as a replace instead of a merge.
type IntentKind string

const (
	IntentSet     IntentKind = "set"
	IntentReorder IntentKind = "reorder"
)

// Intent is a single mutation message: the document path to touch and the new
// value to place there. A value of Unset asks the caller to prune the path.
type Intent struct {
	Path  string
	Value any
	Kind  IntentKind
}

type unset struct{}

func (unset) String() string { return "<unset>" }

// Unset is the absent-value sentinel carried by intents that clear a path.
var Unset any = unset{}

// IsUnset reports whether an intent value is the absent sentinel.
func IsUnset(value any) bool {
	_, ok := value.(unset)
	return ok
}
