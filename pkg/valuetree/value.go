// Package valuetree defines the mutable value model a collection engine
// operates on: a tree mapping option-group names to instantiated items, the
// dotted/indexed path grammar used to address slots inside a parent document,
// and the deep-copy helpers that keep engine-owned working copies independent
// from caller-owned authoritative values.
package valuetree

// Item holds the values of one instantiated option group, keyed by field
// name. Values are scalars, nested maps, or nested ordered slices.
type Item = map[string]any

// Tree maps option-group names to either a single Item (single-occurrence
// groups) or a []Item (multi-valued groups). A key present in the tree means
// the group is instantiated in the form.
type Tree = map[string]any

// Items normalises the value stored under a group key into an item slice.
// Single items come back as a one-element slice; absent or foreign-shaped
// values come back empty. The returned slice shares the underlying items.
func Items(tree Tree, group string) []Item {
	raw, ok := tree[group]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []Item:
		return v
	case []any:
		items := make([]Item, 0, len(v))
		for _, entry := range v {
			if item, ok := entry.(Item); ok {
				items = append(items, item)
			}
		}
		return items
	case Item:
		return []Item{v}
	default:
		return nil
	}
}
