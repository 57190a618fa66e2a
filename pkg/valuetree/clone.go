package valuetree

// Clone deep-copies a value-tree fragment. Maps and slices are copied
// recursively; scalars are returned as-is. Schema defaults must never be
// aliased into a working tree, so every instantiation path goes through here.
func Clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, entry := range v {
			out[key] = Clone(entry)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, entry := range v {
			out[i] = Clone(entry)
		}
		return out
	case []Item:
		out := make([]Item, len(v))
		for i, entry := range v {
			out[i] = CloneItem(entry)
		}
		return out
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	default:
		return value
	}
}

// CloneItem deep-copies a single item.
func CloneItem(item Item) Item {
	if item == nil {
		return nil
	}
	out := make(Item, len(item))
	for key, value := range item {
		out[key] = Clone(value)
	}
	return out
}

// CloneTree deep-copies an entire value tree.
func CloneTree(tree Tree) Tree {
	if tree == nil {
		return Tree{}
	}
	out := make(Tree, len(tree))
	for key, value := range tree {
		out[key] = Clone(value)
	}
	return out
}
