package collection

import (
	"github.com/goliatone/go-formstate/pkg/paramschema"
	"github.com/goliatone/go-formstate/pkg/valuetree"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Engine owns the view-local state of one collection parameter: a private
// working copy of the value-tree slice, plus per-item optional-field state.
// Mutating operations update the working copy and return the intent the
// caller must apply to its authoritative document; on a read-only engine they
// are no-ops. Operations referencing unknown groups or absent items are also
// no-ops, never errors.
type Engine struct {
	param    paramschema.Parameter
	basePath string
	readOnly bool
	eval     visibility.Evaluator

	tree     valuetree.Tree
	optional map[stateKey]map[string]struct{}
}

// Option configures an Engine before first use.
type Option func(*Engine)

// WithBasePath sets the document path the managed slice lives under. Emitted
// intent paths are rooted here.
func WithBasePath(path string) Option {
	return func(e *Engine) {
		e.basePath = path
	}
}

// WithValues seeds the working copy from the caller's current value tree. The
// tree is deep-copied; the caller keeps ownership of its own copy.
func WithValues(tree valuetree.Tree) Option {
	return func(e *Engine) {
		e.Replace(tree)
	}
}

// WithEvaluator overrides the default show/hide rule evaluator.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(e *Engine) {
		if eval != nil {
			e.eval = eval
		}
	}
}

// WithReadOnly suppresses all mutation operations while leaving inspection
// available.
func WithReadOnly(readOnly bool) Option {
	return func(e *Engine) {
		e.readOnly = readOnly
	}
}

// New constructs an engine for one collection parameter. The parameter schema
// is treated as immutable for the engine's lifetime.
func New(param paramschema.Parameter, options ...Option) *Engine {
	e := &Engine{
		param:    param,
		eval:     visibility.New(),
		tree:     valuetree.Tree{},
		optional: make(map[stateKey]map[string]struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Parameter returns the schema the engine was built with.
func (e *Engine) Parameter() paramschema.Parameter {
	return e.param
}

// BasePath returns the document path the managed slice lives under.
func (e *Engine) BasePath() string {
	return e.basePath
}

// ReadOnly reports whether mutation operations are suppressed.
func (e *Engine) ReadOnly() bool {
	return e.readOnly
}

// Values returns a deep copy of the working tree. Mutating the result never
// affects engine state.
func (e *Engine) Values() valuetree.Tree {
	return valuetree.CloneTree(e.tree)
}

// Replace swaps the entire working copy for a deep copy of the incoming tree.
// Externally pushed replacements (undo/redo, structural resets) must come
// through here; the engine never merges incrementally, so the displayed state
// cannot silently diverge from the authoritative document. Optional-field
// state is re-derived from the incoming values to keep the two consistent.
func (e *Engine) Replace(tree valuetree.Tree) {
	e.tree = valuetree.CloneTree(tree)
	e.optional = make(map[stateKey]map[string]struct{})

	for _, group := range e.param.Options {
		if _, ok := e.tree[group.Name]; !ok {
			continue
		}
		if e.param.MultipleValues() {
			for index, item := range valuetree.Items(e.tree, group.Name) {
				e.rederiveOptional(group, item, index)
			}
			continue
		}
		if item, ok := e.tree[group.Name].(valuetree.Item); ok {
			e.rederiveOptional(group, item, -1)
		}
	}
}

func (e *Engine) rederiveOptional(group paramschema.OptionGroup, item valuetree.Item, index int) {
	for _, field := range group.Values {
		if !e.param.IsOptionalField(field.Name) {
			continue
		}
		if _, present := item[field.Name]; present {
			e.markOptional(group.Name, field.Name, index)
		}
	}
}

// AddableGroups returns the option groups currently offerable in the "add"
// selector: all of them when the parameter allows multiple values, otherwise
// only groups not yet instantiated.
func (e *Engine) AddableGroups() []paramschema.OptionGroup {
	if e.param.MultipleValues() {
		return append([]paramschema.OptionGroup(nil), e.param.Options...)
	}
	groups := make([]paramschema.OptionGroup, 0, len(e.param.Options))
	for _, group := range e.param.Options {
		if _, instantiated := e.tree[group.Name]; !instantiated {
			groups = append(groups, group)
		}
	}
	return groups
}

// AddItem instantiates a new item for the named option group with its default
// values. Multi-valued parameters append to the group's sequence; single
// occurrence parameters assign the item directly. The returned intent carries
// the full updated value at the group path. Unknown group names are no-ops.
func (e *Engine) AddItem(name string) (Intent, bool) {
	if e.readOnly {
		return Intent{}, false
	}
	group, ok := e.param.OptionGroup(name)
	if !ok {
		return Intent{}, false
	}

	item := Defaults(group, e.param.IsOptionalField)
	if e.param.MultipleValues() {
		items := append(valuetree.Items(e.tree, name), item)
		e.tree[name] = items
	} else {
		e.tree[name] = item
	}

	return Intent{
		Path:  valuetree.Join(e.basePath, name),
		Value: valuetree.Clone(e.tree[name]),
		Kind:  IntentSet,
	}, true
}

// DeleteItem removes one item of a multi-valued group, or the whole group
// key when the group is single-valued or down to its last item. The whole-key
// path keeps the form from showing an empty, headerless collection with no
// way to re-add it through its selector. Deleting from an absent group is a
// no-op.
func (e *Engine) DeleteItem(name string, index int) (Intent, bool) {
	if e.readOnly {
		return Intent{}, false
	}
	if _, instantiated := e.tree[name]; !instantiated {
		return Intent{}, false
	}

	if e.param.MultipleValues() {
		items := valuetree.Items(e.tree, name)
		if index < 0 || index >= len(items) {
			return Intent{}, false
		}
		if len(items) > 1 {
			e.tree[name] = append(items[:index:index], items[index+1:]...)
			e.shiftOptional(name, index)
			return Intent{
				Path:  valuetree.Indexed(e.basePath, name, index),
				Value: Unset,
				Kind:  IntentSet,
			}, true
		}
	}

	delete(e.tree, name)
	e.dropOptional(name)
	return Intent{
		Path:  valuetree.Join(e.basePath, name),
		Value: Unset,
		Kind:  IntentSet,
	}, true
}

// Reorder replaces the group's sequence with the supplied order, as produced
// by a drag interaction. The intent is tagged as a reorder so the caller
// applies it as a structural replace rather than a merge. The new sequence
// must contain the same number of items as the current one.
func (e *Engine) Reorder(name string, items []valuetree.Item) (Intent, bool) {
	if e.readOnly || !e.param.MultipleValues() {
		return Intent{}, false
	}
	current := valuetree.Items(e.tree, name)
	if len(current) == 0 || len(items) != len(current) {
		return Intent{}, false
	}

	reordered := make([]valuetree.Item, len(items))
	for i, item := range items {
		reordered[i] = valuetree.CloneItem(item)
	}
	e.tree[name] = reordered

	return Intent{
		Path:  valuetree.Join(e.basePath, name),
		Value: valuetree.Clone(e.tree[name]),
		Kind:  IntentReorder,
	}, true
}

// SetField records a leaf-field edit against the working copy and returns the
// matching intent. Index is ignored for single-occurrence parameters (pass
// -1). Passing Unset clears the field. Edits against absent items are no-ops.
// Optional-field tracking follows the edit: setting an optional field marks it
// added, clearing one untracks it, so a value is never present while the field
// reads as not added.
func (e *Engine) SetField(name, field string, index int, value any) (Intent, bool) {
	if e.readOnly {
		return Intent{}, false
	}
	item, ok := e.item(name, index)
	if !ok {
		return Intent{}, false
	}

	if IsUnset(value) {
		delete(item, field)
		if e.param.IsOptionalField(field) {
			e.unmarkOptional(name, field, index)
		}
	} else {
		item[field] = valuetree.Clone(value)
		if e.param.IsOptionalField(field) {
			e.markOptional(name, field, index)
		}
	}

	if !e.param.MultipleValues() {
		index = -1
	}
	return Intent{
		Path:  valuetree.Field(e.basePath, name, field, index),
		Value: valuetree.Clone(value),
		Kind:  IntentSet,
	}, true
}

// item resolves the working-copy item targeted by a group name and index.
func (e *Engine) item(name string, index int) (valuetree.Item, bool) {
	if e.param.MultipleValues() {
		items := valuetree.Items(e.tree, name)
		if index < 0 || index >= len(items) {
			return nil, false
		}
		return items[index], true
	}
	item, ok := e.tree[name].(valuetree.Item)
	return item, ok
}
