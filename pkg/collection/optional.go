package collection

import (
	"github.com/goliatone/go-formstate/pkg/paramschema"
	"github.com/goliatone/go-formstate/pkg/valuetree"
)

// stateKey is the synthesized composite key optional-field state is tracked
// under. Index is -1 for single-occurrence groups. Keeping this an explicit
// map key makes cleanup on item deletion an auditable step.
type stateKey struct {
	group string
	index int
}

func (e *Engine) key(group string, index int) stateKey {
	if !e.param.MultipleValues() {
		index = -1
	}
	return stateKey{group: group, index: index}
}

// OptionalFieldAdded reports whether the named optional field has been
// explicitly toggled on for the targeted item.
func (e *Engine) OptionalFieldAdded(group, field string, index int) bool {
	set, ok := e.optional[e.key(group, index)]
	if !ok {
		return false
	}
	_, added := set[field]
	return added
}

// AddOptionalField toggles an optional field on for the targeted item,
// seeding its value with a deep copy of the schema default. Fields that are
// unknown, not declared optional, already added, or targeting an absent item
// are no-ops.
func (e *Engine) AddOptionalField(group, field string, index int) (Intent, bool) {
	if e.readOnly || !e.param.IsOptionalField(field) {
		return Intent{}, false
	}
	schema, ok := e.fieldSchema(group, field)
	if !ok {
		return Intent{}, false
	}
	item, ok := e.item(group, index)
	if !ok {
		return Intent{}, false
	}
	if e.OptionalFieldAdded(group, field, index) {
		return Intent{}, false
	}

	e.markOptional(group, field, index)
	value := valuetree.Clone(schema.Default)
	item[field] = value

	if !e.param.MultipleValues() {
		index = -1
	}
	return Intent{
		Path:  valuetree.Field(e.basePath, group, field, index),
		Value: valuetree.Clone(value),
		Kind:  IntentSet,
	}, true
}

// RemoveOptionalField toggles an optional field off, clearing its value so
// the caller prunes it from the document.
func (e *Engine) RemoveOptionalField(group, field string, index int) (Intent, bool) {
	if e.readOnly {
		return Intent{}, false
	}
	if !e.OptionalFieldAdded(group, field, index) {
		return Intent{}, false
	}

	e.unmarkOptional(group, field, index)
	if item, ok := e.item(group, index); ok {
		delete(item, field)
	}

	if !e.param.MultipleValues() {
		index = -1
	}
	return Intent{
		Path:  valuetree.Field(e.basePath, group, field, index),
		Value: Unset,
		Kind:  IntentSet,
	}, true
}

// ToggleOptionalField removes the field if currently added, else adds it.
func (e *Engine) ToggleOptionalField(group, field string, index int) (Intent, bool) {
	if e.OptionalFieldAdded(group, field, index) {
		return e.RemoveOptionalField(group, field, index)
	}
	return e.AddOptionalField(group, field, index)
}

func (e *Engine) unmarkOptional(group, field string, index int) {
	key := e.key(group, index)
	delete(e.optional[key], field)
	if len(e.optional[key]) == 0 {
		delete(e.optional, key)
	}
}

func (e *Engine) markOptional(group, field string, index int) {
	key := e.key(group, index)
	set, ok := e.optional[key]
	if !ok {
		set = make(map[string]struct{})
		e.optional[key] = set
	}
	set[field] = struct{}{}
}

// dropOptional clears all tracked state for a group, any index.
func (e *Engine) dropOptional(group string) {
	for key := range e.optional {
		if key.group == group {
			delete(e.optional, key)
		}
	}
}

// shiftOptional drops the state entry for a removed item index and shifts
// higher-indexed entries down so state stays aligned with the sequence.
func (e *Engine) shiftOptional(group string, removed int) {
	shifted := make(map[stateKey]map[string]struct{}, len(e.optional))
	for key, set := range e.optional {
		if key.group != group || key.index < removed {
			shifted[key] = set
			continue
		}
		if key.index == removed {
			continue
		}
		shifted[stateKey{group: group, index: key.index - 1}] = set
	}
	e.optional = shifted
}

func (e *Engine) fieldSchema(group, field string) (paramschema.FieldSchema, bool) {
	schema, ok := e.param.OptionGroup(group)
	if !ok {
		return paramschema.FieldSchema{}, false
	}
	return schema.Field(field)
}
