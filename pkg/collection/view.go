package collection

import (
	"github.com/goliatone/go-formstate/pkg/paramschema"
	"github.com/goliatone/go-formstate/pkg/valuetree"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// View is a render-ready snapshot of the engine's derived state. Everything
// it carries is deep-copied; renderers and leaf-field controls can hold onto
// it without aliasing the working copy.
type View struct {
	Parameter paramschema.Parameter
	BasePath  string
	ReadOnly  bool
	Groups    []GroupView
	Addable   []paramschema.OptionGroup
}

// GroupView is one instantiated option group with its ordered items.
type GroupView struct {
	Group    paramschema.OptionGroup
	Path     string
	Multiple bool
	Sortable bool
	Items    []ItemView
}

// ItemView is one instantiated item: its current values, the fields currently
// rendered for it, and the optional fields still offerable in its "add
// option" selector. Index is -1 for single-occurrence groups.
type ItemView struct {
	Index     int
	Path      string
	Values    valuetree.Item
	Fields    []paramschema.FieldSchema
	Offerable []paramschema.FieldSchema
}

// View derives the current snapshot. Groups appear in schema declaration
// order; value-tree keys with no matching option group are tolerated but
// never rendered.
func (e *Engine) View() View {
	view := View{
		Parameter: e.param,
		BasePath:  e.basePath,
		ReadOnly:  e.readOnly,
		Addable:   e.AddableGroups(),
	}

	for _, group := range e.param.Options {
		if _, instantiated := e.tree[group.Name]; !instantiated {
			continue
		}

		gv := GroupView{
			Group:    group,
			Path:     valuetree.Join(e.basePath, group.Name),
			Multiple: e.param.MultipleValues(),
			Sortable: e.param.Sortable(),
		}

		if e.param.MultipleValues() {
			for index, item := range valuetree.Items(e.tree, group.Name) {
				gv.Items = append(gv.Items, e.itemView(group, item, index))
			}
		} else if item, ok := e.tree[group.Name].(valuetree.Item); ok {
			gv.Items = append(gv.Items, e.itemView(group, item, -1))
		}

		view.Groups = append(view.Groups, gv)
	}

	return view
}

func (e *Engine) itemView(group paramschema.OptionGroup, item valuetree.Item, index int) ItemView {
	path := valuetree.Join(e.basePath, group.Name)
	if index >= 0 {
		path = valuetree.Indexed(e.basePath, group.Name, index)
	}
	return ItemView{
		Index:     index,
		Path:      path,
		Values:    valuetree.CloneItem(item),
		Fields:    e.visibleFields(group, item, index),
		Offerable: e.offerableFields(group, item, index),
	}
}

// VisibleFields returns the ordered fields currently rendered for an item:
// mandatory fields plus explicitly added optional fields, each passing its
// own show/hide rules against the item's sibling values.
func (e *Engine) VisibleFields(group string, index int) []paramschema.FieldSchema {
	schema, ok := e.param.OptionGroup(group)
	if !ok {
		return nil
	}
	item, ok := e.item(group, index)
	if !ok {
		return nil
	}
	return e.visibleFields(schema, item, index)
}

func (e *Engine) visibleFields(group paramschema.OptionGroup, item valuetree.Item, index int) []paramschema.FieldSchema {
	ctx := visibility.Context{Siblings: item}
	var fields []paramschema.FieldSchema
	for _, field := range group.Values {
		if e.param.IsOptionalField(field.Name) && !e.OptionalFieldAdded(group.Name, field.Name, index) {
			continue
		}
		if !e.eval.Visible(field, ctx) {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

// OfferableOptionalFields returns the ordered optional fields currently
// eligible for an item's "add option" selector: not yet added, and whose
// conditional rules pass against the item's present sibling values.
func (e *Engine) OfferableOptionalFields(group string, index int) []paramschema.FieldSchema {
	schema, ok := e.param.OptionGroup(group)
	if !ok {
		return nil
	}
	item, ok := e.item(group, index)
	if !ok {
		return nil
	}
	return e.offerableFields(schema, item, index)
}

func (e *Engine) offerableFields(group paramschema.OptionGroup, item valuetree.Item, index int) []paramschema.FieldSchema {
	ctx := visibility.Context{Siblings: item}
	var fields []paramschema.FieldSchema
	for _, field := range group.Values {
		if !e.param.IsOptionalField(field.Name) {
			continue
		}
		if e.OptionalFieldAdded(group.Name, field.Name, index) {
			continue
		}
		if !e.eval.Visible(field, ctx) {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}
