// Package paramschema defines the declarative schema for repeatable
// option-group parameters: the field vocabulary, the option groups a user can
// instantiate, and the parameter-level type options controlling multiplicity,
// sortability, and optional fields. Schemas are immutable inputs supplied by
// the caller; the collection engine only reads them.
package paramschema

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString          FieldType = "string"
	FieldTypeNumber          FieldType = "number"
	FieldTypeBoolean         FieldType = "boolean"
	FieldTypeOptions         FieldType = "options"
	FieldTypeFixedCollection FieldType = "fixed-collection"
)

// DisplayOptions carries the conditional visibility rules of a field. Show is
// a conjunctive whitelist over sibling values, Hide a disjunctive blacklist
// that overrides a passing Show. Keys starting with MetaPrefix denote
// meta-conditions (version or feature gates) the engine treats as satisfied.
type DisplayOptions struct {
	Show map[string][]any `json:"show,omitempty" yaml:"show,omitempty"`
	Hide map[string][]any `json:"hide,omitempty" yaml:"hide,omitempty"`
}

// MetaPrefix marks show/hide keys whose evaluation is deferred to the caller.
const MetaPrefix = "@"

// FieldOptions tunes how a single field behaves.
type FieldOptions struct {
	MultipleValues bool `json:"multipleValues,omitempty" yaml:"multipleValues,omitempty"`
	Sortable       bool `json:"sortable,omitempty" yaml:"sortable,omitempty"`
}

// FieldSchema models one input inside an option group. Fields of type
// fixed-collection carry their own Options slice and compose recursively.
type FieldSchema struct {
	Name           string            `json:"name" yaml:"name"`
	DisplayName    string            `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Type           FieldType         `json:"type,omitempty" yaml:"type,omitempty"`
	Default        any               `json:"default,omitempty" yaml:"default,omitempty"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder    string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Widget         string            `json:"widget,omitempty" yaml:"widget,omitempty"`
	Enum           []any             `json:"enum,omitempty" yaml:"enum,omitempty"`
	DisplayOptions *DisplayOptions   `json:"displayOptions,omitempty" yaml:"displayOptions,omitempty"`
	TypeOptions    *FieldOptions     `json:"typeOptions,omitempty" yaml:"typeOptions,omitempty"`
	Options        []OptionGroup     `json:"options,omitempty" yaml:"options,omitempty"`
}

// MultipleValues reports whether the field collects a sequence of values.
func (f FieldSchema) MultipleValues() bool {
	return f.TypeOptions != nil && f.TypeOptions.MultipleValues
}

// FixedCollection reports whether the field is itself a nested repeatable
// option-group parameter.
func (f FieldSchema) FixedCollection() bool {
	return f.Type == FieldTypeFixedCollection
}

// Conditional reports whether the field declares any show/hide rules.
func (f FieldSchema) Conditional() bool {
	return f.DisplayOptions != nil &&
		(len(f.DisplayOptions.Show) > 0 || len(f.DisplayOptions.Hide) > 0)
}

// OptionGroup is one selectable, named bundle of fields that can be
// instantiated once or repeatedly within the parameter.
type OptionGroup struct {
	Name        string        `json:"name" yaml:"name"`
	DisplayName string        `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Values      []FieldSchema `json:"values" yaml:"values"`
}

// Field returns the field schema with the given name.
func (g OptionGroup) Field(name string) (FieldSchema, bool) {
	for _, field := range g.Values {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSchema{}, false
}

// TypeOptions tunes parameter-level behaviour: whether option groups can be
// instantiated repeatedly, whether repeated items can be reordered, and which
// field names are hidden behind an explicit "add" action.
type TypeOptions struct {
	MultipleValues bool     `json:"multipleValues,omitempty" yaml:"multipleValues,omitempty"`
	Sortable       bool     `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	OptionalFields []string `json:"optionalFields,omitempty" yaml:"optionalFields,omitempty"`
}

// Parameter is the declared set of option groups one collection parameter
// offers, plus its type options.
type Parameter struct {
	Name        string        `json:"name" yaml:"name"`
	DisplayName string        `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Options     []OptionGroup `json:"options" yaml:"options"`
	TypeOptions *TypeOptions  `json:"typeOptions,omitempty" yaml:"typeOptions,omitempty"`
}

// OptionGroup resolves a declared option group by name. Absent names are a
// normal condition: the value tree may reference options no longer declared
// by a schema revision, so callers render nothing instead of failing.
func (p Parameter) OptionGroup(name string) (OptionGroup, bool) {
	for _, group := range p.Options {
		if group.Name == name {
			return group, true
		}
	}
	return OptionGroup{}, false
}

// MultipleValues reports whether option groups may be instantiated repeatedly.
func (p Parameter) MultipleValues() bool {
	return p.TypeOptions != nil && p.TypeOptions.MultipleValues
}

// Sortable reports whether repeated items may be reordered.
func (p Parameter) Sortable() bool {
	return p.TypeOptions != nil && p.TypeOptions.Sortable
}

// IsOptionalField reports whether the named field is hidden behind the
// explicit "add option" action. A field is never both mandatory and optional;
// membership here decides it.
func (p Parameter) IsOptionalField(name string) bool {
	if p.TypeOptions == nil {
		return false
	}
	for _, candidate := range p.TypeOptions.OptionalFields {
		if candidate == name {
			return true
		}
	}
	return false
}
