// Package openapi derives collection parameter schemas from OpenAPI
// documents, so existing API definitions can seed repeatable option-group
// forms. Object-typed properties of the source schema become option groups;
// array-of-object properties mark the parameter as multi-valued.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/paramschema"
)

// ImportParameter loads an OpenAPI document and converts the named component
// schema into a collection parameter definition.
func ImportParameter(ctx context.Context, data []byte, schemaName string) (paramschema.Parameter, error) {
	if len(data) == 0 {
		return paramschema.Parameter{}, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return paramschema.Parameter{}, fmt.Errorf("openapi: load document: %w", err)
	}

	if spec.Components == nil || spec.Components.Schemas == nil {
		return paramschema.Parameter{}, fmt.Errorf("openapi: document declares no component schemas")
	}
	ref, ok := spec.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return paramschema.Parameter{}, fmt.Errorf("openapi: schema %q not found", schemaName)
	}
	root := ref.Value
	if !isType(root, openapi3.TypeObject) {
		return paramschema.Parameter{}, fmt.Errorf("openapi: schema %q is not an object", schemaName)
	}

	param := paramschema.Parameter{
		Name:        schemaName,
		DisplayName: root.Title,
	}

	var (
		multiValued    bool
		sortable       bool
		optionalFields []string
	)

	for _, propName := range sortedKeys(root.Properties) {
		propRef := root.Properties[propName]
		if propRef == nil || propRef.Value == nil {
			continue
		}
		prop := propRef.Value

		var group paramschema.OptionGroup
		switch {
		case isType(prop, openapi3.TypeObject):
			group = optionGroup(propName, prop)
		case isType(prop, openapi3.TypeArray) && prop.Items != nil && prop.Items.Value != nil && isType(prop.Items.Value, openapi3.TypeObject):
			group = optionGroup(propName, prop.Items.Value)
			multiValued = true
			sortable = true
		default:
			// Scalar properties have no sub-fields to instantiate; they belong
			// to an ordinary form, not a collection parameter.
			continue
		}

		optionalFields = append(optionalFields, nonRequiredFields(group, prop)...)
		param.Options = append(param.Options, group)
	}

	if len(param.Options) == 0 {
		return paramschema.Parameter{}, fmt.Errorf("openapi: schema %q has no object-typed properties to import", schemaName)
	}

	if multiValued || sortable || len(optionalFields) > 0 {
		param.TypeOptions = &paramschema.TypeOptions{
			MultipleValues: multiValued,
			Sortable:       sortable,
			OptionalFields: dedupe(optionalFields),
		}
	}

	return param, nil
}

func optionGroup(name string, schema *openapi3.Schema) paramschema.OptionGroup {
	group := paramschema.OptionGroup{
		Name:        name,
		DisplayName: schema.Title,
	}
	for _, fieldName := range sortedKeys(schema.Properties) {
		fieldRef := schema.Properties[fieldName]
		if fieldRef == nil || fieldRef.Value == nil {
			continue
		}
		group.Values = append(group.Values, fieldSchema(fieldName, fieldRef.Value))
	}
	return group
}

func fieldSchema(name string, schema *openapi3.Schema) paramschema.FieldSchema {
	field := paramschema.FieldSchema{
		Name:        name,
		DisplayName: schema.Title,
		Description: schema.Description,
		Default:     schema.Default,
	}

	switch {
	case len(schema.Enum) > 0:
		field.Type = paramschema.FieldTypeOptions
		field.Enum = append([]any(nil), schema.Enum...)
	case isType(schema, openapi3.TypeBoolean):
		field.Type = paramschema.FieldTypeBoolean
	case isType(schema, openapi3.TypeInteger), isType(schema, openapi3.TypeNumber):
		field.Type = paramschema.FieldTypeNumber
	case isType(schema, openapi3.TypeArray):
		field.Type = paramschema.FieldTypeString
		field.TypeOptions = &paramschema.FieldOptions{MultipleValues: true}
	default:
		field.Type = paramschema.FieldTypeString
	}

	if field.Default == nil && field.Type == paramschema.FieldTypeString && !field.MultipleValues() {
		field.Default = ""
	}

	return field
}

// nonRequiredFields lists the group's field names the source schema does not
// require. The underlying object schema carries the required list; for array
// properties that is the item schema.
func nonRequiredFields(group paramschema.OptionGroup, prop *openapi3.Schema) []string {
	object := prop
	if isType(prop, openapi3.TypeArray) && prop.Items != nil && prop.Items.Value != nil {
		object = prop.Items.Value
	}

	required := make(map[string]struct{}, len(object.Required))
	for _, name := range object.Required {
		required[name] = struct{}{}
	}

	var optional []string
	for _, field := range group.Values {
		if _, ok := required[field.Name]; !ok {
			optional = append(optional, field.Name)
		}
	}
	return optional
}

func isType(schema *openapi3.Schema, kind string) bool {
	return schema != nil && schema.Type != nil && schema.Type.Is(kind)
}

func sortedKeys(schemas openapi3.Schemas) []string {
	keys := make([]string, 0, len(schemas))
	for key := range schemas {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
