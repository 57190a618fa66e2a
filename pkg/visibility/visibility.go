// Package visibility decides whether a field should currently be shown given
// the sibling values of its item. The default evaluator interprets the
// structured show/hide rules declared on a field schema; callers can swap in
// their own evaluator to layer on roles, versions, or feature flags.
package visibility

import "github.com/goliatone/go-formstate/pkg/paramschema"

// Context provides inputs to an Evaluator. Siblings holds the current values
// of the field's item; Extras allows callers to inject arbitrary context such
// as user roles or feature flags.
type Context struct {
	Siblings map[string]any
	Extras   map[string]any
}

// Evaluator determines whether a field should be visible given its schema and
// the current context.
type Evaluator interface {
	Visible(field paramschema.FieldSchema, ctx Context) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field paramschema.FieldSchema, ctx Context) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(field paramschema.FieldSchema, ctx Context) bool {
	return fn(field, ctx)
}
