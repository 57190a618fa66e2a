// Package formstate manages the view-local state of repeatable, schema-driven
// option-group parameters inside a larger dynamic form. The engine decides
// which option groups are instantiated, which fields are visible or still
// offerable, what defaults a new item receives, and how ordered collections
// mutate, emitting path-addressed change intents the caller applies to its
// authoritative document. The root package re-exports the most common types;
// the pkg tree holds the full surface.
package formstate

import (
	"github.com/goliatone/go-formstate/pkg/collection"
	"github.com/goliatone/go-formstate/pkg/paramschema"
	"github.com/goliatone/go-formstate/pkg/valuetree"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Engine is the collection state engine; see pkg/collection.
type Engine = collection.Engine

// Intent is a single path + value mutation message emitted by the engine.
type Intent = collection.Intent

// IntentKind distinguishes ordinary edits from structural reorders.
type IntentKind = collection.IntentKind

// View is a render-ready snapshot of derived engine state.
type View = collection.View

// Parameter is the declarative schema of one collection parameter.
type Parameter = paramschema.Parameter

// Tree is the value slice a collection engine manages.
type Tree = valuetree.Tree

// Item holds the values of one instantiated option group.
type Item = valuetree.Item

const (
	IntentSet     = collection.IntentSet
	IntentReorder = collection.IntentReorder
)

// Unset is the absent-value sentinel carried by intents that clear a path.
var Unset = collection.Unset

// New constructs an engine for one collection parameter.
func New(param paramschema.Parameter, options ...collection.Option) *collection.Engine {
	return collection.New(param, options...)
}

// WithBasePath roots emitted intent paths at the given document path.
func WithBasePath(path string) collection.Option {
	return collection.WithBasePath(path)
}

// WithValues seeds the engine's working copy from the caller's value tree.
func WithValues(tree valuetree.Tree) collection.Option {
	return collection.WithValues(tree)
}

// WithEvaluator overrides the default show/hide rule evaluator.
func WithEvaluator(eval visibility.Evaluator) collection.Option {
	return collection.WithEvaluator(eval)
}

// WithReadOnly suppresses all mutation operations.
func WithReadOnly(readOnly bool) collection.Option {
	return collection.WithReadOnly(readOnly)
}
