// Package widgets resolves which leaf control should render a field. The
// collection engine treats leaf-field rendering as a capability behind an
// interface; this registry supplies the polymorphic dispatch without the
// engine inspecting type-specific rendering logic.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/paramschema"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetToggle     = "toggle"
	WidgetSelect     = "select"
	WidgetMultiText  = "multi-text"
	WidgetCollection = "collection"
	WidgetNumber     = "number"
	WidgetText       = "text"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field paramschema.FieldSchema) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit schema hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit widget hint on the
// schema is honoured before matcher evaluation; when nothing matches, the
// plain text widget is returned.
func (r *Registry) Resolve(field paramschema.FieldSchema) string {
	if explicit := strings.TrimSpace(field.Widget); explicit != "" {
		return explicit
	}
	if r == nil {
		return WidgetText
	}

	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name
		}
	}
	return WidgetText
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCollection, 90, func(field paramschema.FieldSchema) bool {
		return field.FixedCollection()
	})

	r.Register(WidgetToggle, 80, func(field paramschema.FieldSchema) bool {
		return field.Type == paramschema.FieldTypeBoolean
	})

	r.Register(WidgetSelect, 70, func(field paramschema.FieldSchema) bool {
		return field.Type == paramschema.FieldTypeOptions || len(field.Enum) > 0
	})

	r.Register(WidgetMultiText, 60, func(field paramschema.FieldSchema) bool {
		return field.MultipleValues()
	})

	r.Register(WidgetNumber, 50, func(field paramschema.FieldSchema) bool {
		return field.Type == paramschema.FieldTypeNumber
	})
}
