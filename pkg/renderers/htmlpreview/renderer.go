// Package htmlpreview renders a read-only HTML snapshot of a collection view,
// useful for debugging engine state and for documentation pages. Mutation
// affordances (add/delete/reorder) are represented as inert markup; actual
// mutations always go through the engine.
package htmlpreview

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formstate/pkg/collection"
	"github.com/goliatone/go-formstate/pkg/labels"
	"github.com/goliatone/go-formstate/pkg/paramschema"
	"github.com/goliatone/go-formstate/pkg/render"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

const templateName = "preview.html"

// Option configures the preview renderer.
type Option func(*Renderer)

// WithTemplateRenderer swaps the template engine, e.g. to load custom
// templates from disk.
func WithTemplateRenderer(templates TemplateRenderer) Option {
	return func(r *Renderer) {
		if templates != nil {
			r.templates = templates
		}
	}
}

// Renderer implements render.Renderer producing themed HTML previews.
type Renderer struct {
	templates TemplateRenderer
}

// New constructs a preview renderer backed by the embedded template set.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.templates == nil {
		sub, err := fs.Sub(templatesFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("htmlpreview: embedded templates: %w", err)
		}
		engine, err := NewEngine(WithTemplateFS(sub))
		if err != nil {
			return nil, err
		}
		r.templates = engine
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "preview"
}

// ContentType reports the MIME type of rendered documents.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML preview for the supplied view snapshot.
func (r *Renderer) Render(ctx context.Context, view collection.View, options render.RenderOptions) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if r.templates == nil {
		return nil, fmt.Errorf("htmlpreview: template renderer is nil")
	}

	provider := options.LabelProvider()
	registry := options.WidgetRegistry()

	data := map[string]any{
		"parameter": map[string]any{
			"name":  view.Parameter.Name,
			"label": provider.Label(view.BasePath, displayName(view.Parameter.DisplayName, view.Parameter.Name)),
		},
		"base_path": view.BasePath,
		"read_only": view.ReadOnly,
		"groups":    groupData(view, provider, registry),
		"addable":   optionData(view.Addable, provider),
		"theme":     buildThemeContext(options.Theme),
	}

	rendered, err := r.templates.RenderTemplate(templateName, data)
	if err != nil {
		return nil, fmt.Errorf("htmlpreview: render template: %w", err)
	}
	return []byte(rendered), nil
}

func groupData(view collection.View, provider labels.Provider, registry widgetResolver) []map[string]any {
	groups := make([]map[string]any, 0, len(view.Groups))
	for _, group := range view.Groups {
		items := make([]map[string]any, 0, len(group.Items))
		for _, item := range group.Items {
			fields := make([]map[string]any, 0, len(item.Fields))
			for _, field := range item.Fields {
				fields = append(fields, map[string]any{
					"name":   field.Name,
					"label":  provider.Label(item.Path+"."+field.Name, displayName(field.DisplayName, field.Name)),
					"widget": registry.Resolve(field),
					"value":  displayValue(item.Values[field.Name]),
				})
			}
			offerable := make([]map[string]any, 0, len(item.Offerable))
			for _, field := range item.Offerable {
				offerable = append(offerable, map[string]any{
					"name":  field.Name,
					"label": provider.Label(item.Path+"."+field.Name, displayName(field.DisplayName, field.Name)),
				})
			}
			items = append(items, map[string]any{
				"path":      item.Path,
				"index":     item.Index,
				"fields":    fields,
				"offerable": offerable,
			})
		}
		groups = append(groups, map[string]any{
			"path":     group.Path,
			"label":    provider.Label(group.Path, displayName(group.Group.DisplayName, group.Group.Name)),
			"sortable": group.Sortable,
			"items":    items,
		})
	}
	return groups
}

func optionData(groups []paramschema.OptionGroup, provider labels.Provider) []map[string]any {
	out := make([]map[string]any, 0, len(groups))
	for _, group := range groups {
		out = append(out, map[string]any{
			"name":  group.Name,
			"label": provider.Label(group.Name, displayName(group.DisplayName, group.Name)),
		})
	}
	return out
}

type widgetResolver interface {
	Resolve(field paramschema.FieldSchema) string
}

func displayName(declared, raw string) string {
	if declared != "" {
		return declared
	}
	return raw
}

func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	default:
		return fmt.Sprint(v)
	}
}
