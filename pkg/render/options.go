package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formstate/pkg/labels"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// RenderOptions describe per-request data renderers can use to customise
// their output without touching engine state.
type RenderOptions struct {
	// Labels resolves display labels; nil falls back to the default provider.
	Labels labels.Provider
	// Widgets resolves the leaf control per field; nil falls back to a
	// registry with the built-in matchers.
	Widgets *widgets.Registry
	// Theme carries resolved go-theme tokens, CSS variables, and asset URLs
	// for renderers that produce themed output.
	Theme *theme.RendererConfig
}

// LabelProvider returns the configured provider or the default.
func (o RenderOptions) LabelProvider() labels.Provider {
	if o.Labels != nil {
		return o.Labels
	}
	return labels.Default()
}

// WidgetRegistry returns the configured registry or one with the built-ins.
func (o RenderOptions) WidgetRegistry() *widgets.Registry {
	if o.Widgets != nil {
		return o.Widgets
	}
	return widgets.NewRegistry()
}
