// Package render defines the contract between the collection engine and the
// renderers that turn a derived view into bytes (HTML, text, JSON). Renderers
// consume immutable view snapshots; mutation intents always flow back through
// the engine, never through a renderer.
package render

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/collection"
)

// Renderer converts a collection view into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view collection.View, options RenderOptions) ([]byte, error)
}
