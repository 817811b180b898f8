package render

import (
	"context"

	"github.com/goliatone/go-formcraft/pkg/model"
)

// Renderer converts a schema into a byte representation (JSON, TSX, HTML,
// OpenAPI, ...). Renderers never mutate the schema they receive.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, schema model.Schema, options RenderOptions) ([]byte, error)
}
