// Package render defines the contracts shared by every output renderer and
// the helpers they use to prepare per-request data.
package render

import (
	"context"

	"github.com/goliatone/go-dynamicform/pkg/form"
)

// Renderer converts a form View into a byte representation (HTML, text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view form.View, options RenderOptions) ([]byte, error)
}
