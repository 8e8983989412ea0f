// Package dynamicform renders forms from a list of field descriptors, binds
// every field to a validation engine and gates submission on validity.
//
// The subpackages carry the pieces: model (descriptors), validation (engine),
// form (binding and view), renderers/vanilla and renderers/tui (output),
// styles (CSS framework themes) and httpform (HTTP surface).
package dynamicform

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/openapi"
	"github.com/goliatone/go-dynamicform/pkg/render"
	"github.com/goliatone/go-dynamicform/pkg/renderers/vanilla"
)

// RenderOptions aliases render.RenderOptions for callers that only import the
// root package.
type RenderOptions = render.RenderOptions

// LoadDescriptor reads a form description from path. With an operation id the
// file is treated as an OpenAPI document and the operation's request body
// becomes the field list; otherwise it is a JSON or YAML descriptor.
func LoadDescriptor(ctx context.Context, path, operationID string) (model.Form, error) {
	if strings.TrimSpace(operationID) == "" {
		return model.LoadFile(path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Form{}, fmt.Errorf("dynamicform: read %s: %w", path, err)
	}
	return openapi.FormFromOperation(ctx, raw, operationID)
}

// NewRegistry returns a renderer registry with the vanilla HTML renderer
// registered.
func NewRegistry(options ...vanilla.Option) (*render.Registry, error) {
	registry := render.NewRegistry()
	renderer, err := vanilla.New(options...)
	if err != nil {
		return nil, fmt.Errorf("dynamicform: %w", err)
	}
	if err := registry.Register(renderer); err != nil {
		return nil, fmt.Errorf("dynamicform: %w", err)
	}
	return registry, nil
}

// RenderHTML builds a fresh form from desc and renders it with the vanilla
// renderer.
func RenderHTML(ctx context.Context, desc model.Form, opts RenderOptions, formOptions ...form.Option) ([]byte, error) {
	f, err := form.New(desc, formOptions...)
	if err != nil {
		return nil, err
	}
	renderer, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("dynamicform: %w", err)
	}
	return renderer.Render(ctx, f.View(), opts)
}
