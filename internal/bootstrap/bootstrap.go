// Package bootstrap turns configuration values into the options the form,
// renderer and logging layers expect. It is shared by the binaries.
package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-dynamicform/internal/config"
	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/styles"
	"github.com/goliatone/go-dynamicform/pkg/validation"
)

// NewLogger builds a slog logger from the logger settings. Format "json"
// selects the JSON handler, anything else the text handler.
func NewLogger(conf config.Logger, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: conf.Level}
	if strings.EqualFold(conf.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// FormOptions maps the mode and unknown-type policy names onto form options.
func FormOptions(conf config.Form, logger *slog.Logger) ([]form.Option, error) {
	mode, err := validation.ParseMode(conf.Mode)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	policy, ok := form.ParseUnknownTypePolicy(strings.ToLower(strings.TrimSpace(conf.UnknownTypes)))
	if !ok {
		return nil, fmt.Errorf("bootstrap: unknown type policy %q", conf.UnknownTypes)
	}
	return []form.Option{
		form.WithMode(mode),
		form.WithUnknownTypePolicy(policy),
		form.WithLogger(logger),
	}, nil
}

// ThemeConfig resolves a built-in theme. An empty name returns nil so the
// descriptor's cssFramework applies.
func ThemeConfig(name, variant string) (*theme.RendererConfig, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	selection, err := styles.NewSelector("").Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return styles.RendererConfig(selection, nil), nil
}
