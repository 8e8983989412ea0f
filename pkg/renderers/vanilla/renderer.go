// Package vanilla renders a form View as plain HTML through embedded pongo2
// templates. The output works without JavaScript: control toggles are submit
// buttons that round-trip through the server.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/render"
	rendertemplate "github.com/goliatone/go-dynamicform/pkg/render/template"
	"github.com/goliatone/go-dynamicform/pkg/render/template/pongo"
	"github.com/goliatone/go-dynamicform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-dynamicform/pkg/styles"
)

const (
	formTemplate = "templates/form.tmpl"

	// themeStylesheetKey is the asset key looked up through the theme
	// AssetURL resolver.
	themeStylesheetKey = "stylesheet"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	stylesheets      []string
	inlineStyles     bool
	dropPasswords    bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry. The
// registry is cloned, later changes by the caller are not observed.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry.Clone()
		}
	}
}

// WithStylesheet links an external stylesheet ahead of the form.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithoutPasswordValues renders password inputs empty. Re-rendered forms then
// never carry the typed password back, at the cost of retyping it after a
// reveal toggle or a rejected submission.
func WithoutPasswordValues() Option {
	return func(cfg *config) {
		cfg.dropPasswords = true
	}
}

// WithDefaultStyles inlines the embedded stylesheet.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	components    *components.Registry
	stylesheets   []string
	inlineStyles  string
	dropPasswords bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:     renderer,
		components:    cfg.components,
		stylesheets:   slices.Clone(cfg.stylesheets),
		dropPasswords: cfg.dropPasswords,
	}
	if cfg.inlineStyles {
		r.inlineStyles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view form.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	view = cloneView(view)
	render.LocalizeView(&view, options)
	if r.dropPasswords {
		for i := range view.Rows {
			if view.Rows[i].Field.Type == model.FieldTypePassword {
				view.Rows[i].Value = ""
				view.Rows[i].Values = nil
			}
		}
	}

	classes := withChrome(resolveClasses(view, options))
	partials := themePartials(options)

	fields := newComponentRenderer(r.templates, r.components, classes, partials)
	rows := make([]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		markup, err := fields.render(row)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		if markup != "" {
			rows = append(rows, markup)
		}
	}

	hidden := render.SortedHiddenFields(options.HiddenFields)
	hidden = append(hidden, render.ControlStateFields(view.ControlState)...)
	hiddenPayload := make([]map[string]any, 0, len(hidden))
	for _, field := range hidden {
		hiddenPayload = append(hiddenPayload, map[string]any{"name": field.Name, "value": field.Value})
	}

	stylesheets := slices.Clone(r.stylesheets)
	if options.Theme != nil && options.Theme.AssetURL != nil {
		if href := options.Theme.AssetURL(themeStylesheetKey); href != "" {
			stylesheets = append(stylesheets, href)
		}
	}
	stylesheets = append(stylesheets, fields.stylesheets()...)

	themeName := ""
	if options.Theme != nil {
		themeName = options.Theme.Theme
	}

	payload := map[string]any{
		"form": map[string]any{
			"id":     view.ID,
			"action": view.Action,
			"method": strings.ToLower(view.Method),
			"class":  styles.Join(classes.Get(styles.TokenForm), view.Layout.Class()),
			"theme":  themeName,
		},
		"rows":            rows,
		"hidden":          hiddenPayload,
		"formErrors":      render.MergeFormErrors(nil, options.FormErrors...),
		"formErrorsClass": classes.Get(styles.TokenFormErrors),
		"stylesheets":     stylesheets,
		"inlineStyles":    r.inlineStyles,
		"button": map[string]any{
			"id":       view.Button.ID,
			"type":     string(view.Button.Type),
			"label":    view.Button.Label,
			"class":    styles.Join(classes.Get(styles.TokenButton), view.Button.CSS),
			"disabled": view.Button.Disabled,
		},
	}

	templateName := formTemplate
	if candidate := strings.TrimSpace(partials[styles.PartialForm]); candidate != "" {
		templateName = candidate
	}

	result, err := r.templates.RenderTemplate(templateName, payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// resolveClasses prefers the theme tokens and falls back to the framework
// named by the descriptor.
func resolveClasses(view form.View, options render.RenderOptions) styles.Classes {
	if options.Theme != nil && len(options.Theme.Tokens) > 0 {
		return styles.Classes(maps.Clone(options.Theme.Tokens))
	}
	return styles.ForFramework(view.CSSFramework)
}

func themePartials(options render.RenderOptions) map[string]string {
	if options.Theme == nil {
		return nil
	}
	return options.Theme.Partials
}

// cloneView copies the parts LocalizeView mutates.
func cloneView(view form.View) form.View {
	rows := make([]form.Row, len(view.Rows))
	for i, row := range view.Rows {
		row.Options = slices.Clone(row.Options)
		rows[i] = row
	}
	view.Rows = rows
	view.Errors = maps.Clone(view.Errors)
	return view
}
