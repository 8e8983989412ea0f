package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/render/template"
	"github.com/goliatone/go-dynamicform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-dynamicform/pkg/styles"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	classes   styles.Classes
	partials  map[string]string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, classes styles.Classes, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		classes:        classes,
		partials:       partials,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(row form.Row) (string, error) {
	componentName := components.ComponentFor(row.Field.Type)
	if componentName == "" {
		return "", nil
	}

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, row.Field.ID)
	}

	data := components.ComponentData{
		Template:      r.templates,
		ThemePartials: r.partials,
		Classes:       r.classes,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, row, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, row.Field.ID, err)
	}

	r.usedComponents[componentName] = struct{}{}

	return buildFieldMarkup(row, componentName, control.String(), r.classes), nil
}

func (r *componentRenderer) stylesheets() []string {
	if r.registry == nil || len(r.usedComponents) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Stylesheets(names)
}

func buildFieldMarkup(row form.Row, componentName, control string, classes styles.Classes) string {
	field := row.Field

	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div`)
	writeClassAttr(&builder, classes.Get(styles.TokenRow))
	builder.WriteString(` data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`">`)
	builder.WriteByte('\n')

	builder.WriteString(`  <label for="`)
	builder.WriteString(html.EscapeString(field.ID))
	builder.WriteString(`"`)
	writeClassAttr(&builder, styles.Join(classes.Get(styles.TokenLabel), field.CSS.Label))
	builder.WriteString(`>`)
	builder.WriteString(html.EscapeString(field.Label))
	builder.WriteString("</label>\n")

	builder.WriteString(`  <div`)
	writeClassAttr(&builder, styles.Join(classes.Get(styles.TokenWrapper), field.CSS.Wrapper))
	builder.WriteString(">\n")

	if icon := sanitizeIconMarkup(field.Icon); icon != "" {
		builder.WriteString(`    <div`)
		writeClassAttr(&builder, styles.Join(classes.Get(styles.TokenIcon), field.CSS.Icon))
		builder.WriteString(` aria-hidden="true">`)
		builder.WriteString(icon)
		builder.WriteString("</div>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	builder.WriteString("  </div>\n")

	if row.HasError() {
		builder.WriteString(`  <span id="`)
		builder.WriteString(html.EscapeString(row.ErrorID()))
		builder.WriteString(`"`)
		writeClassAttr(&builder, styles.Join(classes.Get(styles.TokenError), field.Error.CSS))
		builder.WriteString(` role="alert">`)
		builder.WriteString(html.EscapeString(row.Error))
		builder.WriteString("</span>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}

func writeClassAttr(builder *strings.Builder, class string) {
	if class == "" {
		return
	}
	builder.WriteString(` class="`)
	builder.WriteString(html.EscapeString(class))
	builder.WriteString(`"`)
}
