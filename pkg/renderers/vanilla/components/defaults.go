package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-dynamicform/pkg/controls"
	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/styles"
)

const (
	templatePrefix = "templates/components/"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer(styles.PartialInput, templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NamePassword, Descriptor{
		Renderer: templateComponentRenderer(styles.PartialPassword, templatePrefix+"password.tmpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer(styles.PartialTextarea, templatePrefix+"textarea.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer(styles.PartialSelect, templatePrefix+"select.tmpl"),
	})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateComponentRenderer(styles.PartialCheckbox, templatePrefix+"checkbox.tmpl"),
	})
	registry.MustRegister(NameRadio, Descriptor{
		Renderer: templateComponentRenderer(styles.PartialRadio, templatePrefix+"radio.tmpl"),
	})
	registry.MustRegister(NameDate, Descriptor{
		Renderer: templateComponentRenderer(styles.PartialDate, templatePrefix+"date.tmpl"),
	})

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, row form.Row, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		rendered, err := data.Template.RenderTemplate(resolvedTemplate, Payload(row, data.Classes))
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// Payload flattens a row into the string/bool maps the component templates
// read. Class strings are resolved here so templates never merge classes.
func Payload(row form.Row, classes styles.Classes) map[string]any {
	field := row.Field

	inputClass := styles.Join(classes.Get(styles.TokenInput), field.CSS.Input)
	if row.HasError() {
		inputClass = styles.Join(inputClass, classes.Get(styles.TokenInputInvalid))
	}

	payload := map[string]any{
		"field": map[string]any{
			"id":          field.ID,
			"name":        field.ID,
			"type":        string(field.Type),
			"label":       field.Label,
			"placeholder": field.Placeholder,
			"value":       row.Value,
			"class":       inputClass,
			"invalid":     row.HasError(),
			"errorId":     row.ErrorID(),
		},
		"ui": map[string]any{
			"option":      classes.Get(styles.TokenOption),
			"optionInput": styles.Join(classes.Get(styles.TokenOptionInput), field.CSS.Input),
			"optionLabel": classes.Get(styles.TokenOptionLabel),
			"toggle":      classes.Get(styles.TokenToggle),
			"calendar":    classes.Get(styles.TokenCalendar),
		},
		"toggleParam": controls.ParamToggle,
	}

	if len(row.Options) > 0 {
		options := make([]map[string]any, 0, len(row.Options))
		for _, option := range row.Options {
			options = append(options, map[string]any{
				"id":      option.ControlID,
				"value":   option.Value,
				"label":   option.Label,
				"checked": option.Checked,
			})
		}
		payload["options"] = options
	}

	if row.Password != nil {
		payload["password"] = map[string]any{
			"inputType": row.Password.InputType,
			"ariaLabel": row.Password.AriaLabel,
			"revealed":  row.Password.Revealed,
			"action":    row.Password.Action,
		}
	}

	if row.Date != nil {
		days := make([]map[string]any, 0, len(row.Date.Days))
		for _, day := range row.Date.Days {
			class := classes.Get(styles.TokenCalendarDay)
			if day.Selected {
				class = styles.Join(class, classes.Get(styles.TokenDaySelected))
			}
			days = append(days, map[string]any{
				"label":    day.Label,
				"iso":      day.ISO,
				"action":   day.Action,
				"selected": day.Selected,
				"class":    class,
			})
		}
		payload["date"] = map[string]any{
			"display":      row.Date.Display,
			"value":        row.Date.Value,
			"open":         row.Date.Open,
			"toggleAction": row.Date.ToggleAction,
			"days":         days,
		}
	}

	return payload
}
