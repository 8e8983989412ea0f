package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestLocalizeView_UsesKeysAndFallbacks(t *testing.T) {
	view := form.View{
		Rows: []form.Row{
			{
				Field: model.Field{ID: "email", Label: "Email", Placeholder: "you@example.com"},
				Error: "This field is required",
			},
			{
				Field: model.Field{ID: "plan", Label: "Plan"},
				Options: []form.OptionView{
					{Option: model.Option{Value: "free", Label: "Free"}},
					{Option: model.Option{Value: "pro", Label: "Pro"}},
				},
			},
		},
		Errors: map[string]string{"email": "This field is required"},
		Button: model.Button{Label: "Register"},
	}

	translator := stubTranslator{
		"field.email.label":      "Correo",
		"field.plan.option.free": "Gratis",
		"This field is required": "Campo obligatorio",
		"button.label":           "Registrarse",
	}
	render.LocalizeView(&view, render.RenderOptions{Locale: "es", Translator: translator})

	if view.Rows[0].Field.Label != "Correo" || view.Rows[0].Field.Placeholder != "you@example.com" {
		t.Fatalf("unexpected email row %+v", view.Rows[0].Field)
	}
	if view.Rows[0].Error != "Campo obligatorio" {
		t.Fatalf("unexpected error translation %q", view.Rows[0].Error)
	}
	labels := []string{view.Rows[1].Options[0].Label, view.Rows[1].Options[1].Label}
	if diff := cmp.Diff([]string{"Gratis", "Pro"}, labels); diff != "" {
		t.Fatalf("option labels mismatch (-want +got):\n%s", diff)
	}
	if view.Errors["email"] != "Campo obligatorio" || view.Button.Label != "Registrarse" {
		t.Fatalf("unexpected errors/button %v %q", view.Errors, view.Button.Label)
	}
}

func TestLocalizeView_OnMissing(t *testing.T) {
	view := form.View{Rows: []form.Row{{Field: model.Field{ID: "name", Label: "Name"}}}}

	var missing []string
	render.LocalizeView(&view, render.RenderOptions{
		Translator: stubTranslator{},
		OnMissing: func(_ string, key, fallback string, _ error) string {
			missing = append(missing, key)
			return "[" + fallback + "]"
		},
	})

	if view.Rows[0].Field.Label != "[Name]" {
		t.Fatalf("unexpected label %q", view.Rows[0].Field.Label)
	}
	if diff := cmp.Diff([]string{"field.name.label"}, missing); diff != "" {
		t.Fatalf("missing keys mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateFuncs_Translate(t *testing.T) {
	funcs := render.TemplateFuncs(stubTranslator{"greeting": "Hola"}, "es", nil)
	translate := funcs["translate"].(func(string, string) string)
	if got := translate("greeting", "Hello"); got != "Hola" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := translate("unknown", "Fallback"); got != "Fallback" {
		t.Fatalf("unexpected fallback %q", got)
	}
}
