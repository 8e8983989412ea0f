package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-dynamicform/pkg/form"
)

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the text used when a key cannot be
// translated. fallback is the untranslated descriptor text.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

// ErrMissingTranslator is passed to the missing handler when no Translator is
// configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translation keys follow the descriptor structure:
//
//	field.<id>.label
//	field.<id>.placeholder
//	field.<id>.option.<value>
//	button.label
//
// Error messages are translated using the message text itself as key, so a
// catalog can map "This field is required" directly.
const (
	fieldKeyPrefix = "field."
	buttonLabelKey = "button.label"
)

// LocalizeView translates the user-facing strings of view in place. Without a
// Translator the view is left untouched.
func LocalizeView(view *form.View, opts RenderOptions) {
	if view == nil || opts.Translator == nil {
		return
	}

	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	tr := func(key, fallback string) string {
		return translate(opts.Locale, key, fallback, opts.Translator, onMissing)
	}

	for i := range view.Rows {
		row := &view.Rows[i]
		prefix := fieldKeyPrefix + row.Field.ID
		if row.Field.Label != "" {
			row.Field.Label = tr(prefix+".label", row.Field.Label)
		}
		if row.Field.Placeholder != "" {
			row.Field.Placeholder = tr(prefix+".placeholder", row.Field.Placeholder)
		}
		for j := range row.Options {
			row.Options[j].Label = tr(prefix+".option."+row.Options[j].Value, row.Options[j].Label)
		}
		if row.Error != "" {
			row.Error = tr(row.Error, row.Error)
		}
	}
	for id, message := range view.Errors {
		view.Errors[id] = tr(message, message)
	}
	if view.Button.Label != "" {
		view.Button.Label = tr(buttonLabelKey, view.Button.Label)
	}
}

// TemplateFuncs exposes a translate(key, fallback) helper for template engines.
func TemplateFuncs(t Translator, locale string, onMissing MissingTranslationHandler) map[string]any {
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return map[string]any{
		"translate": func(key, fallback string) string {
			return translate(locale, key, fallback, t, onMissing)
		},
	}
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if t == nil {
		return onMissing(locale, key, fallback, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, fallback, err)
}

func missingTranslationDefault(_ string, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
