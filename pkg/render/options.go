package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the form state.
type RenderOptions struct {
	// Theme carries the resolved class tokens and asset helpers. Nil falls
	// back to the descriptor class hints only.
	Theme *theme.RendererConfig
	// HiddenFields are emitted as hidden inputs (CSRF tokens and similar).
	HiddenFields map[string]string
	// FormErrors are form-level messages shown above the fields.
	FormErrors []string
	// Locale and Translator localise labels, placeholders, option labels and
	// error messages. See LocalizeView.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}
