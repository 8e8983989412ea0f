package styles

import theme "github.com/goliatone/go-theme"

const (
	FrameworkPlain     = "plain"
	FrameworkTailwind  = "tailwind"
	FrameworkBootstrap = "bootstrap"
)

// Template partial keys a manifest can override.
const (
	PartialForm     = "forms.form"
	PartialInput    = "forms.input"
	PartialPassword = "forms.password"
	PartialTextarea = "forms.textarea"
	PartialSelect   = "forms.select"
	PartialCheckbox = "forms.checkbox"
	PartialRadio    = "forms.radio"
	PartialDate     = "forms.date"
)

// PlainManifest only emits the dynamicform-* chrome classes.
func PlainManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    FrameworkPlain,
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenForm:         "dynamicform",
			TokenFormErrors:   "dynamicform-errors",
			TokenRow:          "dynamicform-row",
			TokenLabel:        "dynamicform-label",
			TokenInput:        "dynamicform-input",
			TokenInputInvalid: "dynamicform-invalid",
			TokenError:        "dynamicform-error",
			TokenOption:       "dynamicform-option",
			TokenToggle:       "dynamicform-toggle",
			TokenCalendar:     "calendar-popup",
			TokenCalendarDay:  "calendar-day",
			TokenDaySelected:  "calendar-day-selected",
			TokenButton:       "dynamicform-submit",
		},
	}
}

// TailwindManifest maps the tokens onto Tailwind utility classes.
func TailwindManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    FrameworkTailwind,
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenForm:         "space-y-4",
			TokenFormErrors:   "rounded-md bg-red-50 p-3 text-sm text-red-700",
			TokenRow:          "flex flex-col gap-1",
			TokenLabel:        "text-sm font-medium text-gray-900",
			TokenWrapper:      "relative flex items-center",
			TokenIcon:         "pointer-events-none absolute left-3 h-4 w-4 text-gray-400",
			TokenInput:        "block w-full rounded-md border border-gray-300 px-3 py-2 text-sm focus:border-blue-500 focus:outline-none",
			TokenInputInvalid: "border-red-500",
			TokenError:        "text-sm text-red-600",
			TokenOption:       "flex items-center gap-2",
			TokenOptionInput:  "h-4 w-4 rounded border-gray-300",
			TokenOptionLabel:  "text-sm text-gray-700",
			TokenToggle:       "absolute right-3 text-gray-500",
			TokenCalendar:     "mt-2 grid grid-cols-7 gap-1 rounded-md border border-gray-200 p-2",
			TokenCalendarDay:  "rounded px-2 py-1 text-sm hover:bg-gray-100",
			TokenDaySelected:  "bg-blue-600 text-white",
			TokenButton:       "rounded-md bg-blue-600 px-4 py-2 text-sm font-medium text-white disabled:opacity-50",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					TokenLabel:       "text-sm font-medium text-white",
					TokenInput:       "block w-full rounded-md border border-gray-600 bg-gray-700 px-3 py-2 text-sm text-white",
					TokenOptionLabel: "text-sm text-gray-300",
				},
			},
		},
	}
}

// BootstrapManifest maps the tokens onto Bootstrap 5 classes.
func BootstrapManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    FrameworkBootstrap,
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenFormErrors:   "alert alert-danger",
			TokenRow:          "mb-3",
			TokenLabel:        "form-label",
			TokenWrapper:      "input-group",
			TokenIcon:         "input-group-text",
			TokenInput:        "form-control",
			TokenInputInvalid: "is-invalid",
			TokenError:        "invalid-feedback d-block",
			TokenOption:       "form-check",
			TokenOptionInput:  "form-check-input",
			TokenOptionLabel:  "form-check-label",
			TokenToggle:       "btn btn-outline-secondary",
			TokenCalendar:     "d-flex flex-wrap gap-1 border rounded p-2 mt-2",
			TokenCalendarDay:  "btn btn-sm btn-light",
			TokenDaySelected:  "active",
			TokenButton:       "btn btn-primary",
		},
	}
}

// Builtin returns the bundled manifests.
func Builtin() []*theme.Manifest {
	return []*theme.Manifest{PlainManifest(), TailwindManifest(), BootstrapManifest()}
}
