// Package validation holds the Validation Engine contract the form and field
// renderers depend on, plus State, the default implementation backed by
// go-playground/validator.
package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-dynamicform/pkg/model"
)

// ErrSubmitBlocked is returned by a wrapped submit handler when at least one
// bound field is invalid. The handler was not invoked.
var ErrSubmitBlocked = errors.New("validation: submit blocked by invalid fields")

// Values is the collected value map handed to submit callbacks. Scalar fields
// map to a string, multi-value fields (checkbox groups) to a []string.
type Values map[string]any

// String returns the scalar value for id, joining multi values with commas.
func (v Values) String(id string) string {
	switch typed := v[id].(type) {
	case string:
		return typed
	case []string:
		return strings.Join(typed, ",")
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}

// SubmitFunc receives the collected values once every field is valid.
type SubmitFunc func(ctx context.Context, values Values) error

// Handlers are the event bindings returned by Engine.Bind. Renderers call them
// to keep the engine in sync with user input.
type Handlers struct {
	Name string
	// OnChange replaces a scalar field value.
	OnChange func(value string)
	// OnToggle checks or unchecks one value of a multi-value field.
	OnToggle func(value string, checked bool)
	// OnReplace swaps every value of a multi-value field at once.
	OnReplace func(values []string)
	// OnBlur marks the field as touched.
	OnBlur func()
}

// Engine is the narrow Validation Engine capability: bind a field with its
// rules, read the per-field error messages, and wrap a submit handler so it
// only fires while every bound field is valid.
type Engine interface {
	Bind(fieldID string, rules model.Rules) Handlers
	Errors() map[string]string
	HandleSubmit(fn SubmitFunc) func(ctx context.Context) error
}

// Mode selects which events trigger validation, mirroring react-hook-form.
type Mode string

const (
	ModeOnSubmit  Mode = "onSubmit"
	ModeOnBlur    Mode = "onBlur"
	ModeOnChange  Mode = "onChange"
	ModeOnTouched Mode = "onTouched"
	ModeAll       Mode = "all"
)

// ParseMode maps a configuration string onto a Mode.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return ModeAll, nil
	case "onsubmit", "submit":
		return ModeOnSubmit, nil
	case "onblur", "blur":
		return ModeOnBlur, nil
	case "onchange", "change":
		return ModeOnChange, nil
	case "ontouched", "touched":
		return ModeOnTouched, nil
	default:
		return "", fmt.Errorf("validation: unknown mode %q", raw)
	}
}

func (m Mode) validatesOnBlur() bool {
	return m == ModeOnBlur || m == ModeOnTouched || m == ModeAll
}

func (m Mode) validatesOnChange(touched, submitted bool) bool {
	switch m {
	case ModeOnChange, ModeAll:
		return true
	case ModeOnTouched:
		return touched || submitted
	default:
		// re-validate on change once the form was submitted
		return submitted
	}
}
