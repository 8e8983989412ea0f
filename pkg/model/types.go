package model

import "strings"

// FieldType is the closed set of controls a descriptor can ask for.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypePassword FieldType = "password"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeDate     FieldType = "date"
)

// FieldTypes lists every supported type in declaration order.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeEmail,
	FieldTypeNumber,
	FieldTypePassword,
	FieldTypeTextarea,
	FieldTypeSelect,
	FieldTypeCheckbox,
	FieldTypeRadio,
	FieldTypeDate,
}

// Supported reports whether t belongs to the closed set of field types.
func (t FieldType) Supported() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeNumber, FieldTypePassword,
		FieldTypeTextarea, FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio,
		FieldTypeDate:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the type renders an option list.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeCheckbox || t == FieldTypeRadio
}

// MultiValue reports whether the type collects more than one value.
func (t FieldType) MultiValue() bool {
	return t == FieldTypeCheckbox
}

// Option is one selectable entry of a select, checkbox or radio field.
type Option struct {
	Value          string `json:"value" yaml:"value"`
	Label          string `json:"label" yaml:"label"`
	DefaultChecked bool   `json:"defaultChecked,omitempty" yaml:"defaultChecked,omitempty"`
}

// ErrorDisplay tells renderers where and how to show a field's error text.
type ErrorDisplay struct {
	ID  string `json:"id,omitempty" yaml:"id,omitempty"`
	CSS string `json:"css,omitempty" yaml:"css,omitempty"`
}

// Styles carries per-field class hints.
type Styles struct {
	Wrapper string `json:"wrapper,omitempty" yaml:"wrapper,omitempty"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Input   string `json:"input,omitempty" yaml:"input,omitempty"`
	Icon    string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Field is a Field Descriptor: everything needed to render and validate one
// form control. ID doubles as the submitted value key.
type Field struct {
	ID           string       `json:"id" yaml:"id"`
	Type         FieldType    `json:"type" yaml:"type"`
	Label        string       `json:"label,omitempty" yaml:"label,omitempty"`
	Value        string       `json:"value,omitempty" yaml:"value,omitempty"`
	DefaultValue string       `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Placeholder  string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Icon         string       `json:"icon,omitempty" yaml:"icon,omitempty"`
	Required     bool         `json:"required,omitempty" yaml:"required,omitempty"`
	Options      []Option     `json:"options,omitempty" yaml:"options,omitempty"`
	Validation   Rules        `json:"validation,omitempty" yaml:"validation,omitempty"`
	Error        ErrorDisplay `json:"error,omitempty" yaml:"error,omitempty"`
	CSS          Styles       `json:"css,omitempty" yaml:"css,omitempty"`
}

// EffectiveRules returns the validation rules with the legacy Required flag
// folded in. An explicit required rule wins over the flag.
func (f Field) EffectiveRules() Rules {
	rules := f.Validation
	if f.Required && rules.Required == nil {
		rules.Required = &RequiredRule{}
	}
	return rules
}

// ControlID returns the DOM id for an option control (checkbox/radio).
func (f Field) ControlID(optionValue string) string {
	return f.ID + "-" + optionValue
}

// ButtonType enumerates the HTML button types.
type ButtonType string

const (
	ButtonSubmit ButtonType = "submit"
	ButtonReset  ButtonType = "reset"
	ButtonPlain  ButtonType = "button"
)

// Button describes the form's submit control.
type Button struct {
	ID       string     `json:"id,omitempty" yaml:"id,omitempty"`
	Label    string     `json:"label" yaml:"label"`
	Type     ButtonType `json:"type,omitempty" yaml:"type,omitempty"`
	CSS      string     `json:"css,omitempty" yaml:"css,omitempty"`
	Disabled bool       `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// EffectiveType defaults the button type to submit.
func (b Button) EffectiveType() ButtonType {
	switch b.Type {
	case ButtonReset, ButtonPlain:
		return b.Type
	default:
		return ButtonSubmit
	}
}

// LayoutKind is the container layout requested for the field rows.
type LayoutKind string

const (
	LayoutGrid LayoutKind = "grid"
	LayoutFlex LayoutKind = "flex"
)

// Layout pairs a layout kind with extra container classes.
type Layout struct {
	Kind LayoutKind `json:"type" yaml:"type"`
	CSS  string     `json:"css,omitempty" yaml:"css,omitempty"`
}

// Class joins the layout kind and its class hint.
func (l *Layout) Class() string {
	if l == nil {
		return ""
	}
	return strings.TrimSpace(string(l.Kind) + " " + l.CSS)
}

// Form is the caller-facing form description: ordered fields, the submit
// button and optional layout/styling hints.
type Form struct {
	ID           string  `json:"id,omitempty" yaml:"id,omitempty"`
	Action       string  `json:"action,omitempty" yaml:"action,omitempty"`
	Method       string  `json:"method,omitempty" yaml:"method,omitempty"`
	CSSFramework string  `json:"cssFramework,omitempty" yaml:"cssFramework,omitempty"`
	Layout       *Layout `json:"layout,omitempty" yaml:"layout,omitempty"`
	Fields       []Field `json:"fields" yaml:"fields"`
	Button       Button  `json:"button" yaml:"button"`
}

// Lookup returns the descriptor with the given id.
func (f Form) Lookup(id string) (Field, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// EffectiveMethod defaults the HTTP method to POST.
func (f Form) EffectiveMethod() string {
	if method := strings.ToUpper(strings.TrimSpace(f.Method)); method != "" {
		return method
	}
	return "POST"
}
