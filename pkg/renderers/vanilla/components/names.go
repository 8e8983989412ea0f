package components

import "github.com/goliatone/go-dynamicform/pkg/model"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput    = "input"
	NamePassword = "password"
	NameTextarea = "textarea"
	NameSelect   = "select"
	NameCheckbox = "checkbox"
	NameRadio    = "radio"
	NameDate     = "date"
)

// ComponentFor maps a field type to the component that renders it. Types
// outside the supported set map to "".
func ComponentFor(t model.FieldType) string {
	switch t {
	case model.FieldTypeText, model.FieldTypeEmail, model.FieldTypeNumber:
		return NameInput
	case model.FieldTypePassword:
		return NamePassword
	case model.FieldTypeTextarea:
		return NameTextarea
	case model.FieldTypeSelect:
		return NameSelect
	case model.FieldTypeCheckbox:
		return NameCheckbox
	case model.FieldTypeRadio:
		return NameRadio
	case model.FieldTypeDate:
		return NameDate
	default:
		return ""
	}
}
