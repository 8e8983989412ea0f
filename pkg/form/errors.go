package form

import "errors"

var (
	// ErrUnsupportedFieldType is returned by New under RejectUnknown.
	ErrUnsupportedFieldType = errors.New("form: unsupported field type")
	// ErrUnknownField is returned when an action targets a field the form
	// does not render.
	ErrUnknownField = errors.New("form: unknown field")
)
