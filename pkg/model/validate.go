package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidDescriptor is wrapped by every descriptor invariant violation.
var ErrInvalidDescriptor = errors.New("model: invalid descriptor")

// ReservedPrefix marks request parameters that carry renderer control state.
// Field ids may not use it.
const ReservedPrefix = "_ui."

// DescriptorError reports a single invariant violation for one field.
type DescriptorError struct {
	FieldID string
	Reason  string
}

func (e DescriptorError) Error() string {
	if e.FieldID == "" {
		return "model: " + e.Reason
	}
	return fmt.Sprintf("model: field %q: %s", e.FieldID, e.Reason)
}

func (e DescriptorError) Unwrap() error {
	return ErrInvalidDescriptor
}

// Validate checks the descriptor invariants: ids are present and unique,
// option-backed fields carry a non-empty list of unique values, radio groups
// have at most one default, ids stay out of ReservedPrefix and rule parameters
// are usable. Unsupported types
// are not an error here; the form layer owns that policy.
func (f Form) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(f.Fields))

	for idx, field := range f.Fields {
		id := strings.TrimSpace(field.ID)
		if id == "" {
			errs = append(errs, DescriptorError{Reason: fmt.Sprintf("field at index %d has no id", idx)})
			continue
		}
		if _, exists := seen[id]; exists {
			errs = append(errs, DescriptorError{FieldID: id, Reason: "duplicate id"})
		}
		seen[id] = struct{}{}
		if strings.HasPrefix(id, ReservedPrefix) {
			errs = append(errs, DescriptorError{FieldID: id, Reason: fmt.Sprintf("id uses reserved prefix %q", ReservedPrefix)})
		}

		errs = append(errs, field.validateOptions()...)
		errs = append(errs, field.validateRules()...)
	}

	return errors.Join(errs...)
}

func (f Field) validateOptions() []error {
	if !f.Type.HasOptions() {
		return nil
	}
	if len(f.Options) == 0 {
		return []error{DescriptorError{FieldID: f.ID, Reason: fmt.Sprintf("%s field requires options", f.Type)}}
	}

	var errs []error
	values := make(map[string]struct{}, len(f.Options))
	defaults := 0
	for _, option := range f.Options {
		if _, exists := values[option.Value]; exists {
			errs = append(errs, DescriptorError{FieldID: f.ID, Reason: fmt.Sprintf("duplicate option value %q", option.Value)})
		}
		values[option.Value] = struct{}{}
		if option.DefaultChecked {
			defaults++
		}
	}
	if f.Type == FieldTypeRadio && defaults > 1 {
		errs = append(errs, DescriptorError{FieldID: f.ID, Reason: "radio group marks more than one option as default"})
	}
	return errs
}

func (f Field) validateRules() []error {
	rules := f.Validation
	var errs []error
	if rules.Pattern != nil {
		if _, err := regexp.Compile(rules.Pattern.Value); err != nil {
			errs = append(errs, DescriptorError{FieldID: f.ID, Reason: fmt.Sprintf("invalid pattern: %v", err)})
		}
	}
	if rules.MinLength != nil && rules.MaxLength != nil && rules.MinLength.Value > rules.MaxLength.Value {
		errs = append(errs, DescriptorError{FieldID: f.ID, Reason: "minLength exceeds maxLength"})
	}
	if rules.Min != nil && rules.Max != nil && rules.Min.Value > rules.Max.Value {
		errs = append(errs, DescriptorError{FieldID: f.ID, Reason: "min exceeds max"})
	}
	return errs
}

// DefaultValues builds the initial value map. Scalar fields contribute their
// DefaultValue when set; checkbox groups contribute the ordered values of
// default-checked options and radio groups the default-checked option.
func (f Form) DefaultValues() map[string]any {
	values := make(map[string]any)
	for _, field := range f.Fields {
		switch field.Type {
		case FieldTypeCheckbox:
			var checked []string
			for _, option := range field.Options {
				if option.DefaultChecked {
					checked = append(checked, option.Value)
				}
			}
			if len(checked) > 0 {
				values[field.ID] = checked
			} else if field.DefaultValue != "" {
				values[field.ID] = []string{field.DefaultValue}
			}
		case FieldTypeRadio:
			for _, option := range field.Options {
				if option.DefaultChecked {
					values[field.ID] = option.Value
					break
				}
			}
			if _, ok := values[field.ID]; !ok && field.DefaultValue != "" {
				values[field.ID] = field.DefaultValue
			}
		default:
			if field.DefaultValue != "" {
				values[field.ID] = field.DefaultValue
			}
		}
	}
	return values
}
