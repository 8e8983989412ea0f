package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-dynamicform/pkg/model"
)

const (
	extensionOrder       = "x-order"
	extensionWidget      = "x-widget"
	extensionPlaceholder = "x-placeholder"
	extensionMessages    = "x-messages"
	extensionIcon        = "x-icon"
)

// FormFromOperation parses raw and maps the request body properties of
// operationID to Field Descriptors. The result has passed model validation.
func FormFromOperation(ctx context.Context, raw []byte, operationID string, opts ...Option) (model.Form, error) {
	operations, err := Operations(ctx, raw, opts...)
	if err != nil {
		return model.Form{}, err
	}
	op, ok := operations[operationID]
	if !ok {
		return model.Form{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	form, err := FormFromSchema(op)
	if err != nil {
		return model.Form{}, err
	}
	if err := form.Validate(); err != nil {
		return model.Form{}, fmt.Errorf("openapi: %s: %w", operationID, err)
	}
	return form, nil
}

// FormFromSchema converts an extracted operation into a form description.
func FormFromSchema(op Operation) (model.Form, error) {
	body := op.body
	if body == nil || (body.Type != nil && !body.Type.Is(openapi3.TypeObject)) || len(body.Properties) == 0 {
		return model.Form{}, fmt.Errorf("%w: %q", ErrNoRequestBody, op.ID)
	}

	label := op.Summary
	if label == "" {
		label = "Submit"
	}
	form := model.Form{
		ID:     op.ID,
		Action: op.Path,
		Method: op.Method,
		Button: model.Button{Label: label, Type: model.ButtonSubmit},
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}
	for _, name := range propertyOrder(body.Properties) {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		form.Fields = append(form.Fields, fieldFromSchema(name, ref.Value, required[name]))
	}
	return form, nil
}

// propertyOrder sorts by x-order rank first, then by name. Unranked
// properties come after ranked ones.
func propertyOrder(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	rank := func(name string) (float64, bool) {
		ref := props[name]
		if ref == nil || ref.Value == nil {
			return 0, false
		}
		return numberExtension(ref.Value.Extensions, extensionOrder)
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri, okI := rank(names[i])
		rj, okJ := rank(names[j])
		switch {
		case okI && okJ && ri != rj:
			return ri < rj
		case okI != okJ:
			return okI
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func fieldFromSchema(name string, schema *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		ID:          name,
		Type:        fieldType(schema),
		Label:       schema.Title,
		Placeholder: stringExtension(schema.Extensions, extensionPlaceholder),
		Icon:        stringExtension(schema.Extensions, extensionIcon),
	}
	if field.Label == "" {
		field.Label = humanize(name)
	}
	if field.Placeholder == "" {
		if example, ok := schema.Example.(string); ok {
			field.Placeholder = example
		}
	}

	switch field.Type {
	case model.FieldTypeCheckbox:
		field.Options = checkboxOptions(name, field.Label, schema)
	case model.FieldTypeSelect, model.FieldTypeRadio:
		field.Options = enumOptions(schema.Enum, scalarString(schema.Default))
	default:
		field.DefaultValue = scalarString(schema.Default)
	}

	messages := messagesExtension(schema.Extensions)
	if required {
		field.Validation.Required = &model.RequiredRule{Message: messages[model.RuleRequired]}
	}
	if schema.MinLength > 0 {
		field.Validation.MinLength = &model.LengthRule{Value: clampInt(schema.MinLength), Message: messages[model.RuleMinLength]}
	}
	if schema.MaxLength != nil {
		field.Validation.MaxLength = &model.LengthRule{Value: clampInt(*schema.MaxLength), Message: messages[model.RuleMaxLength]}
	}
	if field.Type == model.FieldTypeCheckbox && schema.Type != nil && schema.Type.Is(openapi3.TypeArray) {
		if schema.MinItems > 0 {
			field.Validation.MinLength = &model.LengthRule{Value: clampInt(schema.MinItems), Message: messages[model.RuleMinLength]}
		}
		if schema.MaxItems != nil {
			field.Validation.MaxLength = &model.LengthRule{Value: clampInt(*schema.MaxItems), Message: messages[model.RuleMaxLength]}
		}
	}
	if schema.Min != nil {
		field.Validation.Min = &model.BoundRule{Value: *schema.Min, Message: messages[model.RuleMin]}
	}
	if schema.Max != nil {
		field.Validation.Max = &model.BoundRule{Value: *schema.Max, Message: messages[model.RuleMax]}
	}
	if schema.Pattern != "" {
		field.Validation.Pattern = &model.PatternRule{Value: schema.Pattern, Message: messages[model.RulePattern]}
	}
	return field
}

func fieldType(schema *openapi3.Schema) model.FieldType {
	widget := model.FieldType(strings.ToLower(stringExtension(schema.Extensions, extensionWidget)))
	types := schema.Type

	switch {
	case types != nil && types.Is(openapi3.TypeArray):
		return model.FieldTypeCheckbox
	case types != nil && types.Is(openapi3.TypeBoolean):
		return model.FieldTypeCheckbox
	case len(schema.Enum) > 0:
		if widget == model.FieldTypeRadio {
			return model.FieldTypeRadio
		}
		return model.FieldTypeSelect
	case types != nil && (types.Is(openapi3.TypeInteger) || types.Is(openapi3.TypeNumber)):
		return model.FieldTypeNumber
	}

	if widget == model.FieldTypeTextarea || widget == model.FieldTypePassword {
		return widget
	}
	switch schema.Format {
	case "email":
		return model.FieldTypeEmail
	case "password":
		return model.FieldTypePassword
	case "date":
		return model.FieldTypeDate
	default:
		return model.FieldTypeText
	}
}

// checkboxOptions maps a boolean to a single "true" option and an array of
// enum values to one option per value.
func checkboxOptions(name, label string, schema *openapi3.Schema) []model.Option {
	if schema.Type != nil && schema.Type.Is(openapi3.TypeBoolean) {
		checked, _ := schema.Default.(bool)
		return []model.Option{{Value: "true", Label: label, DefaultChecked: checked}}
	}
	var values []any
	if schema.Items != nil && schema.Items.Value != nil {
		values = schema.Items.Value.Enum
	}
	if len(values) == 0 {
		return []model.Option{{Value: name, Label: label}}
	}
	var defaults []string
	if list, ok := schema.Default.([]any); ok {
		for _, item := range list {
			defaults = append(defaults, scalarString(item))
		}
	}
	options := enumOptions(values, "")
	for i := range options {
		options[i].DefaultChecked = slices.Contains(defaults, options[i].Value)
	}
	return options
}

func enumOptions(values []any, selected string) []model.Option {
	options := make([]model.Option, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		value := scalarString(raw)
		if _, dup := seen[value]; dup || value == "" {
			continue
		}
		seen[value] = struct{}{}
		options = append(options, model.Option{
			Value:          value,
			Label:          humanize(value),
			DefaultChecked: selected != "" && value == selected,
		})
	}
	return options
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func extensionValue(ext map[string]any, key string) any {
	raw, ok := ext[key]
	if !ok {
		return nil
	}
	if msg, ok := raw.(json.RawMessage); ok {
		var decoded any
		if err := json.Unmarshal(msg, &decoded); err != nil {
			return nil
		}
		return decoded
	}
	return raw
}

func stringExtension(ext map[string]any, key string) string {
	value, _ := extensionValue(ext, key).(string)
	return strings.TrimSpace(value)
}

func numberExtension(ext map[string]any, key string) (float64, bool) {
	switch v := extensionValue(ext, key).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// messagesExtension reads x-messages: {required: "...", minLength: "..."}.
func messagesExtension(ext map[string]any) map[string]string {
	raw, ok := extensionValue(ext, extensionMessages).(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for key, value := range raw {
		if msg, ok := value.(string); ok {
			out[key] = msg
		}
	}
	return out
}

func clampInt(value uint64) int {
	if value > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(value)
}

// humanize turns "first_name" or "firstName" into "First name".
func humanize(raw string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range raw {
		switch {
		case r == '_' || r == '-' || r == '.':
			b.WriteRune(' ')
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			b.WriteRune(' ')
		}
		b.WriteRune(unicode.ToLower(r))
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	words := strings.Fields(b.String())
	if len(words) == 0 {
		return raw
	}
	out := strings.Join(words, " ")
	runes := []rune(out)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
