package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleMin       = "min"
	RuleMax       = "max"
	RulePattern   = "pattern"
)

// RequiredRule marks a field as mandatory. A nil *RequiredRule means the field
// is optional.
type RequiredRule struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// LengthRule bounds the number of characters of a value.
type LengthRule struct {
	Value   int    `json:"value" yaml:"value"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// BoundRule bounds the numeric value of a field.
type BoundRule struct {
	Value   float64 `json:"value" yaml:"value"`
	Message string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// PatternRule requires the value to match a regular expression.
type PatternRule struct {
	Value   string `json:"value" yaml:"value"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Rules is the declarative constraint set attached to a descriptor. It is
// consumed opaquely by the validation engine.
//
// Decoding accepts the react-hook-form shorthands: `required: true`,
// `required: "message"`, `min: 18`, `pattern: "^a+$"` as well as the
// `{value, message}` object form.
type Rules struct {
	Required  *RequiredRule `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength *LengthRule   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *LengthRule   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Min       *BoundRule    `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *BoundRule    `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern   *PatternRule  `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Empty reports whether no rule is configured.
func (r Rules) Empty() bool {
	return r.Required == nil && r.MinLength == nil && r.MaxLength == nil &&
		r.Min == nil && r.Max == nil && r.Pattern == nil
}

// UnmarshalJSON decodes both the shorthand and object rule forms.
func (r *Rules) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: decode rules: %w", err)
	}
	rules, err := rulesFromMap(raw)
	if err != nil {
		return err
	}
	*r = rules
	return nil
}

// UnmarshalYAML decodes both the shorthand and object rule forms.
func (r *Rules) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("model: decode rules: %w", err)
	}
	rules, err := rulesFromMap(raw)
	if err != nil {
		return err
	}
	*r = rules
	return nil
}

func rulesFromMap(raw map[string]any) (Rules, error) {
	var rules Rules
	for key, value := range raw {
		if value == nil {
			continue
		}
		var err error
		switch normaliseRuleKey(key) {
		case "required":
			rules.Required, err = decodeRequired(value)
		case "minlength":
			rules.MinLength, err = decodeLength(key, value)
		case "maxlength":
			rules.MaxLength, err = decodeLength(key, value)
		case "min":
			rules.Min, err = decodeBound(key, value)
		case "max":
			rules.Max, err = decodeBound(key, value)
		case "pattern":
			rules.Pattern, err = decodePattern(value)
		default:
			// Unknown keys (validate callbacks, deps, ...) have no Go meaning.
		}
		if err != nil {
			return Rules{}, err
		}
	}
	return rules, nil
}

func normaliseRuleKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "_", ""))
}

func decodeRequired(value any) (*RequiredRule, error) {
	switch v := value.(type) {
	case bool:
		if !v {
			return nil, nil
		}
		return &RequiredRule{}, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return &RequiredRule{Message: v}, nil
	case map[string]any:
		if enabled, ok := v["value"].(bool); ok && !enabled {
			return nil, nil
		}
		return &RequiredRule{Message: stringValue(v["message"])}, nil
	default:
		return nil, fmt.Errorf("model: rule %q: unsupported value %v", RuleRequired, value)
	}
}

func decodeLength(key string, value any) (*LengthRule, error) {
	raw, message := splitRuleValue(value)
	number, ok := numberValue(raw)
	if !ok || number < 0 || number != math.Trunc(number) {
		return nil, fmt.Errorf("model: rule %q: expected a non-negative integer, got %v", key, raw)
	}
	return &LengthRule{Value: int(number), Message: message}, nil
}

func decodeBound(key string, value any) (*BoundRule, error) {
	raw, message := splitRuleValue(value)
	number, ok := numberValue(raw)
	if !ok {
		return nil, fmt.Errorf("model: rule %q: expected a number, got %v", key, raw)
	}
	return &BoundRule{Value: number, Message: message}, nil
}

func decodePattern(value any) (*PatternRule, error) {
	raw, message := splitRuleValue(value)
	expr, ok := raw.(string)
	if !ok || expr == "" {
		return nil, fmt.Errorf("model: rule %q: expected an expression, got %v", RulePattern, raw)
	}
	return &PatternRule{Value: expr, Message: message}, nil
}

func splitRuleValue(value any) (any, string) {
	if obj, ok := value.(map[string]any); ok {
		return obj["value"], stringValue(obj["message"])
	}
	return value, ""
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
