package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validatorV10 "github.com/go-playground/validator/v10"

	"github.com/goliatone/go-dynamicform/pkg/model"
)

const (
	DefaultRequiredMessage  = "This field is required"
	DefaultMinLengthMessage = "Must be at least %d characters"
	DefaultMaxLengthMessage = "Must be at most %d characters"
	DefaultMinMessage       = "Must be at least %s"
	DefaultMaxMessage       = "Must be at most %s"
	DefaultPatternMessage   = "Invalid format"
)

// compiledRules caches the parsed pattern for a bound field.
type compiledRules struct {
	rules   model.Rules
	pattern *regexp.Regexp
}

func compileRules(rules model.Rules) (compiledRules, error) {
	compiled := compiledRules{rules: rules}
	if rules.Pattern != nil {
		re, err := regexp.Compile(rules.Pattern.Value)
		if err != nil {
			return compiledRules{}, fmt.Errorf("validation: compile pattern %q: %w", rules.Pattern.Value, err)
		}
		compiled.pattern = re
	}
	return compiled, nil
}

// check evaluates the rules in react-hook-form order (required, minLength,
// maxLength, min, max, pattern) and returns the first failing message. Empty
// values only run the required rule.
func (c compiledRules) check(v *validatorV10.Validate, values []string, multi bool) string {
	if multi {
		return c.checkMulti(v, values)
	}

	value := ""
	if len(values) > 0 {
		value = values[0]
	}

	if r := c.rules.Required; r != nil {
		if err := v.Var(value, "required"); err != nil {
			return messageOr(r.Message, DefaultRequiredMessage)
		}
	}
	if value == "" {
		return ""
	}

	if r := c.rules.MinLength; r != nil {
		if err := v.Var(value, "min="+strconv.Itoa(r.Value)); err != nil {
			return messageOr(r.Message, fmt.Sprintf(DefaultMinLengthMessage, r.Value))
		}
	}
	if r := c.rules.MaxLength; r != nil {
		if err := v.Var(value, "max="+strconv.Itoa(r.Value)); err != nil {
			return messageOr(r.Message, fmt.Sprintf(DefaultMaxLengthMessage, r.Value))
		}
	}

	if c.rules.Min != nil || c.rules.Max != nil {
		// Non-numeric input cannot be compared and skips the bounds.
		if number, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			if r := c.rules.Min; r != nil {
				if err := v.Var(number, "gte="+formatBound(r.Value)); err != nil {
					return messageOr(r.Message, fmt.Sprintf(DefaultMinMessage, formatBound(r.Value)))
				}
			}
			if r := c.rules.Max; r != nil {
				if err := v.Var(number, "lte="+formatBound(r.Value)); err != nil {
					return messageOr(r.Message, fmt.Sprintf(DefaultMaxMessage, formatBound(r.Value)))
				}
			}
		}
	}

	if r := c.rules.Pattern; r != nil && c.pattern != nil {
		if !c.pattern.MatchString(value) {
			return messageOr(r.Message, DefaultPatternMessage)
		}
	}
	return ""
}

// checkMulti applies required and the length rules to the number of selected
// values of a checkbox group.
func (c compiledRules) checkMulti(v *validatorV10.Validate, values []string) string {
	if values == nil {
		values = []string{}
	}
	if r := c.rules.Required; r != nil {
		if err := v.Var(values, "min=1"); err != nil {
			return messageOr(r.Message, DefaultRequiredMessage)
		}
	}
	if len(values) == 0 {
		return ""
	}
	if r := c.rules.MinLength; r != nil {
		if err := v.Var(values, "min="+strconv.Itoa(r.Value)); err != nil {
			return messageOr(r.Message, fmt.Sprintf(DefaultMinLengthMessage, r.Value))
		}
	}
	if r := c.rules.MaxLength; r != nil {
		if err := v.Var(values, "max="+strconv.Itoa(r.Value)); err != nil {
			return messageOr(r.Message, fmt.Sprintf(DefaultMaxLengthMessage, r.Value))
		}
	}
	return ""
}

func formatBound(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return fallback
}
