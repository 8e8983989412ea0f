// Package styles holds the CSS framework variants as go-theme manifests. The
// manifests only carry class strings; rendering never branches on the
// framework.
package styles

import "strings"

// Token keys shared by the manifests and the HTML renderers.
const (
	TokenForm         = "form"
	TokenFormErrors   = "form-errors"
	TokenRow          = "row"
	TokenLabel        = "label"
	TokenWrapper      = "wrapper"
	TokenIcon         = "icon"
	TokenInput        = "input"
	TokenInputInvalid = "input-invalid"
	TokenError        = "error"
	TokenOption       = "option"
	TokenOptionInput  = "option-input"
	TokenOptionLabel  = "option-label"
	TokenToggle       = "toggle"
	TokenCalendar     = "calendar"
	TokenCalendarDay  = "calendar-day"
	TokenDaySelected  = "calendar-day-selected"
	TokenButton       = "button"
)

// TokenKeys lists every key a manifest may define.
var TokenKeys = []string{
	TokenForm,
	TokenFormErrors,
	TokenRow,
	TokenLabel,
	TokenWrapper,
	TokenIcon,
	TokenInput,
	TokenInputInvalid,
	TokenError,
	TokenOption,
	TokenOptionInput,
	TokenOptionLabel,
	TokenToggle,
	TokenCalendar,
	TokenCalendarDay,
	TokenDaySelected,
	TokenButton,
}

// Classes resolves token keys to class strings.
type Classes map[string]string

// Get returns the class string for key, "" when unset.
func (c Classes) Get(key string) string {
	if c == nil {
		return ""
	}
	return c[key]
}

// Join merges class lists, dropping blanks and repeated classes while keeping
// first-seen order.
func Join(parts ...string) string {
	var out []string
	seen := make(map[string]struct{})
	for _, part := range parts {
		for _, class := range strings.Fields(part) {
			if _, ok := seen[class]; ok {
				continue
			}
			seen[class] = struct{}{}
			out = append(out, class)
		}
	}
	return strings.Join(out, " ")
}
