package vanilla

import "github.com/goliatone/go-dynamicform/pkg/styles"

// ChromeClass is a typed identifier for the semantic classes every render
// carries regardless of the active framework.
type ChromeClass string

const (
	ClassForm     ChromeClass = "dynamicform"
	ClassRow      ChromeClass = "dynamicform-row"
	ClassErrors   ChromeClass = "dynamicform-errors"
	ClassError    ChromeClass = "dynamicform-error"
	ClassCalendar ChromeClass = "calendar-popup"
)

var chromeTokens = map[string]ChromeClass{
	styles.TokenForm:       ClassForm,
	styles.TokenRow:        ClassRow,
	styles.TokenFormErrors: ClassErrors,
	styles.TokenError:      ClassError,
	styles.TokenCalendar:   ClassCalendar,
}

// withChrome prefixes the chrome class onto each token that has one.
func withChrome(classes styles.Classes) styles.Classes {
	out := make(styles.Classes, len(classes)+len(chromeTokens))
	for key, value := range classes {
		out[key] = value
	}
	for key, chrome := range chromeTokens {
		out[key] = styles.Join(string(chrome), out[key])
	}
	return out
}
