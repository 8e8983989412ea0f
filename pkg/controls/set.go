package controls

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-dynamicform/pkg/model"
)

// Hidden input names used to carry control state through a server round trip.
const (
	ParamToggle   = model.ReservedPrefix + "toggle"
	ParamRevealed = model.ReservedPrefix + "reveal"
	ParamOpen     = model.ReservedPrefix + "open"
)

// ActionKind names a control interaction submitted through ParamToggle.
type ActionKind string

const (
	ActionReveal   ActionKind = "reveal"
	ActionCalendar ActionKind = "calendar"
	ActionDay      ActionKind = "day"
)

// ErrUnknownAction is returned for malformed or unknown toggle values.
var ErrUnknownAction = errors.New("controls: unknown action")

// Action is a decoded ParamToggle value.
type Action struct {
	Kind    ActionKind
	FieldID string
	Day     int
}

// String returns the submitted form of the action.
func (a Action) String() string {
	if a.Kind == ActionDay {
		return fmt.Sprintf("%s:%s:%d", a.Kind, a.FieldID, a.Day)
	}
	return fmt.Sprintf("%s:%s", a.Kind, a.FieldID)
}

// RevealAction builds the toggle value for a password field.
func RevealAction(fieldID string) string {
	return Action{Kind: ActionReveal, FieldID: fieldID}.String()
}

// CalendarAction builds the toggle value opening or closing a calendar.
func CalendarAction(fieldID string) string {
	return Action{Kind: ActionCalendar, FieldID: fieldID}.String()
}

// DayAction builds the toggle value selecting a calendar day.
func DayAction(fieldID string, day int) string {
	return Action{Kind: ActionDay, FieldID: fieldID, Day: day}.String()
}

// ParseAction decodes "reveal:<id>", "calendar:<id>" or "day:<id>:<n>".
func ParseAction(raw string) (Action, error) {
	kind, rest, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || rest == "" {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
	switch ActionKind(kind) {
	case ActionReveal, ActionCalendar:
		return Action{Kind: ActionKind(kind), FieldID: rest}, nil
	case ActionDay:
		idx := strings.LastIndex(rest, ":")
		if idx <= 0 {
			return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, raw)
		}
		day, err := strconv.Atoi(rest[idx+1:])
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q: %v", ErrUnknownAction, raw, err)
		}
		return Action{Kind: ActionDay, FieldID: rest[:idx], Day: day}, nil
	default:
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
}

// Set holds the control state of one form instance keyed by field id.
type Set struct {
	mu        sync.Mutex
	passwords map[string]*PasswordReveal
	dates     map[string]*DatePicker
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{
		passwords: make(map[string]*PasswordReveal),
		dates:     make(map[string]*DatePicker),
	}
}

// Password returns the reveal toggle for fieldID, creating it on first use.
func (s *Set) Password(fieldID string) *PasswordReveal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if control, ok := s.passwords[fieldID]; ok {
		return control
	}
	control := &PasswordReveal{}
	s.passwords[fieldID] = control
	return control
}

// Date returns the picker for fieldID, creating it with initial on first use.
func (s *Set) Date(fieldID, initial string) *DatePicker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if control, ok := s.dates[fieldID]; ok {
		return control
	}
	control := NewDatePicker(initial)
	s.dates[fieldID] = control
	return control
}

// LookupPassword returns an existing reveal toggle.
func (s *Set) LookupPassword(fieldID string) (*PasswordReveal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	control, ok := s.passwords[fieldID]
	return control, ok
}

// LookupDate returns an existing date picker.
func (s *Set) LookupDate(fieldID string) (*DatePicker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	control, ok := s.dates[fieldID]
	return control, ok
}

// Encode serialises the toggle state into hidden input values. Selected
// dates travel as the field value and are not part of the result.
func (s *Set) Encode() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := url.Values{}
	for _, id := range sortedKeys(s.passwords) {
		if s.passwords[id].revealed {
			out.Add(ParamRevealed, id)
		}
	}
	for _, id := range sortedKeys(s.dates) {
		if s.dates[id].open {
			out.Add(ParamOpen, id)
		}
	}
	return out
}

// Decode restores toggle state for registered controls from a submission.
// Ids that are not registered are ignored.
func (s *Set) Decode(values url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()

	revealed := values[ParamRevealed]
	for id, control := range s.passwords {
		control.revealed = slices.Contains(revealed, id)
	}
	open := values[ParamOpen]
	for id, control := range s.dates {
		control.open = slices.Contains(open, id)
		if raw, ok := values[id]; ok && len(raw) > 0 {
			control.selected = raw[0]
		}
	}
}

// Apply performs a decoded action against the registered controls.
func (s *Set) Apply(action Action) error {
	switch action.Kind {
	case ActionReveal:
		control, ok := s.LookupPassword(action.FieldID)
		if !ok {
			return fmt.Errorf("controls: no password control for %q", action.FieldID)
		}
		s.mu.Lock()
		control.Toggle()
		s.mu.Unlock()
		return nil
	case ActionCalendar, ActionDay:
		control, ok := s.LookupDate(action.FieldID)
		if !ok {
			return fmt.Errorf("controls: no date control for %q", action.FieldID)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if action.Kind == ActionCalendar {
			control.Toggle()
			return nil
		}
		return control.Select(action.Day)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action.Kind)
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
