package validation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	validatorV10 "github.com/go-playground/validator/v10"

	"github.com/goliatone/go-dynamicform/pkg/model"
)

// Option configures a State.
type Option func(*State)

// WithMode selects when validation runs. Defaults to ModeAll.
func WithMode(mode Mode) Option {
	return func(s *State) {
		if mode != "" {
			s.mode = mode
		}
	}
}

// WithDefaultValues seeds the initial field values. Accepted value types are
// string, []string and anything fmt can print.
func WithDefaultValues(values map[string]any) Option {
	return func(s *State) {
		s.defaults = values
	}
}

// WithLogger attaches a structured logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidator reuses an existing validator instance.
func WithValidator(v *validatorV10.Validate) Option {
	return func(s *State) {
		if v != nil {
			s.validate = v
		}
	}
}

// FieldState is a snapshot of one bound field.
type FieldState struct {
	Values  []string
	Dirty   bool
	Touched bool
	Error   string
}

// Value returns the first value, or "" when the field is empty.
func (f FieldState) Value() string {
	if len(f.Values) == 0 {
		return ""
	}
	return f.Values[0]
}

type fieldRecord struct {
	id      string
	multi   bool
	values  []string
	initial []string
	options []string
	dirty   bool
	touched bool
	err     string
	rules   compiledRules
}

// State is the default Engine: an in-memory map of field records scoped to one
// form lifetime.
type State struct {
	mu        sync.Mutex
	mode      Mode
	validate  *validatorV10.Validate
	logger    *slog.Logger
	defaults  map[string]any
	order     []string
	fields    map[string]*fieldRecord
	submitted bool
}

var _ Engine = (*State)(nil)

// New constructs an empty State.
func New(opts ...Option) *State {
	state := &State{
		mode:   ModeAll,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		fields: make(map[string]*fieldRecord),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(state)
		}
	}
	if state.validate == nil {
		state.validate = validatorV10.New()
	}
	return state
}

// Mode reports the configured validation mode.
func (s *State) Mode() Mode {
	return s.mode
}

// Bind registers fieldID with its rules and returns the event handlers.
// Binding the same id again refreshes the rules and keeps the current values,
// so every option of a checkbox group can bind the shared id.
func (s *State) Bind(fieldID string, rules model.Rules) Handlers {
	s.mu.Lock()
	record := s.bindLocked(fieldID, rules, false)
	s.mu.Unlock()
	return s.handlers(record)
}

// BindMulti registers a multi-value field (checkbox group). When options is
// given, collected values are kept in that order.
func (s *State) BindMulti(fieldID string, rules model.Rules, options ...string) Handlers {
	s.mu.Lock()
	record := s.bindLocked(fieldID, rules, true)
	if len(options) > 0 {
		record.options = slices.Clone(options)
	}
	s.mu.Unlock()
	return s.handlers(record)
}

func (s *State) bindLocked(fieldID string, rules model.Rules, multi bool) *fieldRecord {
	compiled, err := compileRules(rules)
	if err != nil {
		s.logger.Warn("validation: ignoring pattern rule", "field", fieldID, "error", err)
		rules.Pattern = nil
		compiled = compiledRules{rules: rules}
	}

	if record, ok := s.fields[fieldID]; ok {
		record.rules = compiled
		record.multi = record.multi || multi
		return record
	}

	initial := seedValues(s.defaults[fieldID])
	record := &fieldRecord{
		id:      fieldID,
		multi:   multi,
		values:  slices.Clone(initial),
		initial: initial,
		rules:   compiled,
	}
	s.fields[fieldID] = record
	s.order = append(s.order, fieldID)
	return record
}

func (s *State) handlers(record *fieldRecord) Handlers {
	id := record.id
	return Handlers{
		Name: id,
		OnChange: func(value string) {
			s.update(id, func(r *fieldRecord) {
				r.values = []string{value}
			})
		},
		OnToggle: func(value string, checked bool) {
			s.update(id, func(r *fieldRecord) {
				r.values = r.ordered(toggle(r.values, value, checked))
			})
		},
		OnReplace: func(values []string) {
			s.update(id, func(r *fieldRecord) {
				r.values = r.ordered(slices.Clone(values))
			})
		},
		OnBlur: func() {
			s.blur(id)
		},
	}
}

func (s *State) update(id string, mutate func(*fieldRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.fields[id]
	if !ok {
		return
	}
	mutate(record)
	record.dirty = !slices.Equal(record.values, record.initial)
	if s.mode.validatesOnChange(record.touched, s.submitted) {
		s.validateLocked(record)
	}
}

func (s *State) blur(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.fields[id]
	if !ok {
		return
	}
	record.touched = true
	if s.mode.validatesOnBlur() {
		s.validateLocked(record)
	}
}

func (s *State) validateLocked(record *fieldRecord) bool {
	record.err = record.rules.check(s.validate, record.values, record.multi)
	return record.err == ""
}

// Trigger validates the given fields, or every bound field when ids is empty,
// and reports whether they are all valid.
func (s *State) Trigger(ids ...string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) == 0 {
		ids = s.order
	}
	valid := true
	for _, id := range ids {
		if record, ok := s.fields[id]; ok {
			if !s.validateLocked(record) {
				valid = false
			}
		}
	}
	return valid
}

// SetError records an externally computed error for a bound field, such as a
// server-side rejection. An empty message clears it.
func (s *State) SetError(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.fields[id]; ok {
		record.err = message
	}
}

// ClearErrors drops every recorded error.
func (s *State) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.fields {
		record.err = ""
	}
}

// Errors returns the current error message per field id. Valid fields are
// absent from the map.
func (s *State) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string)
	for id, record := range s.fields {
		if record.err != "" {
			out[id] = record.err
		}
	}
	return out
}

// Values collects the current value map: a string per scalar field and a
// []string per multi-value field.
func (s *State) Values() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valuesLocked()
}

func (s *State) valuesLocked() Values {
	out := make(Values, len(s.fields))
	for id, record := range s.fields {
		if record.multi {
			values := slices.Clone(record.values)
			if values == nil {
				values = []string{}
			}
			out[id] = values
			continue
		}
		if len(record.values) > 0 {
			out[id] = record.values[0]
		} else {
			out[id] = ""
		}
	}
	return out
}

// FieldState returns the snapshot for id.
func (s *State) FieldState(id string) (FieldState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.fields[id]
	if !ok {
		return FieldState{}, false
	}
	return FieldState{
		Values:  slices.Clone(record.values),
		Dirty:   record.dirty,
		Touched: record.touched,
		Error:   record.err,
	}, true
}

// Seed sets the initial values of a bound field. The field stays pristine and
// is not validated.
func (s *State) Seed(fieldID string, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.fields[fieldID]
	if !ok {
		return
	}
	record.initial = record.ordered(slices.Clone(values))
	record.values = slices.Clone(record.initial)
	record.dirty = false
}

// Reset restores every bound field to the supplied defaults (or its initial
// values when defaults is nil) and clears touched, dirty and error state.
func (s *State) Reset(defaults map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if defaults != nil {
		s.defaults = defaults
	}
	s.submitted = false
	for id, record := range s.fields {
		if defaults != nil {
			record.initial = seedValues(defaults[id])
		}
		record.values = slices.Clone(record.initial)
		record.dirty = false
		record.touched = false
		record.err = ""
	}
}

// HandleSubmit wraps fn so it only runs when every bound field is valid. All
// fields are marked touched and validated first; on failure the wrapper
// returns ErrSubmitBlocked and fn is not called.
func (s *State) HandleSubmit(fn SubmitFunc) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}

		s.mu.Lock()
		s.submitted = true
		var invalid []string
		for _, id := range s.order {
			record := s.fields[id]
			record.touched = true
			if !s.validateLocked(record) {
				invalid = append(invalid, id)
			}
		}
		values := s.valuesLocked()
		s.mu.Unlock()

		if len(invalid) > 0 {
			sort.Strings(invalid)
			s.logger.Debug("validation: submit blocked", "fields", invalid)
			return fmt.Errorf("%w: %s", ErrSubmitBlocked, strings.Join(invalid, ", "))
		}
		if fn == nil {
			return nil
		}
		s.logger.Debug("validation: submitting", "fields", len(values))
		return fn(ctx, values)
	}
}

// ordered sorts values by their option position; unknown values keep their
// relative order after the known ones.
func (r *fieldRecord) ordered(values []string) []string {
	if len(r.options) == 0 || len(values) < 2 {
		return values
	}
	rank := func(v string) int {
		if idx := slices.Index(r.options, v); idx >= 0 {
			return idx
		}
		return len(r.options)
	}
	sort.SliceStable(values, func(i, j int) bool {
		return rank(values[i]) < rank(values[j])
	})
	return values
}

func toggle(values []string, value string, checked bool) []string {
	idx := slices.Index(values, value)
	switch {
	case checked && idx < 0:
		return append(slices.Clone(values), value)
	case !checked && idx >= 0:
		return slices.Delete(slices.Clone(values), idx, idx+1)
	default:
		return values
	}
}

func seedValues(raw any) []string {
	switch typed := raw.(type) {
	case nil:
		return nil
	case string:
		return []string{typed}
	case []string:
		return slices.Clone(typed)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(typed)}
	}
}
