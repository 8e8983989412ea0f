// Package form implements the Form Renderer: it walks the descriptor list,
// binds every supported field into a Validation Engine and exposes a
// renderer-neutral View of the current state.
package form

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"slices"
	"sync"

	"github.com/goliatone/go-dynamicform/pkg/controls"
	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/validation"
)

// multiBinder is implemented by engines that distinguish multi-value fields.
type multiBinder interface {
	BindMulti(fieldID string, rules model.Rules, options ...string) validation.Handlers
}

// seeder is implemented by engines that accept initial values without
// treating them as user input.
type seeder interface {
	Seed(fieldID string, values []string)
}

// Form is one live form instance. It is safe for concurrent use but is meant
// to back a single user interaction.
type Form struct {
	desc     model.Form
	fields   []model.Field
	engine   validation.Engine
	controls *controls.Set
	logger   *slog.Logger

	mu       sync.Mutex
	values   map[string][]string
	handlers map[string]validation.Handlers
}

// New validates desc, prepares the engine and binds every supported field.
func New(desc model.Form, opts ...Option) (*Form, error) {
	cfg := config{mode: validation.ModeAll}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.controls == nil {
		cfg.controls = controls.NewSet()
	}

	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}

	fields := make([]model.Field, 0, len(desc.Fields))
	for _, field := range desc.Fields {
		if field.Type.Supported() {
			fields = append(fields, field)
			continue
		}
		if cfg.policy == RejectUnknown {
			return nil, fmt.Errorf("%w: field %q has type %q", ErrUnsupportedFieldType, field.ID, field.Type)
		}
		cfg.logger.Debug("form: skipping unsupported field", "field", field.ID, "type", field.Type)
	}

	seed := initialValues(desc, fields, cfg.values)
	engine := cfg.engine
	if engine == nil {
		engine = validation.New(
			validation.WithMode(cfg.mode),
			validation.WithDefaultValues(seed),
			validation.WithLogger(cfg.logger),
		)
	}

	f := &Form{
		desc:     desc,
		fields:   fields,
		engine:   engine,
		controls: cfg.controls,
		logger:   cfg.logger,
		values:   make(map[string][]string, len(fields)),
		handlers: make(map[string]validation.Handlers, len(fields)),
	}
	injected := cfg.engine != nil
	for _, field := range fields {
		f.bind(field, seed[field.ID], injected)
	}
	return f, nil
}

// initialValues merges the descriptor defaults with an optional prior
// submission. A submission is authoritative for checkbox groups: a missing key
// means nothing is checked.
func initialValues(desc model.Form, fields []model.Field, submitted url.Values) map[string]any {
	seed := desc.DefaultValues()
	for _, field := range fields {
		if _, ok := seed[field.ID]; !ok && field.Value != "" && !field.Type.HasOptions() {
			seed[field.ID] = field.Value
		}
	}
	if submitted == nil {
		return seed
	}
	for _, field := range fields {
		raw, present := submitted[field.ID]
		switch {
		case field.Type.MultiValue():
			seed[field.ID] = append([]string{}, raw...)
		case present && len(raw) > 0:
			seed[field.ID] = raw[0]
		}
	}
	return seed
}

// bind registers field with the engine. push forwards the seed to engines
// that were not constructed with the defaults.
func (f *Form) bind(field model.Field, seed any, push bool) {
	rules := field.EffectiveRules()

	var handlers validation.Handlers
	if binder, ok := f.engine.(multiBinder); ok && field.Type.MultiValue() {
		options := make([]string, 0, len(field.Options))
		for _, option := range field.Options {
			options = append(options, option.Value)
		}
		handlers = binder.BindMulti(field.ID, rules, options...)
	} else {
		handlers = f.engine.Bind(field.ID, rules)
	}

	switch typed := seed.(type) {
	case string:
		f.values[field.ID] = []string{typed}
	case []string:
		f.values[field.ID] = slices.Clone(typed)
	}

	switch field.Type {
	case model.FieldTypePassword:
		f.controls.Password(field.ID)
	case model.FieldTypeDate:
		initial := ""
		if values := f.values[field.ID]; len(values) > 0 {
			initial = values[0]
		}
		f.controls.Date(field.ID, initial)
	}

	if push {
		f.seedEngine(field, handlers)
	}
	f.handlers[field.ID] = f.mirror(field, handlers)
}

// seedEngine hands the initial values of field to the engine. Engines without
// Seed receive them through the change handlers, never through blur.
func (f *Form) seedEngine(field model.Field, inner validation.Handlers) {
	values, ok := f.values[field.ID]
	if !ok {
		return
	}
	if s, ok := f.engine.(seeder); ok {
		s.Seed(field.ID, slices.Clone(values))
		return
	}
	switch {
	case field.Type.MultiValue() && inner.OnReplace != nil:
		inner.OnReplace(slices.Clone(values))
	case field.Type.MultiValue() && inner.OnToggle != nil:
		for _, value := range values {
			inner.OnToggle(value, true)
		}
	case !field.Type.MultiValue() && inner.OnChange != nil && len(values) > 0:
		inner.OnChange(values[0])
	}
}

// mirror wraps engine handlers so the form keeps its own copy of the values
// for rendering, independent of the engine implementation.
func (f *Form) mirror(field model.Field, inner validation.Handlers) validation.Handlers {
	id := field.ID
	order := make([]string, 0, len(field.Options))
	for _, option := range field.Options {
		order = append(order, option.Value)
	}

	return validation.Handlers{
		Name: inner.Name,
		OnChange: func(value string) {
			f.mu.Lock()
			f.values[id] = []string{value}
			f.mu.Unlock()
			if field.Type == model.FieldTypeDate {
				if picker, ok := f.controls.LookupDate(id); ok {
					picker.SetValue(value)
				}
			}
			if inner.OnChange != nil {
				inner.OnChange(value)
			}
		},
		OnToggle: func(value string, checked bool) {
			f.mu.Lock()
			current := slices.DeleteFunc(slices.Clone(f.values[id]), func(v string) bool { return v == value })
			if checked {
				current = append(current, value)
			}
			f.values[id] = sortByOptions(current, order)
			f.mu.Unlock()
			if inner.OnToggle != nil {
				inner.OnToggle(value, checked)
			}
		},
		OnReplace: func(values []string) {
			f.mu.Lock()
			f.values[id] = sortByOptions(slices.Clone(values), order)
			f.mu.Unlock()
			switch {
			case inner.OnReplace != nil:
				inner.OnReplace(values)
			case inner.OnToggle != nil:
				for _, option := range order {
					inner.OnToggle(option, slices.Contains(values, option))
				}
			}
		},
		OnBlur: func() {
			if inner.OnBlur != nil {
				inner.OnBlur()
			}
		},
	}
}

func sortByOptions(values, order []string) []string {
	if len(order) == 0 {
		return values
	}
	rank := func(v string) int {
		if idx := slices.Index(order, v); idx >= 0 {
			return idx
		}
		return len(order)
	}
	slices.SortStableFunc(values, func(a, b string) int { return rank(a) - rank(b) })
	return values
}

// Descriptor returns the form description the instance was built from.
func (f *Form) Descriptor() model.Form {
	return f.desc
}

// Fields returns the supported descriptors in render order.
func (f *Form) Fields() []model.Field {
	return slices.Clone(f.fields)
}

// Engine exposes the bound Validation Engine.
func (f *Form) Engine() validation.Engine {
	return f.engine
}

// Controls exposes the renderer-local control state.
func (f *Form) Controls() *controls.Set {
	return f.controls
}

// Handlers returns the bound handlers for id.
func (f *Form) Handlers(id string) (validation.Handlers, bool) {
	handlers, ok := f.handlers[id]
	return handlers, ok
}

// Apply feeds a submission through the field handlers: each field receives a
// change followed by a blur, as if the user had typed and left the control.
// Every rendered field is part of an HTML submission, so missing keys mean an
// empty value.
func (f *Form) Apply(values url.Values) {
	for _, field := range f.fields {
		handlers := f.handlers[field.ID]
		if field.Type.MultiValue() {
			handlers.OnReplace(append([]string{}, values[field.ID]...))
		} else {
			handlers.OnChange(values.Get(field.ID))
		}
		handlers.OnBlur()
	}
}

// Toggle performs a control action ("reveal:<id>", "calendar:<id>" or
// "day:<id>:<n>"). Choosing a day also updates the field value.
func (f *Form) Toggle(raw string) error {
	action, err := controls.ParseAction(raw)
	if err != nil {
		return fmt.Errorf("form: %w", err)
	}
	handlers, ok := f.handlers[action.FieldID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, action.FieldID)
	}
	if err := f.controls.Apply(action); err != nil {
		return fmt.Errorf("form: %w", err)
	}
	f.logger.Debug("form: control action", "kind", action.Kind, "field", action.FieldID)
	if action.Kind == controls.ActionDay {
		if picker, ok := f.controls.LookupDate(action.FieldID); ok {
			handlers.OnChange(picker.Value())
			handlers.OnBlur()
		}
	}
	return nil
}

// Submit runs fn through the engine's submit gate.
func (f *Form) Submit(ctx context.Context, fn validation.SubmitFunc) error {
	return f.engine.HandleSubmit(fn)(ctx)
}

// Errors returns the engine's error read model restricted to rendered fields.
func (f *Form) Errors() map[string]string {
	all := f.engine.Errors()
	out := make(map[string]string, len(all))
	for _, field := range f.fields {
		if msg, ok := all[field.ID]; ok && msg != "" {
			out[field.ID] = msg
		}
	}
	return out
}

// Valid reports whether the error set is empty.
func (f *Form) Valid() bool {
	return len(f.Errors()) == 0
}

func (f *Form) currentValues(id string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.values[id])
}
