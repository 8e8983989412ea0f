package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-dynamicform/pkg/controls"
	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/validation"
)

// Renderer drives a form through terminal prompts. Answers flow through the
// row handlers, so validation and the submit gate are the same as for HTML.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	maxAttempts       int
	theme             Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Run.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Run prompts every row in order, re-prompting while the engine reports an
// error for it, then submits. submit may be nil; the serialised values are
// returned either way.
func (r *Renderer) Run(ctx context.Context, f *form.Form, submit validation.SubmitFunc) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if f == nil {
		return nil, errors.New("tui: form is required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	for _, row := range f.View().Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.promptUntilValid(ctx, f, row.Field.ID); err != nil {
			return nil, err
		}
	}

	var collected map[string]any
	err := f.Submit(ctx, func(ctx context.Context, values validation.Values) error {
		collected = map[string]any(values)
		if submit != nil {
			return submit(ctx, values)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tui: submit: %w", err)
	}

	if r.submitTransformer != nil {
		collected, err = r.submitTransformer(collected)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(collected)
}

func (r *Renderer) promptUntilValid(ctx context.Context, f *form.Form, id string) error {
	for attempt := 1; ; attempt++ {
		row, ok := f.View().Lookup(id)
		if !ok {
			return fmt.Errorf("tui: %w: %q", form.ErrUnknownField, id)
		}
		if err := r.promptRow(ctx, f, row); err != nil {
			return err
		}

		message := f.Errors()[id]
		if message == "" {
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return err
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, id)
		}
	}
}

func (r *Renderer) promptRow(ctx context.Context, f *form.Form, row form.Row) error {
	switch row.Field.Type {
	case model.FieldTypePassword:
		return r.promptPassword(ctx, f, row)
	case model.FieldTypeTextarea:
		value, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: r.message(row),
			Default: row.Value,
			Check:   check(f, row),
		})
		if err != nil {
			return err
		}
		commit(row, value)
		return nil
	case model.FieldTypeSelect, model.FieldTypeRadio:
		return r.promptChoice(ctx, row)
	case model.FieldTypeCheckbox:
		return r.promptMulti(ctx, row)
	case model.FieldTypeDate:
		return r.promptDate(ctx, f, row)
	default:
		value, err := r.driver.Input(ctx, InputConfig{
			Message:     r.message(row),
			Default:     row.Value,
			Placeholder: row.Field.Placeholder,
			Check:       check(f, row),
		})
		if err != nil {
			return err
		}
		commit(row, value)
		return nil
	}
}

func (r *Renderer) promptPassword(ctx context.Context, f *form.Form, row form.Row) error {
	revealed := row.Password != nil && row.Password.Revealed
	if !revealed && row.Password != nil {
		show, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: row.Password.AriaLabel + "?",
		})
		if err != nil {
			return err
		}
		if show {
			if err := f.Toggle(controls.RevealAction(row.Field.ID)); err != nil {
				return err
			}
			revealed = true
		}
	}

	cfg := InputConfig{Message: r.message(row), Placeholder: row.Field.Placeholder, Check: check(f, row)}
	var (
		value string
		err   error
	)
	if revealed {
		cfg.Default = row.Value
		value, err = r.driver.Input(ctx, cfg)
	} else {
		value, err = r.driver.Password(ctx, cfg)
	}
	if err != nil {
		return err
	}
	commit(row, value)
	return nil
}

func (r *Renderer) promptChoice(ctx context.Context, row form.Row) error {
	options := optionLabels(row.Options)
	defaultIndex := 0
	for idx, option := range row.Options {
		if option.Checked {
			defaultIndex = idx
			break
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      r.message(row),
		Options:      options,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return err
	}
	value := ""
	if idx >= 0 && idx < len(row.Options) {
		value = row.Options[idx].Value
	}
	commit(row, value)
	return nil
}

func (r *Renderer) promptMulti(ctx context.Context, row form.Row) error {
	var defaults []int
	for idx, option := range row.Options {
		if option.Checked {
			defaults = append(defaults, idx)
		}
	}
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  r.message(row),
		Options:  optionLabels(row.Options),
		Defaults: defaults,
	})
	if err != nil {
		return err
	}
	values := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(row.Options) {
			values = append(values, row.Options[idx].Value)
		}
	}
	if row.Handlers.OnReplace != nil {
		row.Handlers.OnReplace(values)
	}
	if row.Handlers.OnBlur != nil {
		row.Handlers.OnBlur()
	}
	return nil
}

// promptDate offers the static calendar as a select; choosing a day goes
// through the same control action the HTML day buttons use.
func (r *Renderer) promptDate(ctx context.Context, f *form.Form, row form.Row) error {
	days := controls.NewDatePicker("").Days()
	labels := make([]string, 0, len(days))
	defaultIndex := 0
	current := ""
	if row.Date != nil {
		current = row.Date.Value
	}
	for idx, day := range days {
		labels = append(labels, day.Label)
		if day.ISO == current {
			defaultIndex = idx
		}
	}

	help := fmt.Sprintf("%s %d", controls.CalendarMonth, controls.CalendarYear)
	if row.Date != nil && row.Date.Display != "" {
		help += ", current " + row.Date.Display
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      r.message(row),
		Options:      labels,
		DefaultIndex: defaultIndex,
		Help:         help,
		PageSize:     7,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(days) {
		return fmt.Errorf("tui: %w", controls.ErrDayOutOfRange)
	}
	return f.Toggle(controls.DayAction(row.Field.ID, days[idx].Number))
}

func (r *Renderer) message(row form.Row) string {
	label := row.Field.Label
	if label == "" {
		label = row.Field.ID
	}
	return r.theme.PromptPrefix + label
}

// check feeds a candidate answer through the row handlers and reports the
// engine's message for the field.
func check(f *form.Form, row form.Row) Check {
	return func(answer string) string {
		commit(row, answer)
		return f.Errors()[row.Field.ID]
	}
}

func commit(row form.Row, value string) {
	if row.Handlers.OnChange != nil {
		row.Handlers.OnChange(value)
	}
	if row.Handlers.OnBlur != nil {
		row.Handlers.OnBlur()
	}
}

func optionLabels(options []form.OptionView) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		out = append(out, label)
	}
	return out
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case []string:
			for _, item := range v {
				flattened.Add(key, item)
			}
		case []any:
			for _, item := range v {
				flattened.Add(key, fmt.Sprint(item))
			}
		default:
			flattened.Set(key, fmt.Sprint(v))
		}
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case []string:
			fmt.Fprintf(&b, "%s=%s\n", key, strings.Join(v, ", "))
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
