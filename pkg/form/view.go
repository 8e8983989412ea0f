package form

import (
	"net/url"
	"slices"

	"github.com/goliatone/go-dynamicform/pkg/controls"
	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/validation"
)

// View is the renderer-neutral snapshot of a form.
type View struct {
	ID           string
	Action       string
	Method       string
	CSSFramework string
	Layout       *model.Layout
	Rows         []Row
	Button       model.Button
	Errors       map[string]string
	// ControlState holds the hidden inputs that carry control toggles across
	// a server round trip.
	ControlState url.Values
}

// Row is one rendered field.
type Row struct {
	Field    model.Field
	Handlers validation.Handlers
	Error    string
	Value    string
	Values   []string
	Options  []OptionView
	Password *PasswordView
	Date     *DateView
}

// HasError reports whether the row carries an error message.
func (r Row) HasError() bool {
	return r.Error != ""
}

// ErrorID is the id used to associate the error message with the control.
func (r Row) ErrorID() string {
	if r.Field.Error.ID != "" {
		return r.Field.Error.ID
	}
	return r.Field.ID + "-error"
}

// OptionView is one option with its control id and checked/selected state.
type OptionView struct {
	model.Option
	ControlID string
	Checked   bool
}

// PasswordView is the reveal toggle state of a password row.
type PasswordView struct {
	InputType string
	AriaLabel string
	Revealed  bool
	Action    string
}

// DateView is the picker state of a date row.
type DateView struct {
	Display      string
	Value        string
	Open         bool
	ToggleAction string
	Days         []DayView
}

// DayView is one button of the calendar popup.
type DayView struct {
	controls.Day
	Action string
}

// Lookup returns the row for id.
func (v View) Lookup(id string) (Row, bool) {
	for _, row := range v.Rows {
		if row.Field.ID == id {
			return row, true
		}
	}
	return Row{}, false
}

// View builds the current snapshot. The button is disabled while the error set
// is non-empty or when the descriptor disables it.
func (f *Form) View() View {
	errs := f.Errors()

	view := View{
		ID:           f.desc.ID,
		Action:       f.desc.Action,
		Method:       f.desc.EffectiveMethod(),
		CSSFramework: f.desc.CSSFramework,
		Layout:       f.desc.Layout,
		Rows:         make([]Row, 0, len(f.fields)),
		Button:       f.desc.Button,
		Errors:       errs,
		ControlState: f.controls.Encode(),
	}
	view.Button.Type = view.Button.EffectiveType()
	view.Button.Disabled = f.desc.Button.Disabled || len(errs) > 0

	for _, field := range f.fields {
		view.Rows = append(view.Rows, f.row(field, errs[field.ID]))
	}
	return view
}

func (f *Form) row(field model.Field, message string) Row {
	values := f.currentValues(field.ID)
	row := Row{
		Field:    field,
		Handlers: f.handlers[field.ID],
		Error:    message,
		Values:   values,
	}
	if len(values) > 0 {
		row.Value = values[0]
	}

	if field.Type.HasOptions() {
		row.Options = make([]OptionView, 0, len(field.Options))
		for _, option := range field.Options {
			checked := slices.Contains(values, option.Value)
			if field.Type != model.FieldTypeCheckbox {
				checked = row.Value == option.Value
			}
			row.Options = append(row.Options, OptionView{
				Option:    option,
				ControlID: field.ControlID(option.Value),
				Checked:   checked,
			})
		}
	}

	switch field.Type {
	case model.FieldTypePassword:
		reveal := f.controls.Password(field.ID)
		row.Password = &PasswordView{
			InputType: reveal.InputType(),
			AriaLabel: reveal.AriaLabel(),
			Revealed:  reveal.Revealed(),
			Action:    controls.RevealAction(field.ID),
		}
	case model.FieldTypeDate:
		picker := f.controls.Date(field.ID, row.Value)
		date := &DateView{
			Display:      picker.Display(),
			Value:        picker.Value(),
			Open:         picker.Open(),
			ToggleAction: controls.CalendarAction(field.ID),
		}
		if date.Open {
			for _, day := range picker.Days() {
				date.Days = append(date.Days, DayView{Day: day, Action: controls.DayAction(field.ID, day.Number)})
			}
		}
		row.Date = date
	}
	return row
}
