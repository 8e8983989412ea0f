// Package controls keeps the transient per-field UI state renderers own: the
// password reveal toggle and the date picker calendar. None of it is part of
// the submitted values.
package controls

import (
	"errors"
	"fmt"
	"time"
)

const (
	// CalendarYear and CalendarMonth fix the month the date picker offers.
	CalendarYear  = 2023
	CalendarMonth = time.October
	// CalendarDays is the length of the static day list.
	CalendarDays = 31

	isoLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
)

// ErrDayOutOfRange is returned when a day outside 1..31 is selected.
var ErrDayOutOfRange = errors.New("controls: day out of range")

// PasswordReveal flips a password input between masked and plain text.
type PasswordReveal struct {
	revealed bool
}

func (p *PasswordReveal) Toggle() {
	p.revealed = !p.revealed
}

func (p *PasswordReveal) Revealed() bool {
	return p.revealed
}

// InputType is the effective type attribute for the input.
func (p *PasswordReveal) InputType() string {
	if p.revealed {
		return "text"
	}
	return "password"
}

// AriaLabel describes what the toggle button does next.
func (p *PasswordReveal) AriaLabel() string {
	if p.revealed {
		return "Hide password"
	}
	return "Show password"
}

// Day is one entry of the static calendar.
type Day struct {
	Number   int
	Label    string
	ISO      string
	Selected bool
}

// DatePicker holds the chosen date and whether the calendar is open.
type DatePicker struct {
	open     bool
	selected string
}

// NewDatePicker starts a picker with an initial ISO date (may be empty).
func NewDatePicker(initial string) *DatePicker {
	return &DatePicker{selected: initial}
}

func (d *DatePicker) Toggle() {
	d.open = !d.open
}

func (d *DatePicker) Open() bool {
	return d.open
}

// Value is the selected ISO date, "" when nothing was chosen.
func (d *DatePicker) Value() string {
	return d.selected
}

// SetValue replaces the selected date without touching the open flag.
func (d *DatePicker) SetValue(iso string) {
	d.selected = iso
}

// Select picks a day of the fixed month and closes the calendar. The day is
// not checked against the month length.
func (d *DatePicker) Select(day int) error {
	if day < 1 || day > CalendarDays {
		return fmt.Errorf("%w: %d", ErrDayOutOfRange, day)
	}
	d.selected = isoDate(day)
	d.open = false
	return nil
}

// Display formats the selected date as DD/MM/YYYY. Values that are not ISO
// dates are shown as is.
func (d *DatePicker) Display() string {
	if d.selected == "" {
		return ""
	}
	parsed, err := time.Parse(isoLayout, d.selected)
	if err != nil {
		return d.selected
	}
	return parsed.Format(displayLayout)
}

// Days lists the calendar entries 01..31.
func (d *DatePicker) Days() []Day {
	days := make([]Day, 0, CalendarDays)
	for n := 1; n <= CalendarDays; n++ {
		iso := isoDate(n)
		days = append(days, Day{
			Number:   n,
			Label:    fmt.Sprintf("%02d", n),
			ISO:      iso,
			Selected: d != nil && d.selected == iso,
		})
	}
	return days
}

func isoDate(day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", CalendarYear, int(CalendarMonth), day)
}
