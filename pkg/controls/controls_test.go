package controls_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynamicform/pkg/controls"
)

func TestPasswordReveal_Toggle(t *testing.T) {
	var reveal controls.PasswordReveal
	if reveal.InputType() != "password" || reveal.AriaLabel() != "Show password" {
		t.Fatalf("expected masked default, got %q / %q", reveal.InputType(), reveal.AriaLabel())
	}

	reveal.Toggle()
	if reveal.InputType() != "text" || reveal.AriaLabel() != "Hide password" {
		t.Fatalf("expected revealed input, got %q / %q", reveal.InputType(), reveal.AriaLabel())
	}

	reveal.Toggle()
	if reveal.Revealed() {
		t.Fatalf("expected second toggle to mask again")
	}
}

func TestDatePicker_SelectClosesCalendar(t *testing.T) {
	picker := controls.NewDatePicker("")
	picker.Toggle()
	if !picker.Open() {
		t.Fatalf("expected calendar open after toggle")
	}

	if err := picker.Select(7); err != nil {
		t.Fatalf("select: %v", err)
	}
	if picker.Open() {
		t.Fatalf("expected calendar closed after select")
	}
	if picker.Value() != "2023-10-07" {
		t.Fatalf("unexpected value %q", picker.Value())
	}
	if picker.Display() != "07/10/2023" {
		t.Fatalf("unexpected display %q", picker.Display())
	}
}

func TestDatePicker_SelectOutOfRange(t *testing.T) {
	picker := controls.NewDatePicker("2023-10-01")
	for _, day := range []int{0, 32} {
		if err := picker.Select(day); !errors.Is(err, controls.ErrDayOutOfRange) {
			t.Fatalf("day %d: expected ErrDayOutOfRange, got %v", day, err)
		}
	}
	if picker.Value() != "2023-10-01" {
		t.Fatalf("value should be unchanged, got %q", picker.Value())
	}
}

func TestDatePicker_Days(t *testing.T) {
	picker := controls.NewDatePicker("2023-10-31")
	days := picker.Days()
	if len(days) != 31 {
		t.Fatalf("expected 31 days, got %d", len(days))
	}
	if days[0].Label != "01" || days[0].ISO != "2023-10-01" {
		t.Fatalf("unexpected first day %+v", days[0])
	}
	if !days[30].Selected || days[30].Label != "31" {
		t.Fatalf("expected last day selected, got %+v", days[30])
	}
}

func TestDatePicker_DisplayFallsBackToRaw(t *testing.T) {
	if got := controls.NewDatePicker("next week").Display(); got != "next week" {
		t.Fatalf("unexpected display %q", got)
	}
	if got := controls.NewDatePicker("").Display(); got != "" {
		t.Fatalf("expected empty display, got %q", got)
	}
}

func TestParseAction(t *testing.T) {
	cases := map[string]controls.Action{
		"reveal:password":    {Kind: controls.ActionReveal, FieldID: "password"},
		"calendar:birthday":  {Kind: controls.ActionCalendar, FieldID: "birthday"},
		"day:birthday:12":    {Kind: controls.ActionDay, FieldID: "birthday", Day: 12},
		"day:with:colon:3":   {Kind: controls.ActionDay, FieldID: "with:colon", Day: 3},
		" reveal:padded-id ": {Kind: controls.ActionReveal, FieldID: "padded-id"},
	}
	for raw, want := range cases {
		got, err := controls.ParseAction(raw)
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", raw, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ParseAction(%q) mismatch (-want +got):\n%s", raw, diff)
		}
	}

	for _, raw := range []string{"", "reveal", "zoom:x", "day:x", "day:x:y"} {
		if _, err := controls.ParseAction(raw); !errors.Is(err, controls.ErrUnknownAction) {
			t.Errorf("ParseAction(%q): expected ErrUnknownAction, got %v", raw, err)
		}
	}
}

func TestSet_EncodeDecodeRoundTrip(t *testing.T) {
	set := controls.NewSet()
	set.Password("password").Toggle()
	set.Password("confirm")
	set.Date("birthday", "").Toggle()

	encoded := set.Encode()
	want := url.Values{
		controls.ParamRevealed: {"password"},
		controls.ParamOpen:     {"birthday"},
	}
	if diff := cmp.Diff(want, encoded); diff != "" {
		t.Fatalf("encoded mismatch (-want +got):\n%s", diff)
	}

	restored := controls.NewSet()
	restored.Password("password")
	restored.Password("confirm")
	restored.Date("birthday", "")
	encoded.Set("birthday", "2023-10-05")
	restored.Decode(encoded)

	if !restored.Password("password").Revealed() || restored.Password("confirm").Revealed() {
		t.Fatalf("reveal state not restored")
	}
	picker := restored.Date("birthday", "")
	if !picker.Open() || picker.Value() != "2023-10-05" {
		t.Fatalf("date state not restored: open=%v value=%q", picker.Open(), picker.Value())
	}
}

func TestSet_Apply(t *testing.T) {
	set := controls.NewSet()
	set.Password("password")
	set.Date("birthday", "")

	for _, raw := range []string{"reveal:password", "calendar:birthday", "day:birthday:9"} {
		action, err := controls.ParseAction(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if err := set.Apply(action); err != nil {
			t.Fatalf("apply %q: %v", raw, err)
		}
	}

	if !set.Password("password").Revealed() {
		t.Fatalf("expected password revealed")
	}
	picker := set.Date("birthday", "")
	if picker.Open() || picker.Value() != "2023-10-09" {
		t.Fatalf("unexpected picker state open=%v value=%q", picker.Open(), picker.Value())
	}

	if err := set.Apply(controls.Action{Kind: controls.ActionReveal, FieldID: "missing"}); err == nil {
		t.Fatalf("expected error for unknown control")
	}
}
