package validation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/validation"
)

func TestState_RequiredOnBlur(t *testing.T) {
	state := validation.New()
	handlers := state.Bind("name", model.Rules{
		Required: &model.RequiredRule{Message: "Name is required"},
	})

	if got := state.Errors(); len(got) != 0 {
		t.Fatalf("expected no errors before interaction, got %v", got)
	}

	handlers.OnBlur()
	if diff := cmp.Diff(map[string]string{"name": "Name is required"}, state.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	handlers.OnChange("Ada")
	if got := state.Errors(); len(got) != 0 {
		t.Fatalf("expected error cleared after change, got %v", got)
	}
}

func TestState_DefaultMessages(t *testing.T) {
	state := validation.New()
	name := state.Bind("name", model.Rules{Required: &model.RequiredRule{}})
	code := state.Bind("code", model.Rules{Pattern: &model.PatternRule{Value: "^[A-Z]+$"}})
	qty := state.Bind("qty", model.Rules{Max: &model.BoundRule{Value: 2.5}})

	name.OnBlur()
	code.OnChange("abc")
	qty.OnChange("3")

	want := map[string]string{
		"name": validation.DefaultRequiredMessage,
		"code": validation.DefaultPatternMessage,
		"qty":  "Must be at most 2.5",
	}
	if diff := cmp.Diff(want, state.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestState_LengthBoundaries(t *testing.T) {
	rules := model.Rules{
		MinLength: &model.LengthRule{Value: 3, Message: "too short"},
		MaxLength: &model.LengthRule{Value: 5, Message: "too long"},
	}

	cases := []struct {
		value string
		want  string
	}{
		{value: "ab", want: "too short"},
		{value: "abc"},
		{value: "abcde"},
		{value: "abcdef", want: "too long"},
		{value: "ñáé"},
		{value: ""},
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			state := validation.New()
			handlers := state.Bind("nick", rules)
			handlers.OnChange(tc.value)
			handlers.OnBlur()
			if got := state.Errors()["nick"]; got != tc.want {
				t.Fatalf("value %q: expected %q, got %q", tc.value, tc.want, got)
			}
		})
	}
}

func TestState_NumericBounds(t *testing.T) {
	rules := model.Rules{
		Min: &model.BoundRule{Value: 18, Message: "too young"},
		Max: &model.BoundRule{Value: 65, Message: "too old"},
	}

	cases := map[string]string{
		"16":  "too young",
		"18":  "",
		"25":  "",
		"65":  "",
		"66":  "too old",
		"abc": "",
	}

	for value, want := range cases {
		state := validation.New()
		handlers := state.Bind("age", rules)
		handlers.OnChange(value)
		handlers.OnBlur()
		if got := state.Errors()["age"]; got != want {
			t.Errorf("value %q: expected %q, got %q", value, want, got)
		}
	}
}

func TestState_RuleOrderFirstFailureWins(t *testing.T) {
	state := validation.New()
	handlers := state.Bind("code", model.Rules{
		MinLength: &model.LengthRule{Value: 4, Message: "short"},
		Pattern:   &model.PatternRule{Value: "^[0-9]+$", Message: "digits"},
	})

	handlers.OnChange("ab")
	if got := state.Errors()["code"]; got != "short" {
		t.Fatalf("expected minLength to win, got %q", got)
	}
	handlers.OnChange("abcd")
	if got := state.Errors()["code"]; got != "digits" {
		t.Fatalf("expected pattern failure, got %q", got)
	}
}

func TestState_SubmitBlockedWhileInvalid(t *testing.T) {
	state := validation.New()
	state.Bind("email", model.Rules{Required: &model.RequiredRule{Message: "Email is required"}})

	calls := 0
	submit := state.HandleSubmit(func(context.Context, validation.Values) error {
		calls++
		return nil
	})

	err := submit(context.Background())
	if !errors.Is(err, validation.ErrSubmitBlocked) {
		t.Fatalf("expected ErrSubmitBlocked, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("submit callback should not run, ran %d times", calls)
	}

	snapshot, ok := state.FieldState("email")
	if !ok || !snapshot.Touched || snapshot.Error != "Email is required" {
		t.Fatalf("expected touched field with error, got %+v", snapshot)
	}
}

func TestState_SubmitInvokesOnceWithValues(t *testing.T) {
	state := validation.New(validation.WithDefaultValues(map[string]any{
		"plan": "free",
		"tags": []string{"go"},
	}))
	email := state.Bind("email", model.Rules{Required: &model.RequiredRule{}})
	state.Bind("plan", model.Rules{})
	tags := state.BindMulti("tags", model.Rules{}, "go", "js", "rust")

	email.OnChange("ada@example.com")
	tags.OnToggle("rust", true)
	tags.OnToggle("js", true)

	var got []validation.Values
	submit := state.HandleSubmit(func(_ context.Context, values validation.Values) error {
		got = append(got, values)
		return nil
	})
	if err := submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := []validation.Values{{
		"email": "ada@example.com",
		"plan":  "free",
		"tags":  []string{"go", "js", "rust"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
}

func TestState_SubmitReturnsCallbackError(t *testing.T) {
	state := validation.New()
	state.Bind("name", model.Rules{})
	boom := errors.New("boom")

	err := state.HandleSubmit(func(context.Context, validation.Values) error {
		return boom
	})(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestState_CheckboxToggleAffectsOnlyThatOption(t *testing.T) {
	state := validation.New(validation.WithDefaultValues(map[string]any{
		"tags": []string{"a", "b"},
	}))
	handlers := state.BindMulti("tags", model.Rules{Required: &model.RequiredRule{Message: "pick one"}}, "a", "b", "c")

	handlers.OnToggle("b", false)
	snapshot, _ := state.FieldState("tags")
	if diff := cmp.Diff([]string{"a"}, snapshot.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !snapshot.Dirty {
		t.Fatalf("expected dirty after toggle")
	}

	handlers.OnToggle("a", false)
	handlers.OnBlur()
	if got := state.Errors()["tags"]; got != "pick one" {
		t.Fatalf("expected required error on empty group, got %q", got)
	}
}

func TestState_ModeOnSubmitDefersValidation(t *testing.T) {
	state := validation.New(validation.WithMode(validation.ModeOnSubmit))
	handlers := state.Bind("name", model.Rules{Required: &model.RequiredRule{Message: "required"}})

	handlers.OnBlur()
	if got := state.Errors(); len(got) != 0 {
		t.Fatalf("expected no errors before submit, got %v", got)
	}

	_ = state.HandleSubmit(nil)(context.Background())
	if got := state.Errors()["name"]; got != "required" {
		t.Fatalf("expected error after submit, got %q", got)
	}

	handlers.OnChange("Ada")
	if got := state.Errors(); len(got) != 0 {
		t.Fatalf("expected revalidation on change after submit, got %v", got)
	}
}

func TestState_ModeOnTouched(t *testing.T) {
	state := validation.New(validation.WithMode(validation.ModeOnTouched))
	handlers := state.Bind("name", model.Rules{MinLength: &model.LengthRule{Value: 3, Message: "short"}})

	handlers.OnChange("a")
	if got := state.Errors(); len(got) != 0 {
		t.Fatalf("expected no error before blur, got %v", got)
	}
	handlers.OnBlur()
	if got := state.Errors()["name"]; got != "short" {
		t.Fatalf("expected error on blur, got %q", got)
	}
	handlers.OnChange("abc")
	if got := state.Errors(); len(got) != 0 {
		t.Fatalf("expected change to revalidate touched field, got %v", got)
	}
}

func TestState_ResetClearsState(t *testing.T) {
	state := validation.New(validation.WithDefaultValues(map[string]any{"name": "Ada"}))
	handlers := state.Bind("name", model.Rules{Required: &model.RequiredRule{}})
	handlers.OnChange("")
	handlers.OnBlur()

	state.Reset(nil)
	snapshot, _ := state.FieldState("name")
	want := validation.FieldState{Values: []string{"Ada"}}
	if diff := cmp.Diff(want, snapshot); diff != "" {
		t.Fatalf("field state mismatch (-want +got):\n%s", diff)
	}
}

func TestState_SetError(t *testing.T) {
	state := validation.New()
	state.Bind("email", model.Rules{})
	state.SetError("email", "already registered")
	state.SetError("missing", "ignored")

	if diff := cmp.Diff(map[string]string{"email": "already registered"}, state.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if state.Trigger("email") != true {
		t.Fatalf("expected trigger to clear external error")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]validation.Mode{
		"":          validation.ModeAll,
		"onBlur":    validation.ModeOnBlur,
		"submit":    validation.ModeOnSubmit,
		"ONCHANGE":  validation.ModeOnChange,
		"onTouched": validation.ModeOnTouched,
	}
	for raw, want := range cases {
		got, err := validation.ParseMode(raw)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := validation.ParseMode("sometimes"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
