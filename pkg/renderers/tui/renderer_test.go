package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	inputConfigs []InputConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	passPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func mustForm(t *testing.T, fields ...model.Field) *form.Form {
	t.Helper()
	f, err := form.New(model.Form{Fields: fields, Button: model.Button{Label: "Send"}})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return f
}

func TestRun_RepromptsUntilValid(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "ada@example.com", "16", "25"}}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	f := mustForm(t,
		model.Field{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Validation: model.Rules{
			Required: &model.RequiredRule{Message: "Email is required"},
		}},
		model.Field{ID: "age", Type: model.FieldTypeNumber, Label: "Age", Validation: model.Rules{
			Min: &model.BoundRule{Value: 18, Message: "too young"},
		}},
	)

	calls := 0
	out, err := r.Run(context.Background(), f, func(_ context.Context, values validation.Values) error {
		calls++
		if values.String("age") != "25" {
			t.Fatalf("unexpected submitted age %q", values.String("age"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one submit call, got %d", calls)
	}
	if got := string(out); got != `{"age":"25","email":"ada@example.com"}` {
		t.Fatalf("unexpected output %s", got)
	}
	if diff := cmp.Diff([]string{"! Email is required", "! too young"}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_InputCheckReportsEngineMessage(t *testing.T) {
	driver := &stubDriver{inputs: []string{"ada@example.com"}}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	f := mustForm(t, model.Field{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Validation: model.Rules{
		Required: &model.RequiredRule{Message: "Email is required"},
	}})
	if _, err := r.Run(context.Background(), f, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(driver.inputConfigs) != 1 || driver.inputConfigs[0].Check == nil {
		t.Fatalf("expected a check on the input prompt, got %+v", driver.inputConfigs)
	}
	check := driver.inputConfigs[0].Check
	if got := check(""); got != "Email is required" {
		t.Fatalf("expected required message, got %q", got)
	}
	if got := check("grace@example.com"); got != "" {
		t.Fatalf("expected valid answer, got %q", got)
	}
	if got := f.Engine().(*validation.State).Values().String("email"); got != "grace@example.com" {
		t.Fatalf("check should commit the answer, got %q", got)
	}
}

func TestRun_PasswordRevealChoicesAndDate(t *testing.T) {
	driver := &stubDriver{
		confirm:   []bool{true},
		inputs:    []string{"s3cret"},
		selectIdx: []int{1, 4},
		multiIdx:  [][]int{{2, 0}},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	f := mustForm(t,
		model.Field{ID: "password", Type: model.FieldTypePassword, Label: "Password"},
		model.Field{ID: "plan", Type: model.FieldTypeRadio, Label: "Plan", Options: []model.Option{
			{Value: "free", Label: "Free", DefaultChecked: true},
			{Value: "pro", Label: "Pro"},
		}},
		model.Field{ID: "tags", Type: model.FieldTypeCheckbox, Label: "Tags", Options: []model.Option{
			{Value: "go", Label: "Go"},
			{Value: "js", Label: "JS"},
			{Value: "rust", Label: "Rust"},
		}},
		model.Field{ID: "birthday", Type: model.FieldTypeDate, Label: "Birthday"},
	)

	out, err := r.Run(context.Background(), f, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := string(out); got != "birthday=2023-10-05&password=s3cret&plan=pro&tags=go&tags=rust" {
		t.Fatalf("unexpected output %s", got)
	}
	if driver.passPos != 0 || driver.inputPos != 1 {
		t.Fatalf("expected revealed password to use a plain input")
	}
	reveal, ok := f.Controls().LookupPassword("password")
	if !ok || !reveal.Revealed() {
		t.Fatalf("expected password reveal state to be on")
	}
	if r.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRun_HiddenPasswordPrettyOutput(t *testing.T) {
	driver := &stubDriver{confirm: []bool{false}, passwords: []string{"pw"}, textAreas: []string{"Hi"}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	f := mustForm(t,
		model.Field{ID: "password", Type: model.FieldTypePassword, Label: "Password"},
		model.Field{ID: "bio", Type: model.FieldTypeTextarea, Label: "Bio"},
	)
	out, err := r.Run(context.Background(), f, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := string(out); got != "bio=Hi\npassword=pw\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRun_MaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", ""}}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	f := mustForm(t, model.Field{ID: "name", Type: model.FieldTypeText, Required: true})
	if _, err := r.Run(context.Background(), f, nil); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if len(driver.infoMessages) != 2 || driver.infoMessages[0] != validation.DefaultRequiredMessage {
		t.Fatalf("unexpected info messages %v", driver.infoMessages)
	}
}

func TestRun_SubmitErrorAndTransformer(t *testing.T) {
	boom := errors.New("boom")
	f := mustForm(t, model.Field{ID: "name", Type: model.FieldTypeText})

	r, err := New(WithPromptDriver(&stubDriver{inputs: []string{"Ada"}}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = r.Run(context.Background(), f, func(context.Context, validation.Values) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected submit error, got %v", err)
	}

	r, err = New(
		WithPromptDriver(&stubDriver{inputs: []string{"Ada"}}),
		WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			return map[string]any{"greeting": "Hello " + values["name"].(string)}, nil
		}),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Run(context.Background(), mustForm(t, model.Field{ID: "name", Type: model.FieldTypeText}), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := string(out); got != `{"greeting":"Hello Ada"}` {
		t.Fatalf("unexpected output %s", got)
	}
}

func TestParseOutputFormat(t *testing.T) {
	cases := map[string]struct {
		want OutputFormat
		ok   bool
	}{
		"":       {OutputFormatJSON, true},
		"json":   {OutputFormatJSON, true},
		"form":   {OutputFormatFormURLEncoded, true},
		"pretty": {OutputFormatPrettyText, true},
		"xml":    {"", false},
	}
	for raw, tc := range cases {
		got, ok := ParseOutputFormat(raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseOutputFormat(%q) = %q, %v", raw, got, ok)
		}
	}
}
