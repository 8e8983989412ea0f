package httpform

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-dynamicform/pkg/controls"
	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/render"
	"github.com/goliatone/go-dynamicform/pkg/renderers/vanilla"
	"github.com/goliatone/go-dynamicform/pkg/testsupport"
	"github.com/goliatone/go-dynamicform/pkg/validation"
)

func signupForm() model.Form {
	return model.Form{
		ID: "signup",
		Fields: []model.Field{
			{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Validation: model.Rules{
				Required: &model.RequiredRule{Message: "Email is required"},
			}},
			{ID: "age", Type: model.FieldTypeNumber, Label: "Age", Validation: model.Rules{
				Min: &model.BoundRule{Value: 18, Message: "too young"},
			}},
			{ID: "password", Type: model.FieldTypePassword, Label: "Password"},
		},
		Button: model.Button{Label: "Register"},
	}
}

type recorder struct {
	calls  int
	values validation.Values
	err    error
}

func (r *recorder) submit(_ context.Context, values validation.Values) error {
	r.calls++
	r.values = values
	return r.err
}

func newTestHandler(t *testing.T, rec *recorder, opts ...Option) (*Handler, *prometheus.Registry) {
	t.Helper()
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("vanilla renderer: %v", err)
	}
	reg := prometheus.NewRegistry()
	opts = append([]Option{WithMetrics(reg), WithLogger(testsupport.NewLogger(t))}, opts...)
	h, err := New(signupForm(), renderer, rec.submit, opts...)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h, reg
}

func post(h http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Get(t *testing.T) {
	h, _ := newTestHandler(t, &recorder{}, WithRenderOptions(func(*http.Request) render.RenderOptions {
		return render.RenderOptions{HiddenFields: map[string]string{"_csrf": "token"}}
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rr.Body.String()
	for _, fragment := range []string{`<form`, `name="email"`, `name="_csrf" value="token"`, `>Register</button>`} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in body:\n%s", fragment, body)
		}
	}
	if strings.Contains(body, "Email is required") {
		t.Fatalf("fresh form must not show errors")
	}
}

func TestHandler_InvalidSubmission(t *testing.T) {
	rec := &recorder{}
	h, _ := newTestHandler(t, rec)

	rr := post(h, url.Values{"email": {""}, "age": {"16"}, "password": {"pw"}})

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if rec.calls != 0 {
		t.Fatalf("submit callback must not run for invalid input")
	}
	body := rr.Body.String()
	for _, fragment := range []string{"Email is required", "too young", `value="16"`, " disabled"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in body:\n%s", fragment, body)
		}
	}
	if got := testutil.ToFloat64(h.submissions.WithLabelValues(ResultInvalid)); got != 1 {
		t.Fatalf("expected invalid counter 1, got %v", got)
	}
}

func TestHandler_ValidSubmission(t *testing.T) {
	rec := &recorder{}
	h, _ := newTestHandler(t, rec, WithSuccessRedirect("/thanks"))

	rr := post(h, url.Values{"email": {"ada@example.com"}, "age": {"25"}, "password": {"pw"}})

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/thanks" {
		t.Fatalf("unexpected location %q", loc)
	}
	if rec.calls != 1 {
		t.Fatalf("expected one submit call, got %d", rec.calls)
	}
	if rec.values.String("email") != "ada@example.com" || rec.values.String("age") != "25" {
		t.Fatalf("unexpected values %v", rec.values)
	}
	if got := testutil.ToFloat64(h.submissions.WithLabelValues(ResultSuccess)); got != 1 {
		t.Fatalf("expected success counter 1, got %v", got)
	}
}

func TestHandler_SuccessHandler(t *testing.T) {
	h, _ := newTestHandler(t, &recorder{}, WithSuccessHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("thanks"))
	})))

	rr := post(h, url.Values{"email": {"ada@example.com"}})
	if rr.Code != http.StatusOK || rr.Body.String() != "thanks" {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Body.String())
	}
}

func TestHandler_ToggleSkipsValidation(t *testing.T) {
	rec := &recorder{}
	h, _ := newTestHandler(t, rec)

	rr := post(h, url.Values{
		"email":             {""},
		"password":          {"s3cret"},
		controls.ParamToggle: {controls.RevealAction("password")},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rec.calls != 0 {
		t.Fatalf("toggle must not submit")
	}
	body := rr.Body.String()
	if !strings.Contains(body, `type="text" value="s3cret"`) {
		t.Fatalf("expected revealed password input:\n%s", body)
	}
	if !strings.Contains(body, `name="`+controls.ParamRevealed+`" value="password"`) {
		t.Fatalf("expected reveal state hidden input:\n%s", body)
	}
	if strings.Contains(body, "Email is required") {
		t.Fatalf("toggle must not surface validation errors")
	}
	if got := testutil.ToFloat64(h.submissions.WithLabelValues(ResultToggle)); got != 1 {
		t.Fatalf("expected toggle counter 1, got %v", got)
	}
}

func TestHandler_BadToggle(t *testing.T) {
	h, _ := newTestHandler(t, &recorder{})
	rr := post(h, url.Values{controls.ParamToggle: {"explode:email"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandler_Rejection(t *testing.T) {
	rec := &recorder{err: FieldErrors{
		"email": {"already registered"},
		"base":  {"try again later"},
	}}
	h, _ := newTestHandler(t, rec)

	rr := post(h, url.Values{"email": {"ada@example.com"}})

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, fragment := range []string{"already registered", "try again later", `aria-invalid="true"`} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in body:\n%s", fragment, body)
		}
	}
	if got := testutil.ToFloat64(h.submissions.WithLabelValues(ResultRejected)); got != 1 {
		t.Fatalf("expected rejected counter 1, got %v", got)
	}
}

func TestHandler_CallbackError(t *testing.T) {
	h, _ := newTestHandler(t, &recorder{err: errors.New("database down")})
	rr := post(h, url.Values{"email": {"ada@example.com"}})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "database down") {
		t.Fatalf("internal errors must not leak")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(signupForm(), nil, nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("vanilla renderer: %v", err)
	}
	broken := model.Form{Fields: []model.Field{{ID: "a", Type: model.FieldTypeText}, {ID: "a", Type: model.FieldTypeText}}}
	if _, err := New(broken, renderer, nil); !errors.Is(err, model.ErrInvalidDescriptor) {
		t.Fatalf("expected ErrInvalidDescriptor, got %v", err)
	}

	reg := prometheus.NewRegistry()
	first, err := New(signupForm(), renderer, nil, WithMetrics(reg))
	if err != nil {
		t.Fatalf("first handler: %v", err)
	}
	second, err := New(signupForm(), renderer, nil, WithMetrics(reg))
	if err != nil {
		t.Fatalf("second handler on shared registry: %v", err)
	}
	if first.submissions != second.submissions {
		t.Fatalf("expected shared counter")
	}
}
