package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-dynamicform/pkg/form"
	"github.com/goliatone/go-dynamicform/pkg/model"
	"github.com/goliatone/go-dynamicform/pkg/render"
)

func TestMapErrorPayload_ResolvesFieldIDs(t *testing.T) {
	view := form.View{Rows: []form.Row{
		{Field: model.Field{ID: "name"}},
		{Field: model.Field{ID: "email"}},
		{Field: model.Field{ID: "tags"}},
		{Field: model.Field{ID: "a/b"}},
	}}

	payload := map[string][]string{
		"name":                      {"Name is required", " Name is required "},
		"/body/email":               {"Email invalid"},
		"$.data.tags[0]":            {"Tags must be unique"},
		"fields/a~1b":               {"Slash id"},
		"non_field_errors":          {"Form level error"},
		"request/body/unknownField": {"Should fall back to form errors"},
		"":                          {"Unscoped form error"},
	}

	mapped := render.MapErrorPayload(view, payload)

	wantFields := map[string][]string{
		"name":  {"Name is required"},
		"email": {"Email invalid"},
		"tags":  {"Tags must be unique"},
		"a/b":   {"Slash id"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if got := mapped.FieldMessage("email"); got != "Email invalid" {
		t.Fatalf("unexpected field message %q", got)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
