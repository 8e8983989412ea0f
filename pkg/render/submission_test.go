package render_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-dynamicform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("_csrf", "token123"),
		render.Hidden("version", 4),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing": "keep",
		"_csrf":    "token123",
		"version":  "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "existing", Value: "keep"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestControlStateFields(t *testing.T) {
	fields := render.ControlStateFields(url.Values{
		"_ui.reveal": {"password", "confirm"},
		"_ui.open":   {"birthday"},
	})
	want := []render.HiddenField{
		{Name: "_ui.open", Value: "birthday"},
		{Name: "_ui.reveal", Value: "password"},
		{Name: "_ui.reveal", Value: "confirm"},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("control state fields mismatch (-want +got):\n%s", diff)
	}
	if render.ControlStateFields(nil) != nil {
		t.Fatalf("expected nil for empty state")
	}
}
