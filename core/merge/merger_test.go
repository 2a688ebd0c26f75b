// Package merge - Merge engine tests
package merge

import (
	"strings"
	"testing"

	"agreement-engine/core/docx"
	"agreement-engine/core/exhibit"
	"agreement-engine/core/types"
	"agreement-engine/internal/errors"
)

func exhibitBytes(t *testing.T, text string) []byte {
	t.Helper()
	data, err := docx.New(text).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func selected(id, name, group string) exhibit.SelectedExhibit {
	includeType := types.IncludeIncluded
	if group == exhibit.GroupNotIncluded {
		includeType = types.IncludeNotIncluded
	}
	return exhibit.SelectedExhibit{
		Record: types.ExhibitRecord{
			ID:          id,
			Name:        name,
			Category:    types.CategoryMessaging,
			IncludeType: includeType,
		},
		GroupLabel: group,
	}
}

// TestMergeAppendsInOrderWithHeadings checks exhibits land after the base
// in selector order, with a heading at each group transition.
func TestMergeAppendsInOrderWithHeadings(t *testing.T) {
	base := docx.New("Base agreement body.")

	exhibits := []FetchedExhibit{
		{Selected: selected("e1", "Alpha", exhibit.GroupIncluded), Data: exhibitBytes(t, "Alpha included text")},
		{Selected: selected("e2", "Beta", exhibit.GroupIncluded), Data: exhibitBytes(t, "Beta included text")},
		{Selected: selected("e3", "Alpha NI", exhibit.GroupNotIncluded), Data: exhibitBytes(t, "Alpha excluded text")},
	}

	report, err := Merge(base, exhibits)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Appended) != 3 {
		t.Fatalf("appended %d, want 3", len(report.Appended))
	}

	text := base.Text()
	order := []string{
		"Base agreement body.",
		exhibit.GroupIncluded,
		"Alpha included text",
		"Beta included text",
		exhibit.GroupNotIncluded,
		"Alpha excluded text",
	}
	last := -1
	for _, want := range order {
		idx := strings.Index(text, want)
		if idx < 0 {
			t.Fatalf("missing %q in merged text:\n%s", want, text)
		}
		if idx < last {
			t.Fatalf("%q out of order in merged text:\n%s", want, text)
		}
		last = idx
	}

	// One heading per group transition, not per exhibit
	if c := strings.Count(text, exhibit.GroupIncluded); c != 2 {
		// "Not Included Features" contains "Included Features"
		t.Errorf("included heading count = %d, want 2 (one real, one inside the not-included heading)", c)
	}
}

// TestMergeSkipsBadExhibit proves a corrupt exhibit degrades to a skip
// while the composite still builds.
func TestMergeSkipsBadExhibit(t *testing.T) {
	base := docx.New("Base.")

	exhibits := []FetchedExhibit{
		{Selected: selected("good", "Good", exhibit.GroupIncluded), Data: exhibitBytes(t, "Good exhibit")},
		{Selected: selected("bad", "Bad", exhibit.GroupIncluded), Data: []byte("not a zip file")},
	}

	report, err := Merge(base, exhibits)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Appended) != 1 || report.Appended[0] != "good" {
		t.Errorf("appended = %v", report.Appended)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].ExhibitID != "bad" {
		t.Errorf("skipped = %v", report.Skipped)
	}
}

// TestMergeRecordsFetchFailures proves an upstream fetch error becomes a
// skip entry, not an abort.
func TestMergeRecordsFetchFailures(t *testing.T) {
	base := docx.New("Base.")

	exhibits := []FetchedExhibit{
		{Selected: selected("missing", "Missing", exhibit.GroupIncluded),
			Err: errors.ExhibitFetch("missing", nil)},
	}

	report, err := Merge(base, exhibits)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("skipped = %v", report.Skipped)
	}
}

// TestMergeNilBaseIsFatal proves base failures abort with no output
func TestMergeNilBaseIsFatal(t *testing.T) {
	_, err := Merge(nil, nil)
	if !errors.IsType(err, errors.TypeMerge) {
		t.Fatalf("expected merge failure, got %v", err)
	}
}

// TestMergedPackageRoundTrips proves the composite serializes back into a
// package a reader can reopen, with per-exhibit text intact.
func TestMergedPackageRoundTrips(t *testing.T) {
	base := docx.New("Agreement for Acme.")
	exhibits := []FetchedExhibit{
		{Selected: selected("e1", "Alpha", exhibit.GroupIncluded), Data: exhibitBytes(t, "Exhibit paragraph")},
	}
	if _, err := Merge(base, exhibits); err != nil {
		t.Fatal(err)
	}

	data, err := base.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	reopened, err := docx.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	text := reopened.Text()
	if !strings.Contains(text, "Agreement for Acme.") || !strings.Contains(text, "Exhibit paragraph") {
		t.Errorf("round-tripped text incomplete:\n%s", text)
	}
}
