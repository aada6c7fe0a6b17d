package decisions

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromMap(t *testing.T) {
	r := FromMap(map[string]any{
		"school_name": "Harvard University",
		"result":      "Accepted",
		"date":        "2024-01-10",
		"count":       float64(3),
		"school_slug": "harvard",
	})
	want := Record{
		SchoolName: "Harvard University",
		Result:     "Accepted",
		Date:       "2024-01-10",
		Count:      3,
		Extra:      map[string]any{"school_slug": "harvard"},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Fatalf("FromMap mismatch (-want +got):\n%s", diff)
	}
}

func TestFromMap_MissingAndOddFields(t *testing.T) {
	tests := []struct {
		name  string
		in    map[string]any
		count int
	}{
		{name: "missing count", in: map[string]any{}, count: 0},
		{name: "numeric string", in: map[string]any{"count": " 7 "}, count: 7},
		{name: "garbage string", in: map[string]any{"count": "many"}, count: 0},
		{name: "negative", in: map[string]any{"count": float64(-2)}, count: 0},
		{name: "null", in: map[string]any{"count": nil}, count: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromMap(tt.in)
			if r.Count != tt.count {
				t.Fatalf("expected count %d, got %d", tt.count, r.Count)
			}
			if r.SchoolName != "" || r.Result != "" || r.Date != "" {
				t.Fatalf("expected empty identity fields, got %#v", r)
			}
		})
	}
}

func TestFromMap_NonStringIdentityFields(t *testing.T) {
	r := FromMap(map[string]any{
		"school_name": "Yale University",
		"result":      true,
		"date":        float64(20240110),
		"count":       float64(2),
	})
	if r.Date != "20240110" || r.Result != "true" {
		t.Fatalf("unexpected identity fields %#v", r)
	}
	if Key(r) != "Yale University|true|20240110" {
		t.Fatalf("unexpected key %q", Key(r))
	}
}

func TestFromMap_FractionalNumber(t *testing.T) {
	r := FromMap(map[string]any{"date": float64(1.5), "result": nil})
	if r.Date != "1.5" || r.Result != "" {
		t.Fatalf("unexpected identity fields %#v", r)
	}
}

func TestKey(t *testing.T) {
	got := Key(Record{SchoolName: "Yale University", Result: "Rejected", Date: "2024-02-01", Count: 9})
	if got != "Yale University|Rejected|2024-02-01" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestFilter_DisabledIsIdentity(t *testing.T) {
	in := []Record{
		{SchoolName: "Zeta"},
		{SchoolName: ""},
		{SchoolName: "Alpha"},
	}
	got := Filter(in, []string{"Alpha"}, false)
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("disabled filter changed input (-want +got):\n%s", diff)
	}
}

func TestFilter_CaseInsensitiveExactMatch(t *testing.T) {
	in := []Record{
		{SchoolName: "harvard university", Result: "Accepted"},
		{SchoolName: "Harvard University Law", Result: "Accepted"},
		{SchoolName: "", Result: "Rejected"},
		{SchoolName: "YALE UNIVERSITY", Result: "Waitlisted"},
		{SchoolName: "Stanford University", Result: "Accepted"},
	}
	got := Filter(in, []string{"Harvard University", "Yale University"}, true)
	want := []Record{
		{SchoolName: "harvard university", Result: "Accepted"},
		{SchoolName: "YALE UNIVERSITY", Result: "Waitlisted"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter_EmptyWatchlist(t *testing.T) {
	got := Filter([]Record{{SchoolName: "Harvard University"}}, nil, true)
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

func TestDiff_EmptyPreviousMarksAllNew(t *testing.T) {
	current := []Record{
		{SchoolName: "Harvard University", Result: "Accepted", Date: "2024-01-10", Count: 3},
		{SchoolName: "Yale University", Result: "Rejected", Date: "2024-01-11", Count: 1},
	}
	got := Diff(current, nil)
	want := []ChangeEvent{
		{SchoolName: "Harvard University", Result: "Accepted", Date: "2024-01-10", Count: 3, Delta: 3, IsNew: true},
		{SchoolName: "Yale University", Result: "Rejected", Date: "2024-01-11", Count: 1, Delta: 1, IsNew: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiff_CountChanges(t *testing.T) {
	rec := Record{SchoolName: "Harvard University", Result: "Accepted", Date: "2024-01-10"}
	previous := map[string]Snapshot{Key(rec): {SchoolName: rec.SchoolName, Result: rec.Result, Date: rec.Date, Count: 3}}

	tests := []struct {
		name  string
		count int
		want  []ChangeEvent
	}{
		{
			name:  "increase",
			count: 5,
			want:  []ChangeEvent{{SchoolName: rec.SchoolName, Result: rec.Result, Date: rec.Date, Count: 5, Delta: 2}},
		},
		{name: "unchanged", count: 3},
		{name: "decrease", count: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rec
			r.Count = tt.count
			got := Diff([]Record{r}, previous)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("diff mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiff_Idempotent(t *testing.T) {
	current := []Record{{SchoolName: "Harvard University", Result: "Accepted", Date: "2024-01-10", Count: 3}}
	first := Diff(current, nil)
	if len(first) != 1 {
		t.Fatalf("expected 1 change on first pass, got %d", len(first))
	}
	second := Diff(current, BuildSnapshots(current))
	if len(second) != 0 {
		t.Fatalf("expected no changes on second pass, got %#v", second)
	}
}

// Rows sharing a key in one batch are each compared to the stored snapshot,
// not to each other, so both can be reported.
func TestDiff_DuplicateKeysEvaluatedIndependently(t *testing.T) {
	current := []Record{
		{SchoolName: "Harvard University", Result: "Accepted", Date: "2024-01-10", Count: 6},
		{SchoolName: "Harvard University", Result: "Accepted", Date: "2024-01-10", Count: 4},
	}
	previous := map[string]Snapshot{Key(current[0]): {Count: 3}}

	got := Diff(current, previous)
	if len(got) != 2 {
		t.Fatalf("expected 2 independent changes, got %d", len(got))
	}
	if got[0].Delta != 3 || got[1].Delta != 1 {
		t.Fatalf("unexpected deltas %d and %d", got[0].Delta, got[1].Delta)
	}

	// The last row for a key is what gets stored, not the largest.
	snaps := BuildSnapshots(current)
	if snaps[Key(current[0])].Count != 4 {
		t.Fatalf("expected snapshot count 4 from the last row, got %d", snaps[Key(current[0])].Count)
	}
}

func TestBuildSnapshots(t *testing.T) {
	a := Record{SchoolName: "Harvard University", Result: "Accepted", Date: "2024-01-10", Count: 2, Extra: map[string]any{"school_slug": "harvard"}}
	b := Record{SchoolName: "Yale University", Result: "Rejected", Date: "2024-01-09", Count: 8}

	got := BuildSnapshots([]Record{a, b})
	want := map[string]Snapshot{
		Key(a): {SchoolName: a.SchoolName, Result: a.Result, Date: a.Date, Count: 2},
		Key(b): {SchoolName: b.SchoolName, Result: b.Result, Date: b.Date, Count: 8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshots mismatch (-want +got):\n%s", diff)
	}
}

func TestFormat(t *testing.T) {
	changes := []ChangeEvent{
		{SchoolName: "Harvard University", Result: "Accepted", Date: "2024-01-10", Count: 3, Delta: 3, IsNew: true},
		{SchoolName: "Yale University", Result: "Waitlisted", Date: "2024-01-11", Count: 5, Delta: 2},
	}
	want := "Harvard University: 3 Accepted (2024-01-10)\nYale University: +2 Waitlisted (now 5, 2024-01-11)"
	if got := Format(changes); got != want {
		t.Fatalf("unexpected message:\n%s\nwant:\n%s", got, want)
	}
	if got := Format(nil); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
}
