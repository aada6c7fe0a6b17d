package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wavewatch/wavewatch/pkg/decisions"
)

// Summary categories shown at the top of the recent-decisions page.
var SummaryCategories = []string{"accepted", "rejected", "waitlisted", "withdrawn"}

// RunState is everything persisted between runs.
type RunState struct {
	LastCheck Timestamp                     `json:"last_check"`
	Summary   map[string]int                `json:"summary"`
	Decisions map[string]decisions.Snapshot `json:"decisions"`
}

// NewRunState builds the state to persist after a run from the filtered
// records of that run. Waves missing from current are not carried over.
func NewRunState(now time.Time, summary map[string]int, current []decisions.Record) *RunState {
	s := &RunState{
		LastCheck: Timestamp{Time: now},
		Summary:   make(map[string]int, len(SummaryCategories)),
		Decisions: decisions.BuildSnapshots(current),
	}
	for _, c := range SummaryCategories {
		s.Summary[c] = 0
	}
	for k, v := range summary {
		s.Summary[k] = v
	}
	return s
}

// Empty reports whether the state holds nothing from an earlier run.
func (s *RunState) Empty() bool {
	return s == nil || (s.LastCheck.IsZero() && len(s.Decisions) == 0 && len(s.Summary) == 0)
}

// Timestamp is written as RFC 3339. On read it also accepts ISO-8601 times
// without a UTC offset, which are taken as local time.
type Timestamp struct {
	time.Time
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("last_check: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = v
		return nil
	}
	for _, layout := range localLayouts {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("last_check: unrecognized timestamp %q", s)
}
