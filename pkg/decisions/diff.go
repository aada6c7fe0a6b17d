package decisions

// Diff compares the current records against the previous snapshots and
// returns one event per new wave or per wave whose count increased, in the
// order of current. Each record is compared to previous only, so two rows
// sharing a key in the same batch are evaluated independently.
func Diff(current []Record, previous map[string]Snapshot) []ChangeEvent {
	var changes []ChangeEvent
	for _, r := range current {
		prev, ok := previous[Key(r)]
		if !ok {
			changes = append(changes, ChangeEvent{
				SchoolName: r.SchoolName,
				Result:     r.Result,
				Date:       r.Date,
				Count:      r.Count,
				Delta:      r.Count,
				IsNew:      true,
			})
			continue
		}
		// Unchanged or lower counts are not reported.
		if r.Count > prev.Count {
			changes = append(changes, ChangeEvent{
				SchoolName: r.SchoolName,
				Result:     r.Result,
				Date:       r.Date,
				Count:      r.Count,
				Delta:      r.Count - prev.Count,
			})
		}
	}
	return changes
}

// BuildSnapshots returns the snapshot map to persist after a run, built from
// current alone. Keys missing from current are dropped, and when several rows
// share a key the last one wins.
func BuildSnapshots(current []Record) map[string]Snapshot {
	out := make(map[string]Snapshot, len(current))
	for _, r := range current {
		out[Key(r)] = r.Snapshot()
	}
	return out
}
