package decisions

import "strings"

// Filter keeps the records whose school name matches an entry of the
// watch-list, ignoring case. Matching is on the full name, not a substring.
// When enabled is false the input is returned as is.
func Filter(records []Record, watchlist []string, enabled bool) []Record {
	if !enabled {
		return records
	}

	watched := make(map[string]struct{}, len(watchlist))
	for _, name := range watchlist {
		if name == "" {
			continue
		}
		watched[strings.ToLower(name)] = struct{}{}
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.SchoolName == "" {
			continue
		}
		if _, ok := watched[strings.ToLower(r.SchoolName)]; ok {
			out = append(out, r)
		}
	}
	return out
}
