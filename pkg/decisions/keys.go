package decisions

import "strings"

const keySeparator = "|"

// Key identifies a wave across runs: school, result and date.
func Key(r Record) string {
	return strings.Join([]string{r.SchoolName, r.Result, r.Date}, keySeparator)
}
