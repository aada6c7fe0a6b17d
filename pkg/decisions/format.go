package decisions

import (
	"fmt"
	"strings"
)

// Format renders one line per change, in input order.
func Format(changes []ChangeEvent) string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		if c.IsNew {
			lines = append(lines, fmt.Sprintf("%s: %d %s (%s)", c.SchoolName, c.Count, c.Result, c.Date))
		} else {
			lines = append(lines, fmt.Sprintf("%s: +%d %s (now %d, %s)", c.SchoolName, c.Delta, c.Result, c.Count, c.Date))
		}
	}
	return strings.Join(lines, "\n")
}
