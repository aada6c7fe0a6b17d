package decisions

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names used by the recent-decisions grid.
const (
	FieldSchoolName = "school_name"
	FieldResult     = "result"
	FieldDate       = "date"
	FieldCount      = "count"
)

// Record is one aggregated row of admission decisions (a wave).
type Record struct {
	SchoolName string
	Result     string
	Date       string
	Count      int

	// Extra holds every other column of the row (school slug, search terms, ...).
	// It plays no role in identity or diffing.
	Extra map[string]any
}

// Snapshot is the last-seen state of one wave, as persisted between runs.
type Snapshot struct {
	SchoolName string `json:"school_name"`
	Result     string `json:"result"`
	Date       string `json:"date"`
	Count      int    `json:"count"`
}

// ChangeEvent describes a new wave or a wave whose count went up.
type ChangeEvent struct {
	SchoolName string
	Result     string
	Date       string
	Count      int // new total
	Delta      int // increase since the last observation
	IsNew      bool
}

// FromMap builds a Record from a decoded row. Missing identity fields become
// "", other scalars are printed as text, and an unreadable count becomes 0.
func FromMap(m map[string]any) Record {
	r := Record{
		SchoolName: stringField(m, FieldSchoolName),
		Result:     stringField(m, FieldResult),
		Date:       stringField(m, FieldDate),
		Count:      countField(m[FieldCount]),
	}
	for k, v := range m {
		switch k {
		case FieldSchoolName, FieldResult, FieldDate, FieldCount:
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[k] = v
	}
	return r
}

// Snapshot returns the persisted form of the record.
func (r Record) Snapshot() Snapshot {
	return Snapshot{SchoolName: r.SchoolName, Result: r.Result, Date: r.Date, Count: r.Count}
}

func stringField(m map[string]any, name string) string {
	switch v := m[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// JSON numbers arrive as float64; whole numbers print without a fraction.
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func countField(v any) int {
	var n float64
	switch c := v.(type) {
	case float64:
		n = c
	case int:
		n = float64(c)
	case int64:
		n = float64(c)
	case json.Number:
		f, err := c.Float64()
		if err != nil {
			return 0
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0
		}
		n = f
	default:
		return 0
	}
	if math.IsNaN(n) || n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}
