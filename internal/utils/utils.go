package utils

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the CLI-wide logger. Library packages take a Logger instead.
var Log = logrus.New()

// SetLogLevel applies a --loglevel value. Trace and panic are not offered.
func SetLogLevel(level string) error {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	switch name {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("unknown log level %q (use debug, info, warn, error or fatal)", level)
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	Log.SetLevel(lvl)
	return nil
}

// NormalizeSchools trims the configured watch-list and drops blank entries.
func NormalizeSchools(schools []string) []string {
	out := make([]string, 0, len(schools))
	for _, s := range schools {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
