package utils

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func TestSetLogLevel(t *testing.T) {
	defer Log.SetLevel(logrus.InfoLevel)

	for in, want := range map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"INFO":    logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
	} {
		if err := SetLogLevel(in); err != nil {
			t.Fatalf("SetLogLevel(%q): %v", in, err)
		}
		if Log.GetLevel() != want {
			t.Fatalf("SetLogLevel(%q): level %v, want %v", in, Log.GetLevel(), want)
		}
	}
	for _, bad := range []string{"trace", "panic", "loud"} {
		if err := SetLogLevel(bad); err == nil {
			t.Fatalf("SetLogLevel(%q): expected an error", bad)
		}
	}
}

func TestNormalizeSchools(t *testing.T) {
	got := NormalizeSchools([]string{" Harvard University ", "", "   ", "Yale University"})
	want := []string{"Harvard University", "Yale University"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schools mismatch (-want +got):\n%s", diff)
	}
}

func TestStateLock(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	lock, err := NewStateLock(statePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Path() != statePath+".lock" {
		t.Fatalf("unexpected lock path %q", lock.Path())
	}
	if err := lock.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}

	other, err := NewStateLock(statePath)
	if err != nil {
		t.Fatal(err)
	}
	locked, err := other.lock.TryLock()
	if err != nil {
		t.Fatalf("try lock: %v", err)
	}
	if locked {
		t.Fatal("second lock acquired while the first is held")
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	locked, err = other.lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("expected lock after release, got %v, %v", locked, err)
	}
	other.Unlock()
}
