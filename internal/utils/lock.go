package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// StateLock serialises wavewatch runs that share a state file. The lock
// lives in "<state file>.lock".
type StateLock struct {
	lock *flock.Flock
	path string
}

func NewStateLock(statePath string) (*StateLock, error) {
	abs, err := filepath.Abs(statePath)
	if err != nil {
		return nil, fmt.Errorf("resolving state path %s: %w", statePath, err)
	}
	path := abs + ".lock"
	return &StateLock{lock: flock.New(path), path: path}, nil
}

// Lock blocks until the lock is held, telling the user when another run is in the way.
func (l *StateLock) Lock() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("locking %s: %w", l.path, err)
	}
	if ok {
		return nil
	}

	Log.Warnf("State file is in use by another wavewatch run (%s), waiting...", l.path)
	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", l.path, err)
	}
	return nil
}

// Unlock releases the lock. A lock file that is already gone is not an error.
func (l *StateLock) Unlock() error {
	err := l.lock.Unlock()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("unlocking %s: %w", l.path, err)
}

func (l *StateLock) Path() string {
	return l.path
}
