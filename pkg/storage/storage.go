package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wavewatch/wavewatch/pkg/decisions"
)

// ErrCorruptState is returned when a non-empty state file cannot be parsed.
// Treating it as empty would report every current wave as new.
var ErrCorruptState = errors.New("state file is corrupt")

// Store loads and saves the run state.
type Store interface {
	Load() (*RunState, error)
	Save(*RunState) error
}

// FileStore keeps the run state in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

// Load reads the state file. A missing or blank file yields an empty state.
func (f *FileStore) Load() (*RunState, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return emptyState(), nil
		}
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return emptyState(), nil
	}

	var s RunState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, f.path, err)
	}
	if s.Summary == nil {
		s.Summary = map[string]int{}
	}
	if s.Decisions == nil {
		s.Decisions = map[string]decisions.Snapshot{}
	}
	return &s, nil
}

// Save overwrites the state file. The new content is written to a temporary
// file first and renamed into place, so a crash never leaves a torn file.
func (f *FileStore) Save(s *RunState) error {
	if s == nil {
		return errors.New("nil state")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

func emptyState() *RunState {
	return &RunState{
		Summary:   map[string]int{},
		Decisions: map[string]decisions.Snapshot{},
	}
}
