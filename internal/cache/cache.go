// Package cache persists the last-seen raw content of every source so the
// next run can tell whether anything changed upstream.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"codeberg.org/snonux/cmdref/internal"
)

// FileName is the cache file inside the output directory
const FileName = "_cache.json"

// Snapshot maps a source id to its last-seen raw content
type Snapshot map[string]string

// Store reads and writes a Snapshot as a JSON file
type Store struct {
	path string
}

// NewStore creates a store for the cache file in dir
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// Path returns the location of the cache file
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored snapshot, or an empty one when no cache exists yet
func (s *Store) Load() (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, &internal.PersistenceError{Op: "read", Path: s.path, Err: err}
	}

	snap := Snapshot{}
	if len(bytes.TrimSpace(data)) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &internal.PersistenceError{Op: "decode", Path: s.path, Err: err}
	}
	return snap, nil
}

// Save replaces the cache file with snap. The previous file stays intact if
// the write fails.
func (s *Store) Save(snap Snapshot) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return &internal.PersistenceError{Op: "encode", Path: s.path, Err: err}
	}

	return internal.WriteFileAtomic(s.path, buf.Bytes(), 0644)
}

// Changed reports whether raw differs from the cached content of id.
// A source missing from the cache counts as changed.
func Changed(old Snapshot, id, raw string) bool {
	prev, ok := old[id]
	return !ok || prev != raw
}
