// Package snapshot persists small collections to versioned JSON files. The
// memory storage driver uses it so demo data survives a restart; a snapshot
// whose schema version no longer matches is rejected at load and the caller
// keeps its in-memory default.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrVersionMismatch is returned when a stored snapshot was written with a
// different schema version than the caller expects.
var ErrVersionMismatch = errors.New("snapshot schema version mismatch")

// ErrNotFound is returned when no snapshot exists for the given name.
var ErrNotFound = errors.New("snapshot not found")

type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	SavedAt       time.Time       `json:"saved_at"`
	Data          json.RawMessage `json:"data"`
}

// Store reads and writes named snapshots under a directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save serializes v under the given name and schema version. The write is
// atomic: a temp file is written first and renamed over the target.
func (s *Store) Save(name string, version int, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", name, err)
	}

	env := envelope{
		SchemaVersion: version,
		SavedAt:       time.Now().UTC(),
		Data:          data,
	}
	raw, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot envelope %s: %w", name, err)
	}

	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("rename snapshot %s: %w", name, err)
	}
	return nil
}

// Load reads the named snapshot into v. It fails with ErrNotFound when the
// file does not exist and ErrVersionMismatch when the stored schema version
// differs from the expected one.
func (s *Store) Load(name string, version int, v interface{}) error {
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read snapshot %s: %w", name, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("parse snapshot %s: %w", name, err)
	}
	if env.SchemaVersion != version {
		return fmt.Errorf("%w: stored %d, expected %d", ErrVersionMismatch, env.SchemaVersion, version)
	}

	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return nil
}
