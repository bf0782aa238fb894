// Package checkpoint persists small JSON state snapshots as hidden
// sidecar files, so long-running work over a source file can be
// interrupted and resumed.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes checkpoint records of type T. Records are
// keyed by the source file they describe: each source gets one sidecar
// file named ".{stem}.checkpoint.json".
//
// With an empty dir the sidecar lives next to the source file;
// otherwise all sidecars go into dir.
type Store[T any] struct {
	dir string
}

// NewStore returns a store writing sidecars into dir, or next to each
// source file when dir is empty.
func NewStore[T any](dir string) *Store[T] {
	return &Store[T]{dir: dir}
}

// PathFor returns the sidecar path for source.
func (s *Store[T]) PathFor(source string) string {
	dir := s.dir
	if dir == "" {
		dir = filepath.Dir(source)
	}
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "."+stem+".checkpoint.json")
}

// Save writes rec as the checkpoint for source. The write goes through
// a temp file and a rename, so a crash mid-write leaves either the old
// checkpoint or none, never a truncated one.
func (s *Store[T]) Save(source string, rec T) error {
	path := s.PathFor(source)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp checkpoint: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}
	return nil
}

// Load reads the checkpoint for source. It returns (nil, nil) when no
// checkpoint exists and an error when one exists but cannot be read or
// parsed.
func (s *Store[T]) Load(source string) (*T, error) {
	data, err := os.ReadFile(s.PathFor(source))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	rec := new(T)
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint: %w", err)
	}
	return rec, nil
}

// Exists reports whether a checkpoint for source is on disk.
func (s *Store[T]) Exists(source string) bool {
	_, err := os.Stat(s.PathFor(source))
	return err == nil
}

// Delete removes the checkpoint for source. Deleting a checkpoint that
// does not exist is not an error.
func (s *Store[T]) Delete(source string) error {
	if err := os.Remove(s.PathFor(source)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	return nil
}
