package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Store persists one logical table as a single JSON document on disk: a
// mapping from string identifier to record, UTF-8, indented. Every save
// rewrites the whole document.
type Store[T any] struct {
	path string
}

// New creates a store backed by <dir>/<name>.json. Nothing touches the
// disk until the first Load or Save.
func New[T any](dir, name string) *Store[T] {
	return &Store[T]{path: filepath.Join(dir, name+".json")}
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// Load reads the table from disk. A missing or unreadable or corrupt
// file yields an empty table rather than an error; the next save
// overwrites whatever was there.
func (s *Store[T]) Load() map[string]T {
	table := make(map[string]T)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithFields(log.Fields{
				"path":  s.path,
				"error": err,
			}).Warn("Unreadable table file, starting with empty table")
		}
		return table
	}

	if err := json.Unmarshal(data, &table); err != nil {
		log.WithFields(log.Fields{
			"path":  s.path,
			"error": err,
		}).Warn("Corrupt table file, starting with empty table")
		return make(map[string]T)
	}

	return table
}

// Save serializes the entire table and replaces the backing file. The
// document is written to a temp file and renamed into place so a crash
// mid-write leaves the previous document intact.
func (s *Store[T]) Save(table map[string]T) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode table %s: %w", s.path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to flush %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	return nil
}
