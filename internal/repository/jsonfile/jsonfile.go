// Package jsonfile implements the check-in store as a single JSON document
// on disk, the format the bot has always persisted, so an existing data
// file keeps working across deployments.
//
// The whole store is small (one record per user per chat) and mutations are
// low-frequency user commands, so rewriting the full document on every save
// is simpler and plenty fast. No write-ahead log, no batching.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sakif/checkin-bot/internal/model"
)

// Store persists a ContextStore to one JSON file.
type Store struct {
	path string
}

// Open prepares a file-backed store at path, creating parent directories
// if needed. The file itself is created on first Save.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: creating data directory %s: %w", dir, err)
	}
	return &Store{path: path}, nil
}

// Load reads the document. A missing file is the normal first-run case and
// yields an empty store with no error. An unreadable or corrupt file also
// yields an empty store, but with the error attached so the caller can log
// it; the bot keeps running either way.
func (s *Store) Load(_ context.Context) (*model.ContextStore, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return model.NewContextStore(), nil
	}
	if err != nil {
		return model.NewContextStore(), fmt.Errorf("jsonfile: reading %s: %w", s.path, err)
	}
	store := model.NewContextStore()
	if err := json.Unmarshal(data, store); err != nil {
		return model.NewContextStore(), fmt.Errorf("jsonfile: parsing %s: %w", s.path, err)
	}
	return store, nil
}

// Save writes the document atomically: marshal to a temp file in the same
// directory, then rename over the old one. A crash mid-save can never leave
// a half-written data file behind.
func (s *Store) Save(_ context.Context, store *model.ContextStore) error {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encoding store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("jsonfile: replacing %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; the file is not held open between operations.
func (s *Store) Close() error {
	return nil
}
