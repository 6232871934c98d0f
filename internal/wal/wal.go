// Package wal is the local write-ahead cache for unconfirmed profile saves.
//
// An entry exists for a user only between "snapshot written locally" and
// "remote upsert confirmed". The engine writes it before every remote call,
// deletes it on success, and reads it first on load so a save that never
// reached the server is replayed instead of lost.
package wal

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yotip/homestead/internal/profile"
)

// Cache stores at most one pending profile per user id.
type Cache interface {
	Get(userID string) (profile.Profile, bool, error)
	Set(userID string, p profile.Profile) error
	Delete(userID string) error
}

var (
	_ Cache = (*Dir)(nil)
	_ Cache = (*Memory)(nil)
)

// Dir keeps one JSON file per user in a directory.
type Dir struct {
	path string
	mu   sync.Mutex
}

// Open returns a Dir rooted at path, creating it if needed.
func Open(path string) (*Dir, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache dir is empty")
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Dir{path: path}, nil
}

// Get returns the pending profile for userID. A missing or unreadable entry
// reports ok=false; only I/O errors other than "not found" are returned.
func (d *Dir) Get(userID string) (profile.Profile, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.file(userID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, fmt.Errorf("read cache entry: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return profile.Profile{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return p, true, nil
}

// Set replaces the pending profile for userID. The write goes to a temp file
// that is renamed into place, so a crash leaves either the old or new entry.
func (d *Dir) Set(userID string, p profile.Profile) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(d.path, ".pending-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp entry: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp entry: %w", err)
	}
	if err := os.Rename(tmpName, d.file(userID)); err != nil {
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for userID. Deleting a missing entry is not an error.
func (d *Dir) Delete(userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.Remove(d.file(userID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

func (d *Dir) file(userID string) string {
	return filepath.Join(d.path, base64.RawURLEncoding.EncodeToString([]byte(userID))+".json")
}

// Memory is an in-process Cache, useful when no cache dir is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]profile.Profile
}

// NewMemory returns an empty Memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]profile.Profile)}
}

func (m *Memory) Get(userID string) (profile.Profile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.entries[userID]
	if !ok {
		return profile.Profile{}, false, nil
	}
	return p.Clone(), true, nil
}

func (m *Memory) Set(userID string, p profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = p.Clone()
	return nil
}

func (m *Memory) Delete(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}
