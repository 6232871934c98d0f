// Package prefs handles per-device preferences for the homestead client.
// Preferences are stored in ~/.config/homestead/prefs.toml and hold the
// signed-in session, the last theme and task-creation cooldowns per user.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds device-local state that is never sent to the profile server.
type Prefs struct {
	Theme     string               `toml:"theme"`
	Session   Session              `toml:"session"`
	Cooldowns map[string]time.Time `toml:"cooldowns"`
}

// Session is the persisted sign-in.
type Session struct {
	UserID string `toml:"user_id"`
	Email  string `toml:"email"`
}

const (
	defaultPrefsPath = "~/.config/homestead/prefs.toml"
	defaultTheme     = "indigo"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

func defaults() Prefs {
	return Prefs{Theme: defaultTheme, Cooldowns: map[string]time.Time{}}
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return defaults(), nil
	}

	prefs := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if prefs.Cooldowns == nil {
		prefs.Cooldowns = map[string]time.Time{}
	}
	prefs.Session.UserID = strings.TrimSpace(prefs.Session.UserID)

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// File is a Prefs value bound to its path. Every setter writes through.
type File struct {
	path string

	mu sync.Mutex
	p  Prefs
}

// Open loads the prefs at path and keeps them for read-modify-write updates.
func Open(path string) *File {
	p, _ := Load(path)
	return &File{path: path, p: p}
}

// Snapshot returns a copy of the current prefs.
func (f *File) Snapshot() Prefs {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.p
	out.Cooldowns = make(map[string]time.Time, len(f.p.Cooldowns))
	for k, v := range f.p.Cooldowns {
		out.Cooldowns[k] = v
	}
	return out
}

// Session returns the persisted sign-in, if any.
func (f *File) Session() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.p.Session
}

// SetSession records or clears (zero value) the sign-in.
func (f *File) SetSession(s Session) error {
	return f.update(func(p *Prefs) { p.Session = s })
}

// SetTheme records the last theme used on this device.
func (f *File) SetTheme(theme string) error {
	return f.update(func(p *Prefs) { p.Theme = theme })
}

// CooldownUntil returns the end of the task-creation cooldown for userID.
func (f *File) CooldownUntil(userID string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.p.Cooldowns[userID]
	return t, ok
}

// SetCooldown records a cooldown for userID. A zero time clears it.
func (f *File) SetCooldown(userID string, until time.Time) error {
	return f.update(func(p *Prefs) {
		if until.IsZero() {
			delete(p.Cooldowns, userID)
			return
		}
		p.Cooldowns[userID] = until.UTC()
	})
}

func (f *File) update(fn func(*Prefs)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.p.Cooldowns == nil {
		f.p.Cooldowns = map[string]time.Time{}
	}
	fn(&f.p)
	return Save(f.path, f.p)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
