package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/yotip/homestead/internal/catalog"
	"github.com/yotip/homestead/internal/profile"
	"github.com/yotip/homestead/internal/remote"
	"github.com/yotip/homestead/internal/state"
	"github.com/yotip/homestead/internal/wal"
)

// fakeRemote is an in-memory remote.ProfileStore.
type fakeRemote struct {
	mu        sync.Mutex
	profiles  map[string]profile.Profile
	fetchErr  error
	upsertErr func(profile.Fields) error
	fetches   int
	upserts   []profile.Fields
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{profiles: make(map[string]profile.Profile)}
}

func (f *fakeRemote) Fetch(_ context.Context, userID string) (profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return profile.Profile{}, f.fetchErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return profile.Profile{}, remote.ErrNotFound
	}
	return p.Clone(), nil
}

func (f *fakeRemote) Upsert(_ context.Context, userID string, fields profile.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, fields)
	if f.upsertErr != nil {
		if err := f.upsertErr(fields); err != nil {
			return err
		}
	}
	if fields.Username != nil {
		for id, p := range f.profiles {
			if id != userID && p.Username == *fields.Username {
				return remote.ErrUsernameTaken
			}
		}
	}
	f.profiles[userID] = f.profiles[userID].Merge(fields)
	return nil
}

func (f *fakeRemote) UsernameOwner(_ context.Context, username string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.profiles {
		if p.Username == username {
			return id, nil
		}
	}
	return "", nil
}

func (f *fakeRemote) put(userID string, p profile.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[userID] = p
}

func (f *fakeRemote) stored(userID string) (profile.Profile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	return p.Clone(), ok
}

func (f *fakeRemote) failUpserts(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		f.upsertErr = nil
		return
	}
	f.upsertErr = func(profile.Fields) error { return err }
}

func (f *fakeRemote) counts() (fetches, upserts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches, len(f.upserts)
}

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	remote *fakeRemote
	cache  *wal.Memory
	store  *state.Store
	clock  *FakeClock
	cool   *memoryCooldowns
}

func newHarness() *harness {
	return &harness{
		remote: newFakeRemote(),
		cache:  wal.NewMemory(),
		store:  &state.Store{},
		clock:  NewFakeClock(testStart),
		cool:   newMemoryCooldowns(),
	}
}

func (h *harness) engine(t *testing.T, userID string) *Engine {
	t.Helper()
	e, err := New(Options{
		UserID:    userID,
		Remote:    h.remote,
		Cache:     h.cache,
		Cooldowns: h.cool,
		Catalog:   catalog.Default(),
		Store:     h.store,
		Clock:     h.clock,
		Rand:      func(int) int { return 0 },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return e
}

// loaded returns an engine for userID whose remote profile is p, after Load
// and the settle of any load-time save.
func (h *harness) loaded(t *testing.T, userID string, p profile.Profile) *Engine {
	t.Helper()
	h.remote.put(userID, p)
	e := h.engine(t, userID)
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	e.Wait()
	return e
}

func activeCount(tasks []profile.Task) int {
	n := 0
	for _, t := range tasks {
		if t.InProgress && !t.Archived {
			n++
		}
	}
	return n
}
