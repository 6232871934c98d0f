package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/yotip/homestead/internal/engine"
	"github.com/yotip/homestead/internal/profile"
	"github.com/yotip/homestead/internal/remote"
	"github.com/yotip/homestead/internal/state"
	"github.com/yotip/homestead/internal/wal"
)

type memRemote struct {
	mu       sync.Mutex
	profiles map[string]profile.Profile
}

func (m *memRemote) Fetch(_ context.Context, id string) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return profile.Profile{}, remote.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *memRemote) Upsert(_ context.Context, id string, f profile.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[id] = m.profiles[id].Merge(f)
	return nil
}

func (m *memRemote) UsernameOwner(context.Context, string) (string, error) { return "", nil }

func newTestWatcher(t *testing.T, rem *memRemote) (*Watcher, *state.Store) {
	t.Helper()
	store := &state.Store{}
	cache := wal.NewMemory()
	build := func(userID string) (*engine.Engine, error) {
		return engine.New(engine.Options{UserID: userID, Remote: rem, Cache: cache, Store: store})
	}
	w := NewWatcher(context.Background(), store, build, time.Hour, nil)
	t.Cleanup(w.Close)
	return w, store
}

func waitLoaded(t *testing.T, store *state.Store, userID string) state.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := store.Snapshot()
		if snap.UserID == userID && snap.DataLoaded {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("store never loaded %q; last snapshot %#v", userID, snap)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWatcher_SwitchLoadsAndResets(t *testing.T) {
	rem := &memRemote{profiles: map[string]profile.Profile{
		"u1": {Coins: 111, Username: "one"},
		"u2": {Coins: 222, Username: "two"},
	}}
	w, store := newTestWatcher(t, rem)

	w.Switch("u1")
	if snap := waitLoaded(t, store, "u1"); snap.Profile.Coins != 111 {
		t.Fatalf("u1 coins = %d, want 111", snap.Profile.Coins)
	}
	first := w.Engine()

	w.Switch("u1")
	if w.Engine() != first {
		t.Fatalf("switching to the same user replaced the engine")
	}

	w.Switch("u2")
	if snap := waitLoaded(t, store, "u2"); snap.Profile.Coins != 222 {
		t.Fatalf("u2 coins = %d, want 222", snap.Profile.Coins)
	}

	// The retired engine must not leak into the new session.
	_, _ = first.Buy("cat")
	first.Wait()
	if snap := store.Snapshot(); snap.UserID != "u2" || snap.Profile.Coins != 222 {
		t.Fatalf("snapshot = %#v after retired engine call, want u2", snap)
	}

	w.Switch("")
	if w.Engine() != nil {
		t.Fatalf("Engine() non-nil after sign-out")
	}
	snap := store.Snapshot()
	if snap.UserID != "" || snap.DataLoaded || snap.Profile.Coins != 0 {
		t.Fatalf("snapshot after sign-out = %#v, want empty", snap)
	}
}
