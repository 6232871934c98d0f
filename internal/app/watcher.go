package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/yotip/homestead/internal/engine"
	"github.com/yotip/homestead/internal/state"
)

// EngineFactory builds an unloaded engine for a user.
type EngineFactory func(userID string) (*engine.Engine, error)

// Watcher keeps exactly one engine alive for the signed-in user and replaces
// it on every session transition.
type Watcher struct {
	ctx      context.Context
	store    *state.Store
	build    EngineFactory
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	current *engine.Engine
	cancel  context.CancelFunc
}

// NewWatcher returns a Watcher with no active engine.
func NewWatcher(ctx context.Context, store *state.Store, build EngineFactory, interval time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{
		ctx:      ctx,
		store:    store,
		build:    build,
		interval: interval,
		log:      logger.With("component", "watcher"),
	}
}

// Switch tears down the current engine, resets the store and, for a non-empty
// userID, starts a new engine and its load. Switching to the current user is
// a no-op.
func (w *Watcher) Switch(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current != nil && w.current.UserID() == userID {
		return
	}
	w.stopLocked()
	w.store.Reset(userID)
	if userID == "" {
		return
	}

	eng, err := w.build(userID)
	if err != nil {
		w.log.Error("build engine failed", "user_id", userID, "error", err)
		w.store.Notify("Could not start the game engine.")
		return
	}
	ctx, cancel := context.WithCancel(w.ctx)
	w.current = eng
	w.cancel = cancel

	go func() {
		if err := eng.Load(ctx); err != nil {
			w.log.Warn("load finished with error", "user_id", userID, "error", err)
		}
		StartExpiry(ctx, eng, w.interval)
	}()
}

// Engine returns the active engine, or nil when signed out.
func (w *Watcher) Engine() *engine.Engine {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Close stops the active engine and waits for its saves.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

func (w *Watcher) stopLocked() {
	if w.current == nil {
		return
	}
	w.cancel()
	w.current.Close()
	w.current.Wait()
	w.log.Info("engine stopped", "user_id", w.current.UserID())
	w.current = nil
	w.cancel = nil
}
