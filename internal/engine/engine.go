package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/yotip/homestead/internal/catalog"
	"github.com/yotip/homestead/internal/lifecycle"
	"github.com/yotip/homestead/internal/profile"
	"github.com/yotip/homestead/internal/remote"
	"github.com/yotip/homestead/internal/state"
	"github.com/yotip/homestead/internal/wal"
)

const (
	// TaskLimit is the open-task count at which creation starts a cooldown.
	TaskLimit = 5

	DefaultTaskCooldown = 10 * time.Minute
	defaultSaveTimeout  = 15 * time.Second
)

// DefaultObjectPosition is where purchased objects first appear.
var DefaultObjectPosition = profile.Position{Top: 50, Left: 50}

// CooldownStore persists task-creation cooldowns per user.
type CooldownStore interface {
	CooldownUntil(userID string) (time.Time, bool)
	SetCooldown(userID string, until time.Time) error
}

// Options wires an Engine to its collaborators. Remote and Cache are required.
type Options struct {
	UserID       string
	Remote       remote.ProfileStore
	Cache        wal.Cache
	Cooldowns    CooldownStore
	Catalog      *catalog.Catalog
	Store        *state.Store
	Clock        Clock
	Logger       *slog.Logger
	Rand         func(n int) int
	TaskCooldown time.Duration
	SaveTimeout  time.Duration
}

// Engine owns one user's in-memory profile for the lifetime of a session.
type Engine struct {
	userID       string
	remote       remote.ProfileStore
	cache        wal.Cache
	cooldowns    CooldownStore
	catalog      *catalog.Catalog
	store        *state.Store
	clock        Clock
	log          *slog.Logger
	rand         func(n int) int
	taskCooldown time.Duration
	saveTimeout  time.Duration

	mu            sync.Mutex
	p             profile.Profile
	loaded        bool
	needsUsername bool
	saveFailed    bool
	inflight      int
	closed        bool
	written       uint64 // newest generation handed to the cache

	saveMu    sync.Mutex // serializes remote upserts
	confirmed uint64     // newest generation the remote accepted

	wg sync.WaitGroup
}

// New builds an Engine for opts.UserID. Nothing is loaded until Load runs.
func New(opts Options) (*Engine, error) {
	if opts.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if opts.Remote == nil {
		return nil, fmt.Errorf("remote store is required")
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("write-ahead cache is required")
	}

	e := &Engine{
		userID:       opts.UserID,
		remote:       opts.Remote,
		cache:        opts.Cache,
		cooldowns:    opts.Cooldowns,
		catalog:      opts.Catalog,
		store:        opts.Store,
		clock:        opts.Clock,
		log:          opts.Logger,
		rand:         opts.Rand,
		taskCooldown: opts.TaskCooldown,
		saveTimeout:  opts.SaveTimeout,
	}
	if e.cooldowns == nil {
		e.cooldowns = newMemoryCooldowns()
	}
	if e.catalog == nil {
		e.catalog = catalog.Default()
	}
	if e.clock == nil {
		e.clock = RealClock{}
	}
	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.log = e.log.With("component", "engine", "user_id", e.userID)
	if e.rand == nil {
		e.rand = rand.Intn
	}
	if e.taskCooldown <= 0 {
		e.taskCooldown = DefaultTaskCooldown
	}
	if e.saveTimeout <= 0 {
		e.saveTimeout = defaultSaveTimeout
	}
	return e, nil
}

// UserID returns the user this engine is bound to.
func (e *Engine) UserID() string { return e.userID }

// Load runs the load protocol. It always leaves the engine loaded; a non-nil
// error is informational and the engine is usable with default state.
func (e *Engine) Load(ctx context.Context) error {
	cached, ok, err := e.cache.Get(e.userID)
	if err != nil {
		e.log.Warn("read write-ahead cache failed", "error", err)
	}
	if ok {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.adoptLocked(cached)
		e.log.Info("recovered unsaved profile from cache", "coins", e.p.Coins, "tasks", len(e.p.Tasks))
		// Replays the snapshot remotely; the entry stays until that succeeds.
		e.saveLocked(profile.Fields{}, true)
		e.publishLocked("")
		return nil
	}

	fetched, err := e.remote.Fetch(ctx, e.userID)

	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case errors.Is(err, remote.ErrNotFound):
		e.adoptLocked(profile.Profile{})
		e.log.Info("no remote profile, starting a new one")
		e.saveLocked(profile.Fields{}, false)
		e.publishLocked("")
		return nil
	case err != nil:
		e.adoptLocked(profile.Profile{})
		// Nothing was loaded, so the missing name is not the user's.
		e.needsUsername = false
		e.log.Error("fetch profile failed, using defaults", "error", err)
		e.publishLocked("Could not reach the server; changes will sync later.")
		return fmt.Errorf("fetch profile: %w", err)
	default:
		e.adoptLocked(fetched)
		e.log.Info("loaded remote profile", "coins", e.p.Coins, "tasks", len(e.p.Tasks))
		e.publishLocked("")
		return nil
	}
}

func (e *Engine) adoptLocked(p profile.Profile) {
	p = p.Clone()
	p.Coins = profile.ClampCoins(p.Coins)
	if len(p.Tasks) == 0 {
		p.Tasks = lifecycle.Seed(e.catalog.SeedTasks, e.clock.Now())
	}
	if p.Objects == nil {
		p.Objects = []profile.DecorativeObject{}
	}
	if p.Theme == "" {
		p.Theme = profile.DefaultTheme
	}
	if cleared := normalizeActive(p.Tasks); cleared > 0 {
		e.log.Warn("profile had several active tasks, kept the first", "cleared", cleared)
	}
	e.p = p
	e.needsUsername = p.Username == ""
	e.loaded = true
}

// normalizeActive keeps the first active task in progress and returns the
// rest to Pending. It reports how many it cleared.
func normalizeActive(tasks []profile.Task) int {
	seen, cleared := false, 0
	for i := range tasks {
		if !tasks[i].IsActive() {
			continue
		}
		if seen {
			tasks[i].InProgress = false
			cleared++
			continue
		}
		seen = true
	}
	return cleared
}

// save merges fields into the in-memory profile, writes the full snapshot to
// the write-ahead cache and dispatches the remote upsert. Callers hold e.mu.
func (e *Engine) save(fields profile.Fields) {
	e.saveLocked(fields, true)
}

func (e *Engine) saveLocked(fields profile.Fields, surface bool) {
	if !e.loaded {
		return
	}
	e.p = e.p.Merge(fields)
	payload := e.p.Clone()

	e.written++
	gen := e.written
	if err := e.cache.Set(e.userID, payload); err != nil {
		e.log.Warn("write-ahead cache write failed", "error", err, "generation", gen)
	}

	e.inflight++
	e.wg.Add(1)
	go e.upsert(gen, payload, surface)
}

func (e *Engine) upsert(gen uint64, payload profile.Profile, surface bool) {
	defer e.wg.Done()
	defer func() {
		e.mu.Lock()
		e.inflight--
		e.publishLocked("")
		e.mu.Unlock()
	}()

	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	if gen <= e.confirmed {
		e.log.Debug("dropping stale save", "generation", gen, "confirmed", e.confirmed)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.saveTimeout)
	defer cancel()
	err := e.remote.Upsert(ctx, e.userID, profile.FieldsOf(payload))

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.handleSaveErrorLocked(err, payload, surface)
		return
	}

	e.confirmed = gen
	if gen == e.written {
		if err := e.cache.Delete(e.userID); err != nil {
			e.log.Warn("clear write-ahead cache failed", "error", err)
		}
		e.saveFailed = false
	}
	e.log.Debug("profile saved", "generation", gen)
}

func (e *Engine) handleSaveErrorLocked(err error, payload profile.Profile, surface bool) {
	if errors.Is(err, remote.ErrUsernameTaken) && payload.Username != "" && e.p.Username == payload.Username {
		e.log.Warn("username claimed by another profile during save", "username", payload.Username)
		e.p.Username = ""
		e.needsUsername = true
		e.saveLocked(profile.Fields{}, surface)
		e.publishLocked("That username was taken; pick another.")
		return
	}

	e.log.Error("save profile failed", "error", err)
	if !surface {
		return
	}
	e.saveFailed = true
	e.publishLocked("Saving failed; will retry on your next change.")
}

// Wait blocks until every dispatched save has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close detaches the engine from the state store. In-flight saves still run
// to completion; call Wait to block on them.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

// IsSaving reports whether a remote upsert is in flight.
func (e *Engine) IsSaving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inflight > 0
}

// Profile returns a copy of the in-memory profile.
func (e *Engine) Profile() profile.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.p.Clone()
}

// Loaded reports whether the load protocol has completed.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// NeedsUsername reports whether the profile still lacks a username.
func (e *Engine) NeedsUsername() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.needsUsername
}

func (e *Engine) publishLocked(notice string) {
	if e.closed || e.store == nil {
		return
	}
	p := e.p.Clone()
	loaded, needs, saving, failed := e.loaded, e.needsUsername, e.inflight > 0, e.saveFailed
	now := e.clock.Now()
	e.store.Update(func(s *state.Snapshot) {
		s.UserID = e.userID
		s.Profile = p
		s.DataLoaded = loaded
		s.NeedsUsername = needs
		s.IsSaving = saving
		s.SaveFailed = failed
		if notice != "" {
			s.Notice = notice
			s.NoticeAt = now
		}
	})
}

type memoryCooldowns struct {
	mu sync.Mutex
	m  map[string]time.Time
}

func newMemoryCooldowns() *memoryCooldowns {
	return &memoryCooldowns{m: make(map[string]time.Time)}
}

func (c *memoryCooldowns) CooldownUntil(userID string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.m[userID]
	return t, ok
}

func (c *memoryCooldowns) SetCooldown(userID string, until time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if until.IsZero() {
		delete(c.m, userID)
		return nil
	}
	c.m[userID] = until
	return nil
}
