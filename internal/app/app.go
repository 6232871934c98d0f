package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yotip/homestead/internal/catalog"
	"github.com/yotip/homestead/internal/config"
	"github.com/yotip/homestead/internal/engine"
	"github.com/yotip/homestead/internal/prefs"
	"github.com/yotip/homestead/internal/remote"
	"github.com/yotip/homestead/internal/session"
	"github.com/yotip/homestead/internal/state"
	"github.com/yotip/homestead/internal/ui"
	"github.com/yotip/homestead/internal/wal"
)

// Options configure the homestead client.
type Options struct {
	ConfigPath     string
	PrefsPath      string        // empty uses the config value
	UserID         string        // sign in as this id without credentials
	ExpiryInterval time.Duration // zero uses the config value
	Debug          bool
}

// Run boots the homestead TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ExpiryInterval > 0 {
		cfg.ExpiryInterval = opts.ExpiryInterval
	}
	if strings.TrimSpace(opts.PrefsPath) != "" {
		cfg.PrefsPath = opts.PrefsPath
	}

	logger, closeLog, err := openLogger(cfg.LogFile, opts.Debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	client, err := remote.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init remote client: %w", err)
	}

	cache, err := wal.Open(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("open write-ahead cache: %w", err)
	}

	devicePrefs := prefs.Open(cfg.PrefsPath)
	sessions := session.NewManager(client, devicePrefs, logger)
	if opts.UserID != "" {
		sessions.SignInAs(opts.UserID)
	}

	store := &state.Store{}
	build := func(userID string) (*engine.Engine, error) {
		return engine.New(engine.Options{
			UserID:       userID,
			Remote:       client,
			Cache:        cache,
			Cooldowns:    devicePrefs,
			Catalog:      cat,
			Store:        store,
			Logger:       logger,
			TaskCooldown: cfg.TaskCooldown,
		})
	}

	watcher := NewWatcher(ctx, store, build, cfg.ExpiryInterval, logger)
	defer watcher.Close()

	unsubscribe := sessions.Subscribe(watcher.Switch)
	defer unsubscribe()
	watcher.Switch(sessions.Current())

	logger.Info("homestead started", "api_url", cfg.APIURL, "user_id", sessions.Current())

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Engines:   watcher,
		Sessions:  sessions,
		Catalog:   cat,
		Prefs:     devicePrefs,
		LogPath:   cfg.LogFile,
		ThemeName: devicePrefs.Snapshot().Theme,
	})
}

func openLogger(path string, debug bool) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
