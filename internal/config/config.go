package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the homestead client settings.
type Config struct {
	APIURL         string
	CacheDir       string
	LogFile        string
	PrefsPath      string
	CatalogPath    string
	ExpiryInterval time.Duration
	TaskCooldown   time.Duration
	RequestTimeout time.Duration
}

const (
	defaultConfigPath     = "~/.config/homestead/config.toml"
	defaultAPIURL         = "http://127.0.0.1:8080"
	defaultCacheDir       = "~/.local/share/homestead/pending"
	defaultLogFile        = "~/.local/share/homestead/homestead.log"
	defaultPrefsPath      = "~/.config/homestead/prefs.toml"
	defaultExpiryInterval = time.Second
	defaultTaskCooldown   = 10 * time.Minute
	defaultRequestTimeout = 5 * time.Second
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		APIURL:         defaultAPIURL,
		CacheDir:       mustExpand(defaultCacheDir),
		LogFile:        mustExpand(defaultLogFile),
		PrefsPath:      mustExpand(defaultPrefsPath),
		ExpiryInterval: defaultExpiryInterval,
		TaskCooldown:   defaultTaskCooldown,
		RequestTimeout: defaultRequestTimeout,
	}
}

// Load locates and parses the client config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		CacheDir       string `toml:"cache_dir"`
		LogFile        string `toml:"log_file"`
		PrefsPath      string `toml:"prefs_path"`
		CatalogPath    string `toml:"catalog_path"`
		ExpiryInterval string `toml:"expiry_interval"`
		TaskCooldown   string `toml:"task_cooldown"`
		RequestTimeout string `toml:"request_timeout"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.CacheDir); v != "" {
		cfg.CacheDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.PrefsPath); v != "" {
		cfg.PrefsPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.CatalogPath); v != "" {
		cfg.CatalogPath = mustExpand(v)
	}

	if cfg.ExpiryInterval, err = parseDuration("expiry_interval", raw.ExpiryInterval, cfg.ExpiryInterval); err != nil {
		return Config{}, err
	}
	if cfg.TaskCooldown, err = parseDuration("task_cooldown", raw.TaskCooldown, cfg.TaskCooldown); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, cfg.RequestTimeout); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse config: %s must be positive, got %s", key, trimmed)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
