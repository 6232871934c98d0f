package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}

	wantCacheDir, err := expandPath(defaultCacheDir)
	if err != nil {
		t.Fatalf("expandPath(defaultCacheDir) returned error: %v", err)
	}
	if cfg.CacheDir != wantCacheDir {
		t.Fatalf("CacheDir = %q, want %q", cfg.CacheDir, wantCacheDir)
	}
	if cfg.ExpiryInterval != time.Second {
		t.Fatalf("ExpiryInterval = %v, want %v", cfg.ExpiryInterval, time.Second)
	}
	if cfg.TaskCooldown != 10*time.Minute {
		t.Fatalf("TaskCooldown = %v, want %v", cfg.TaskCooldown, 10*time.Minute)
	}
	if cfg.CatalogPath != "" {
		t.Fatalf("CatalogPath = %q, want empty", cfg.CatalogPath)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  https://farm.example.com/  "
cache_dir = "  ~/.homestead/pending  "
log_file = "~/.homestead/client.log"
catalog_path = "~/catalog.yaml"
expiry_interval = " 500ms "
task_cooldown = "2m"
request_timeout = "3s"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://farm.example.com" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "https://farm.example.com")
	}
	if !strings.HasPrefix(cfg.CacheDir, home) {
		t.Fatalf("CacheDir = %q, want it under HOME %q", cfg.CacheDir, home)
	}
	if cfg.LogFile != filepath.Join(home, ".homestead", "client.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.CatalogPath != filepath.Join(home, "catalog.yaml") {
		t.Fatalf("CatalogPath = %q", cfg.CatalogPath)
	}
	if cfg.ExpiryInterval != 500*time.Millisecond {
		t.Fatalf("ExpiryInterval = %v, want 500ms", cfg.ExpiryInterval)
	}
	if cfg.TaskCooldown != 2*time.Minute {
		t.Fatalf("TaskCooldown = %v, want 2m", cfg.TaskCooldown)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "   "
cache_dir = ""
task_cooldown = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantCacheDir, err := expandPath(defaultCacheDir)
	if err != nil {
		t.Fatalf("expandPath(defaultCacheDir) returned error: %v", err)
	}
	if cfg.CacheDir != wantCacheDir {
		t.Fatalf("CacheDir = %q, want %q", cfg.CacheDir, wantCacheDir)
	}
	if cfg.TaskCooldown != defaultTaskCooldown {
		t.Fatalf("TaskCooldown = %v, want %v", cfg.TaskCooldown, defaultTaskCooldown)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_BadDurationFails(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "garbage", content: `expiry_interval = "soon"`},
		{name: "negative", content: `task_cooldown = "-1m"`},
		{name: "zero", content: `request_timeout = "0s"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("Load returned nil error, want duration error")
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
