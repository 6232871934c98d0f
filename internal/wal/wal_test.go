package wal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yotip/homestead/internal/profile"
)

func TestDir_SetGetDelete(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	if _, ok, err := d.Get("u1"); err != nil || ok {
		t.Fatalf("Get on empty cache = ok %v err %v, want absent", ok, err)
	}

	p := profile.Profile{Coins: 10, Tasks: []profile.Task{{ID: 1, Name: "read", Reward: 10}}}
	if err := d.Set("u1", p); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, ok, err := d.Get("u1")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v err %v, want present", ok, err)
	}
	if got.Coins != 10 || len(got.Tasks) != 1 || got.Tasks[0].Name != "read" {
		t.Fatalf("Get = %#v, want stored profile", got)
	}

	if _, ok, _ := d.Get("u2"); ok {
		t.Fatalf("entries leak between users")
	}

	if err := d.Delete("u1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := d.Get("u1"); ok {
		t.Fatalf("entry still present after Delete")
	}
	if err := d.Delete("u1"); err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
}

func TestDir_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	d, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := d.Set("user/with/slashes", profile.Profile{Coins: i}); err != nil {
			t.Fatalf("Set returned error: %v", err)
		}
	}
	got, ok, _ := d.Get("user/with/slashes")
	if !ok || got.Coins != 2 {
		t.Fatalf("Get = %#v ok=%v, want coins 2", got, ok)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("cache dir has %d files, want 1", len(entries))
	}
}

func TestDir_CorruptEntryReportsError(t *testing.T) {
	dir := t.TempDir()
	d, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := os.WriteFile(d.file("u1"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, ok, err := d.Get("u1"); err == nil || ok {
		t.Fatalf("Get corrupt = ok %v err %v, want decode error", ok, err)
	}
}

func TestOpen_EmptyPathFails(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("Open returned nil error, want error")
	}
}

func TestMemory_ClonesEntries(t *testing.T) {
	m := NewMemory()
	p := profile.Profile{Objects: []profile.DecorativeObject{{ID: "a"}}}
	_ = m.Set("u1", p)
	p.Objects[0].ID = "mutated"

	got, ok, _ := m.Get("u1")
	if !ok || got.Objects[0].ID != "a" {
		t.Fatalf("Memory shares slices with caller: %#v", got)
	}
}
