package ui

import (
	"testing"
	"time"

	"github.com/yotip/homestead/internal/profile"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"negative", -5 * time.Second, "now"},
		{"subsecond", 0, "now"},
		{"seconds", 12 * time.Second, "12s"},
		{"short minutes", 9*time.Minute + 12*time.Second, "9m 12s"},
		{"long minutes", 42*time.Minute + 5*time.Second, "42m"},
		{"hours only", 2*time.Hour + 10*time.Second, "2h"},
		{"hours minutes", 2*time.Hour + 3*time.Minute, "2h 3m"},
		{"days", 50 * time.Hour, "2d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := humanizeDuration(tc.in); got != tc.want {
				t.Fatalf("humanizeDuration(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  short ", 10); got != "short" {
		t.Fatalf("truncate = %q, want short", got)
	}
	if got := truncate("Exercise for 30 minutes", 10); got != "Exercis..." {
		t.Fatalf("truncate = %q, want Exercis...", got)
	}
	if got := truncate("abcd", 2); got != "ab" {
		t.Fatalf("truncate limit<=3 = %q, want ab", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	got := truncateMiddle("/home/jo/.local/share/homestead/homestead.log", 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("got %q (%d runes), want 20", got, len([]rune(got)))
	}
}

func TestFormatDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	soon := now.Add(90 * time.Minute)
	past := now.Add(-time.Minute)

	cases := []struct {
		name string
		task profile.Task
		want string
	}{
		{"no deadline", profile.Task{}, ""},
		{"upcoming", profile.Task{Deadline: &soon}, "due in 1h 30m"},
		{"overdue", profile.Task{Deadline: &past}, "overdue"},
		{"archived", profile.Task{Deadline: &past, Archived: true}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatDue(tc.task, now); got != tc.want {
				t.Fatalf("formatDue = %q, want %q", got, tc.want)
			}
		})
	}
}
