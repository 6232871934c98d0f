package ui

import (
	"testing"

	"github.com/yotip/homestead/internal/catalog"
)

func TestThemeFor(t *testing.T) {
	cat := catalog.Default()

	if th := ThemeFor(cat, "pink"); th.Name != "pink" || th.Primary != "#ec4899" {
		t.Fatalf("ThemeFor(pink) = %+v", th)
	}
	if th := ThemeFor(cat, " TEAL "); th.Name != "teal" {
		t.Fatalf("ThemeFor(TEAL).Name = %q, want teal", th.Name)
	}
	if th := ThemeFor(cat, "#ABC"); th.Primary != "#aabbcc" {
		t.Fatalf("ThemeFor(#ABC).Primary = %q, want #aabbcc", th.Primary)
	}
	if th := ThemeFor(cat, "plaid"); th.Name != "indigo" {
		t.Fatalf("ThemeFor(plaid).Name = %q, want indigo fallback", th.Name)
	}
	if th := ThemeFor(nil, ""); th.Name != "indigo" {
		t.Fatalf("ThemeFor(nil).Name = %q, want indigo", th.Name)
	}
}

func TestNextTheme(t *testing.T) {
	cat := catalog.Default()
	cases := []struct{ in, want string }{
		{"indigo", "pink"},
		{"pink", "teal"},
		{"yellow", "indigo"},
		{"#123456", "indigo"},
	}
	for _, tc := range cases {
		if got := NextTheme(cat, tc.in); got != tc.want {
			t.Fatalf("NextTheme(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTint(t *testing.T) {
	got := tint("#000000", 0.5)
	if got == "#000000" || len(got) != 7 || got[0] != '#' {
		t.Fatalf("tint = %q, want a lighter #rrggbb", got)
	}
	if got := tint("not-a-color", 0.5); got != "not-a-color" {
		t.Fatalf("tint(invalid) = %q, want input back", got)
	}
}
