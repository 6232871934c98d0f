package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/yotip/homestead/internal/catalog"
	"github.com/yotip/homestead/internal/profile"
)

// Theme defines colors for the UI. Primary and Background come from the
// profile's palette; the rest are fixed so text stays readable on any tint.
type Theme struct {
	Name string

	Primary    string
	Background string
	Surface    string // header, footer and modal bodies
	Selection  string

	Text    string
	Muted   string
	Faint   string
	Success string
	Warning string
	Danger  string
}

const (
	textColor    = "#1f2937"
	mutedColor   = "#4b5563"
	faintColor   = "#9ca3af"
	successColor = "#15803d"
	warningColor = "#a16207"
	dangerColor  = "#b91c1c"
)

// ThemeFor resolves a profile theme value: a catalog palette name or a
// custom hex color. Anything else falls back to the default palette.
func ThemeFor(cat *catalog.Catalog, name string) Theme {
	name = strings.TrimSpace(name)
	if cat != nil {
		if th, ok := cat.Theme(name); ok {
			return newTheme(th.Name, th.Primary, th.Background)
		}
	}
	if profile.IsHexColor(name) {
		primary := expandHex(name)
		return newTheme(primary, primary, tint(primary, 0.85))
	}
	if cat != nil && name != profile.DefaultTheme {
		return ThemeFor(cat, profile.DefaultTheme)
	}
	return newTheme(profile.DefaultTheme, "#4f46e5", "#e0e7ff")
}

// NextTheme returns the palette after current in catalog order. A custom
// color or unknown name starts over at the first palette.
func NextTheme(cat *catalog.Catalog, current string) string {
	names := cat.ThemeNames()
	if len(names) == 0 {
		return profile.DefaultTheme
	}
	for i, n := range names {
		if strings.EqualFold(n, current) {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func newTheme(name, primary, background string) Theme {
	return Theme{
		Name:       name,
		Primary:    primary,
		Background: background,
		Surface:    tint(primary, 0.7),
		Selection:  primary,
		Text:       textColor,
		Muted:      mutedColor,
		Faint:      faintColor,
		Success:    successColor,
		Warning:    warningColor,
		Danger:     dangerColor,
	}
}

// tint blends hex toward white by amount in [0,1].
func tint(hex string, amount float64) string {
	c, err := colorful.Hex(expandHex(hex))
	if err != nil {
		return hex
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	return c.BlendLab(white, amount).Clamped().Hex()
}

// expandHex turns #rgb into #rrggbb.
func expandHex(hex string) string {
	hex = strings.ToLower(strings.TrimSpace(hex))
	if len(hex) != 4 {
		return hex
	}
	return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Background)).
			Foreground(lipgloss.Color(t.Text)),

		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Selection)).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true),

		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		ActiveTab: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Primary)).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Primary)).
			Background(lipgloss.Color(t.Background)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(1, 2),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header    lipgloss.Style
	Footer    lipgloss.Style
	Logo      lipgloss.Style
	Selected  lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Modal     lipgloss.Style
}

// TaskStateStyle returns the badge style for a task state label.
func (s Styles) TaskStateStyle(state string) lipgloss.Style {
	switch state {
	case "active":
		return s.AccentText
	case "completed":
		return s.SuccessText
	case "archived":
		return s.FaintText
	default:
		return s.MutedText
	}
}

// WithBackground returns a copy of Styles with every text style carrying
// bgColor, so styled runs do not punch holes in a colored bar.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	out.Background = s.Background.Background(bg)
	out.Surface = s.Surface.Background(bg)
	out.Text = s.Text.Background(bg)
	out.MutedText = s.MutedText.Background(bg)
	out.FaintText = s.FaintText.Background(bg)
	out.AccentText = s.AccentText.Background(bg)
	out.SuccessText = s.SuccessText.Background(bg)
	out.WarningText = s.WarningText.Background(bg)
	out.DangerText = s.DangerText.Background(bg)
	out.Header = s.Header.Background(bg)
	out.Footer = s.Footer.Background(bg)
	out.Logo = s.Logo.Background(bg)
	out.Tab = s.Tab.Background(bg)
	return out
}
