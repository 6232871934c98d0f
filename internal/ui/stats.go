package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yotip/homestead/internal/profile"
)

// renderStats renders the tycoon panel.
func (m Model) renderStats() string {
	styles := m.theme.Styles()
	st := profile.Summarize(m.snapshot.Profile)

	row := func(label string, value any) string {
		return styles.MutedText.Width(18).Render(label) + styles.Text.Render(fmt.Sprint(value))
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Render("Stats"))
	b.WriteString("\n\n")
	b.WriteString(row("Coins", st.Coins) + "\n")
	b.WriteString(row("Earned", st.CoinsEarned) + "\n")
	b.WriteString(row("Spent", st.CoinsSpent) + "\n\n")
	b.WriteString(row("Completed tasks", st.TasksCompleted) + "\n")
	b.WriteString(row("Archived tasks", st.TasksArchived) + "\n")
	b.WriteString(row("Open tasks", st.TasksOpen) + "\n\n")
	b.WriteString(row("Objects", st.Objects) + "\n")

	kinds := make([]string, 0, len(st.ObjectsByKind))
	for k := range st.ObjectsByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		b.WriteString(row("  "+titleCase(k), st.ObjectsByKind[k]) + "\n")
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
