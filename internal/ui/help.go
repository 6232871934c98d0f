package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)

	sections := []helpSection{
		{
			title: "Views",
			items: []helpItem{
				{"tab", "Next view"},
				{"1-5", "Farm/Tasks/Shop/Stats/Activity"},
				{"esc", "Back to the farm"},
			},
		},
		{
			title: "Farm",
			items: []helpItem{
				{"[ ]", "Select object"},
				{"hjkl", "Move a little"},
				{"HJKL", "Move a lot"},
				{"enter", "Place (save layout)"},
				{"x", "Remove object"},
			},
		},
		{
			title: "Tasks",
			items: []helpItem{
				{"s/enter", "Start or switch to task"},
				{"c", "Complete active task"},
				{"r", "Reroll task"},
				{"n", "New task"},
				{"A", "Archive all open tasks"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"b", "Buy (in the shop)"},
				{"T / C", "Cycle theme / custom color"},
				{"U", "Change username"},
				{"O", "Sign out"},
				{"?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 36)))
	b.WriteString("\n\n")

	keyStyle := styles.WarningText.Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := m.theme.Styles().Modal.Width(48).Render(b.String())
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Surface)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
