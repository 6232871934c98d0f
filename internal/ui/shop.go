package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleShopKey processes keyboard input for the store.
func (m Model) handleShopKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.catalog.Store
	if len(items) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.shopRow < len(items)-1 {
			m.shopRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.shopRow > 0 {
			m.shopRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.shopRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.shopRow = len(items) - 1
	case key.Matches(msg, m.keys.Buy):
		m.buySelected()
	}
	return m, nil
}

func (m *Model) buySelected() {
	eng := m.engine()
	if eng == nil || m.shopRow >= len(m.catalog.Store) {
		return
	}
	item := m.catalog.Store[m.shopRow]
	ok, err := eng.Buy(item.Kind)
	switch {
	case err != nil:
		m.report("", err)
	case !ok:
		m.report(fmt.Sprintf("Not enough coins for the %s (%d needed).", strings.ToLower(item.Name), item.Cost), nil)
	default:
		m.selectedObject = ""
		m.report(fmt.Sprintf("Bought a %s! Find it on your farm.", strings.ToLower(item.Name)), nil)
	}
}

// renderShop renders the store listing.
func (m Model) renderShop(width int) string {
	styles := m.theme.Styles()
	coins := m.snapshot.Profile.Coins

	var b strings.Builder
	b.WriteString(styles.AccentText.Render("Shop"))
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("  you have %d coins", coins)))
	b.WriteString("\n\n")

	descWidth := maxInt(width-36, 10)
	for i, it := range m.catalog.Store {
		affordable := coins >= it.Cost
		line := fmt.Sprintf("%-7s %-8s %5d  %s", objectLabel(it.Kind), it.Name, it.Cost, truncate(it.Description, descWidth))
		switch {
		case i == m.shopRow:
			b.WriteString(styles.Selected.Render(padRight(line, width-4)))
		case affordable:
			b.WriteString(styles.Text.Render(line))
		default:
			b.WriteString(styles.FaintText.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("b or enter buys; new objects appear in the middle of the farm."))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
