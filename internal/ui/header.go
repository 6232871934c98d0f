package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yotip/homestead/internal/lifecycle"
)

// renderMain renders header, view tabs, the current view and the footer.
func (m Model) renderMain() string {
	contentHeight := maxInt(m.height-3, 1)
	content := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(m.renderContent(m.width, contentHeight))

	return strings.Join([]string{
		m.renderHeader(),
		m.renderTabs(),
		content,
		m.renderFooter(),
	}, "\n")
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent(width, height int) string {
	switch m.currentView {
	case ViewFarm:
		return m.renderFarm(width, height)
	case ViewTasks:
		return m.renderTasks(width, height)
	case ViewShop:
		return m.renderShop(width)
	case ViewStats:
		return m.renderStats()
	case ViewActivity:
		return m.renderActivity()
	default:
		return ""
	}
}

// renderHeader renders the status bar: who is playing, coins, the active
// task and the save indicator.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	p := m.snapshot.Profile

	parts := []string{bg.Render("homestead", styles.Logo)}

	who := p.Username
	if who == "" {
		who = "no username"
	}
	parts = append(parts, bg.Render("@"+who, styles.Text))

	coins := fmt.Sprintf("%d", p.Coins)
	if !compact {
		coins = "Coins: " + coins
	}
	parts = append(parts, bg.Render(coins, styles.WarningText.Bold(true)))

	if active, ok := lifecycle.Active(p.Tasks); ok && !compact {
		parts = append(parts,
			bg.Render("Now:", styles.MutedText)+bg.Spaces(1)+
				bg.Render(truncate(active.Name, 30), styles.Text))
	}

	parts = append(parts, m.saveIndicator(styles, bg))
	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) saveIndicator(styles Styles, bg BgStyle) string {
	switch {
	case m.snapshot.IsSaving:
		return bg.Render("● saving", styles.WarningText)
	case m.snapshot.SaveFailed:
		return bg.Render("● not saved", styles.DangerText)
	default:
		return bg.Render("● saved", styles.SuccessText)
	}
}

// renderTabs renders the view switcher.
func (m Model) renderTabs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.currentView {
			tabs = append(tabs, styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, styles.Tab.Render(label))
		}
	}
	return NewBgStyle(m.theme.Background).FillLine(strings.Join(tabs, ""), m.width)
}

// renderFooter shows the current notice, a pending confirmation, or the
// key hints for the view.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var content string
	switch {
	case m.confirmArchive:
		content = bg.Render("Archive all open tasks? y to confirm, any other key to cancel", styles.WarningText.Bold(true))
	case m.snapshot.HasNotice(m.now, NoticeTTL):
		content = bg.Render(m.snapshot.Notice, styles.AccentText)
	default:
		content = bg.Render(m.viewHints(), styles.MutedText)
	}
	return styles.Footer.Width(m.width).Render(content)
}

func (m Model) viewHints() string {
	switch m.currentView {
	case ViewFarm:
		return "[ ] select  hjkl move  HJKL far  enter place  x remove  ? help"
	case ViewTasks:
		return "s start  c complete  r reroll  n new  A archive all  ? help"
	case ViewShop:
		return "j/k choose  b buy  ? help"
	case ViewActivity:
		return "space follow  j/k scroll  g/G top/bottom  ? help"
	default:
		return "tab next view  T theme  U username  O sign out  q quit"
	}
}

// renderSignedOut renders the welcome screen shown without a session.
func (m Model) renderSignedOut() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)

	var b strings.Builder
	b.WriteString(styles.Logo.Render("homestead"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Finish tasks, earn coins, grow your farm."))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("i  sign in"))
	b.WriteString("\n")
	b.WriteString(styles.Text.Render("u  create an account"))
	b.WriteString("\n")
	b.WriteString(styles.Text.Render("p  play offline as a guest"))
	b.WriteString("\n")
	b.WriteString(styles.Text.Render("q  quit"))
	if m.snapshot.HasNotice(m.now, NoticeTTL) {
		b.WriteString("\n\n")
		b.WriteString(styles.AccentText.Render(m.snapshot.Notice))
	}
	if m.logPath != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("log " + truncateMiddle(m.logPath, 48)))
	}
	return m.centered(m.theme.Styles().Modal.Render(b.String()))
}

// renderLoading renders the placeholder shown while the profile loads.
func (m Model) renderLoading() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	return m.centered(styles.MutedText.Render("Loading your homestead..."))
}

func (m Model) centered(content string) string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}
