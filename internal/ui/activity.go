package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yotip/homestead/internal/logtail"
)

// activityState holds the activity panel's log buffer.
type activityState struct {
	follow  bool
	entries []logtail.Entry
	err     error
}

type activityMsg struct {
	lines []string
	err   error
}

// initActivityViewport initializes the activity viewport.
func (m *Model) initActivityViewport() {
	m.activityViewport = viewport.New(maxInt(m.width-2, 1), maxInt(m.height-4, 1))
}

func (m *Model) resizeActivityViewport() {
	m.activityViewport.Width = maxInt(m.width-2, 1)
	m.activityViewport.Height = maxInt(m.height-4, 1)
	m.updateActivityViewport()
}

// refreshActivity reads the tail of the client log.
func (m Model) refreshActivity() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, ActivityLineLimit)
		return activityMsg{lines: lines, err: err}
	}
}

func (m *Model) handleActivity(msg activityMsg) {
	m.activity.err = msg.err
	if msg.err == nil {
		m.activity.entries = logtail.ParseLines(msg.lines)
	}
	m.updateActivityViewport()
}

func (m *Model) updateActivityViewport() {
	if !m.ready {
		return
	}
	m.activityViewport.SetContent(m.renderActivityContent())
	if m.activity.follow {
		m.activityViewport.GotoBottom()
	}
}

// handleActivityKey scrolls the activity panel.
func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.activity.follow = !m.activity.follow
		if m.activity.follow {
			m.activityViewport.GotoBottom()
			return m, m.refreshActivity()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.activity.follow = false
		m.activityViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.activityViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.activityViewport, cmd = m.activityViewport.Update(msg)
	if !m.activityViewport.AtBottom() {
		m.activity.follow = false
	}
	return m, cmd
}

func (m Model) renderActivityContent() string {
	styles := m.theme.Styles()
	if m.activity.err != nil {
		return styles.DangerText.Render("Could not read the log: " + m.activity.err.Error())
	}
	if len(m.activity.entries) == 0 {
		return styles.MutedText.Render("Nothing has happened yet.")
	}
	lines := make([]string, 0, len(m.activity.entries))
	for _, e := range m.activity.entries {
		lines = append(lines, m.formatEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

// formatEntry renders one log entry: time, level, message, then attributes
// other than the ones every line carries.
func (m Model) formatEntry(e logtail.Entry, styles Styles) string {
	if e.Level == "" {
		return styles.Text.Render(e.Message)
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
		b.WriteString(" ")
	}
	b.WriteString(levelStyle(e.Level, styles).Render(padRight(e.Level, 5)))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))

	attrs := make([]string, 0, len(e.Attrs))
	for _, a := range e.Attrs {
		if a.Key == "user_id" {
			continue
		}
		attrs = append(attrs, a.Key+"="+a.Value)
	}
	sort.Strings(attrs)
	if len(attrs) > 0 {
		b.WriteString(" ")
		b.WriteString(styles.MutedText.Render(strings.Join(attrs, " ")))
	}
	return b.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	default:
		return styles.MutedText
	}
}

// renderActivity renders the activity panel.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	follow := "paused"
	if m.activity.follow {
		follow = "following"
	}
	title := styles.AccentText.Render("Activity") + styles.MutedText.Render("  "+follow)
	return title + "\n" + m.activityViewport.View()
}
