package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yotip/homestead/internal/lifecycle"
	"github.com/yotip/homestead/internal/profile"
)

func (m Model) visibleTasks() []profile.Task {
	return lifecycle.Visible(m.snapshot.Profile.Tasks)
}

func (m Model) selectedTask() (profile.Task, bool) {
	tasks := m.visibleTasks()
	if m.taskRow < 0 || m.taskRow >= len(tasks) {
		return profile.Task{}, false
	}
	return tasks[m.taskRow], true
}

// handleTasksKey processes keyboard input for the task list.
func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.visibleTasks()

	switch {
	case key.Matches(msg, m.keys.NewTask):
		m.form = newForm(formNewTask)
		return m, m.form.focusCmd()
	case key.Matches(msg, m.keys.ArchiveAll):
		if lifecycle.OpenCount(m.snapshot.Profile.Tasks) > 0 {
			m.confirmArchive = true
		}
		return m, nil
	}

	if len(tasks) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.taskRow < len(tasks)-1 {
			m.taskRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.taskRow > 0 {
			m.taskRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.taskRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.taskRow = len(tasks) - 1
	case key.Matches(msg, m.keys.Start):
		m.startSelected()
	case key.Matches(msg, m.keys.Complete):
		task, ok := m.selectedTask()
		if !ok {
			break
		}
		if !task.IsActive() {
			m.report("Start the task before completing it.", nil)
			break
		}
		m.form = newForm(formComplete)
		m.form.taskID = task.ID
		m.form.title = "Complete " + truncate(task.Name, 40)
		return m, m.form.focusCmd()
	case key.Matches(msg, m.keys.Reroll):
		task, ok := m.selectedTask()
		if eng := m.engine(); ok && eng != nil {
			m.report("", eng.RerollTask(task.ID))
		}
	}
	return m, nil
}

// startSelected starts the selected task, switching away from the active
// one when there is one.
func (m *Model) startSelected() {
	task, ok := m.selectedTask()
	eng := m.engine()
	if !ok || eng == nil {
		return
	}
	switch {
	case task.IsActive():
		m.report(fmt.Sprintf("%q is already in progress.", task.Name), nil)
	case !task.IsPending():
		m.report("", lifecycle.ErrInvalidTransition)
	default:
		if _, busy := lifecycle.Active(m.snapshot.Profile.Tasks); busy {
			m.report(fmt.Sprintf("Switched to %q.", task.Name), eng.SwitchTask(task.ID))
			return
		}
		m.report(fmt.Sprintf("Started %q.", task.Name), eng.StartTask(task.ID))
	}
}

// renderTasks renders the task list.
func (m Model) renderTasks(width, height int) string {
	styles := m.theme.Styles()
	tasks := m.visibleTasks()

	var b strings.Builder
	open := lifecycle.OpenCount(m.snapshot.Profile.Tasks)
	b.WriteString(styles.AccentText.Render("Tasks"))
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("  %d open", open)))
	if active, ok := lifecycle.Active(m.snapshot.Profile.Tasks); ok {
		b.WriteString(styles.MutedText.Render("  ·  working on "))
		b.WriteString(styles.Text.Render(truncate(active.Name, 40)))
	}
	b.WriteString("\n\n")

	if len(tasks) == 0 {
		b.WriteString(styles.MutedText.Render("No tasks. Press n to add one."))
		return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
	}

	nameWidth := maxInt(width-40, 16)
	visible := maxInt(height-4, 1)
	start := 0
	if m.taskRow >= visible {
		start = m.taskRow - visible + 1
	}
	for i := start; i < len(tasks) && i < start+visible; i++ {
		b.WriteString(m.renderTaskRow(tasks[i], i == m.taskRow, nameWidth, styles))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m Model) renderTaskRow(t profile.Task, selected bool, nameWidth int, styles Styles) string {
	marker := map[string]string{
		"active":    ">",
		"completed": "✓",
		"archived":  "-",
		"pending":   "·",
	}[t.State()]

	name := padRight(truncate(t.Name, nameWidth), nameWidth)
	reward := fmt.Sprintf("+%d", t.Reward)
	due := formatDue(t, m.now)

	if selected {
		line := fmt.Sprintf("%s %s %6s  %-10s %s", marker, name, reward, t.State(), due)
		return styles.Selected.Render(line)
	}

	stateStyle := styles.TaskStateStyle(t.State())
	dueStyle := styles.MutedText
	if t.Deadline != nil && t.IsOpen() && t.Deadline.Sub(m.now) < 10*time.Minute {
		dueStyle = styles.WarningText
	}
	return stateStyle.Render(marker) + " " +
		styles.Text.Render(name) + " " +
		styles.SuccessText.Render(fmt.Sprintf("%6s", reward)) + "  " +
		stateStyle.Render(fmt.Sprintf("%-10s", t.State())) + " " +
		dueStyle.Render(due)
}

// formatDue describes a task's deadline relative to now.
func formatDue(t profile.Task, now time.Time) string {
	switch {
	case t.Completed && t.CompletedAt != nil:
		return "done " + t.CompletedAt.Local().Format("Jan 2 15:04")
	case t.Deadline == nil:
		return ""
	case !t.IsOpen():
		return ""
	}
	left := t.Deadline.Sub(now)
	if left <= 0 {
		return "overdue"
	}
	return "due in " + humanizeDuration(left)
}
