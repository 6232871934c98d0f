package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yotip/homestead/internal/engine"
)

type formKind int

const (
	formUsername formKind = iota
	formNewTask
	formComplete
	formSignIn
	formSignUp
	formThemeColor
)

// needsEngine reports whether the form acts on the signed-in profile and so
// must close when the user changes.
func (k formKind) needsEngine() bool {
	switch k {
	case formSignIn, formSignUp:
		return false
	default:
		return true
	}
}

// form is a small modal of labelled text inputs.
type form struct {
	kind   formKind
	title  string
	hint   string
	labels []string
	inputs []textinput.Model
	focus  int
	err    string
	busy   bool
	taskID int64
}

type fieldSpec struct {
	label       string
	placeholder string
	limit       int
	secret      bool
}

func newForm(kind formKind) *form {
	f := &form{kind: kind}
	var fields []fieldSpec
	switch kind {
	case formUsername:
		f.title = "Choose a username"
		f.hint = "3-20 characters: a-z, 0-9 or _. Esc to skip for now."
		fields = []fieldSpec{{label: "Username", placeholder: "farmer_jo", limit: 20}}
	case formNewTask:
		f.title = "New task"
		f.hint = "Deadline is optional: 45m, 2h30m or 2026-03-01 18:00."
		fields = []fieldSpec{
			{label: "Name", placeholder: "Water the plants", limit: 80},
			{label: "Reward", placeholder: "20", limit: 6},
			{label: "Deadline", placeholder: "1h", limit: 16},
		}
	case formComplete:
		f.title = "Complete task"
		f.hint = "Path to a photo as proof, or leave blank."
		fields = []fieldSpec{{label: "Proof", placeholder: "~/Pictures/done.jpg", limit: 256}}
	case formSignIn:
		f.title = "Sign in"
		fields = []fieldSpec{
			{label: "Email", placeholder: "you@example.com", limit: 120},
			{label: "Password", limit: 72, secret: true},
		}
	case formSignUp:
		f.title = "Create an account"
		f.hint = "Passwords need at least 6 characters."
		fields = []fieldSpec{
			{label: "Email", placeholder: "you@example.com", limit: 120},
			{label: "Password", limit: 72, secret: true},
		}
	case formThemeColor:
		f.title = "Custom theme"
		f.hint = "A palette name (indigo, pink, teal, yellow) or a hex color."
		fields = []fieldSpec{{label: "Color", placeholder: "#3b82f6", limit: 7}}
	}

	for _, spec := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = spec.placeholder
		in.CharLimit = spec.limit
		in.Width = 36
		if spec.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		f.labels = append(f.labels, spec.label)
		f.inputs = append(f.inputs, in)
	}
	return f
}

func (f *form) focusCmd() tea.Cmd {
	return f.focusField(f.focus)
}

func (f *form) focusField(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	i = (i%len(f.inputs) + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *form) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}

type formResultMsg struct {
	kind   formKind
	notice string
	err    error
}

// handleFormKey routes keys to the open form.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if f.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		if f.kind == formUsername {
			m.usernameDismissed = true
		}
		m.form = nil
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, f.focusField(f.focus + 1)

	case key.Matches(msg, m.keys.PrevField):
		return m, f.focusField(f.focus - 1)

	case key.Matches(msg, m.keys.Confirm):
		if f.focus < len(f.inputs)-1 {
			return m, f.focusField(f.focus + 1)
		}
		cmd, err := m.submitForm(f)
		if err != nil {
			f.err = describeError(err)
			return m, nil
		}
		f.err = ""
		f.busy = true
		return m, cmd
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

// submitForm validates locally and returns the command that performs the
// action. Validation failures come back as an error without a command.
func (m Model) submitForm(f *form) (tea.Cmd, error) {
	v := f.values()
	kind := f.kind
	ctx := m.ctx
	done := func(notice string, err error) tea.Msg {
		return formResultMsg{kind: kind, notice: notice, err: err}
	}

	switch kind {
	case formSignIn, formSignUp:
		sessions := m.sessions
		if sessions == nil {
			return nil, fmt.Errorf("accounts are not available")
		}
		email, password := v[0], f.inputs[1].Value()
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
			defer cancel()
			if kind == formSignUp {
				return done("Welcome to your homestead!", sessions.SignUp(ctx, email, password))
			}
			return done("Welcome back!", sessions.SignIn(ctx, email, password))
		}, nil
	}

	eng := m.engine()
	if eng == nil {
		return nil, engine.ErrNotLoaded
	}

	switch kind {
	case formUsername:
		name := v[0]
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
			defer cancel()
			return done("Username saved.", eng.SetUsername(ctx, name))
		}, nil

	case formNewTask:
		reward, err := strconv.Atoi(v[1])
		if err != nil {
			return nil, fmt.Errorf("reward must be a whole number")
		}
		deadline, err := parseDeadline(v[2], time.Now())
		if err != nil {
			return nil, err
		}
		name := v[0]
		return func() tea.Msg {
			task, err := eng.CreateTask(name, reward, deadline)
			return done(fmt.Sprintf("Added %q.", task.Name), err)
		}, nil

	case formComplete:
		id, path := f.taskID, v[0]
		return func() tea.Msg {
			proof, err := proofPayload(path)
			if err != nil {
				return done("", err)
			}
			credited, err := eng.CompleteTask(id, proof)
			return done(fmt.Sprintf("Task complete: +%d coins.", credited), err)
		}, nil

	case formThemeColor:
		color := v[0]
		prefs := m.prefs
		return func() tea.Msg {
			if err := eng.SetTheme(color); err != nil {
				return done("", err)
			}
			if prefs != nil {
				if err := prefs.SetTheme(color); err != nil {
					return done("", err)
				}
			}
			return done("Theme updated.", nil)
		}, nil
	}
	return nil, fmt.Errorf("unknown form")
}

func (m Model) handleFormResult(msg formResultMsg) (tea.Model, tea.Cmd) {
	if m.form == nil || m.form.kind != msg.kind {
		m.report(msg.notice, msg.err)
		return m, nil
	}
	if msg.err != nil {
		m.form.busy = false
		m.form.err = describeError(msg.err)
		return m, nil
	}
	if msg.kind == formThemeColor {
		m.deviceTheme = m.form.values()[0]
	}
	m.form = nil
	m.report(msg.notice, nil)
	return m, nil
}

// renderForm renders the open form as a centered modal.
func (m Model) renderForm() string {
	f := m.form
	styles := m.theme.Styles().WithBackground(m.theme.Background)

	var b strings.Builder
	b.WriteString(styles.AccentText.Render(f.title))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		label := styles.MutedText.Width(10).Render(f.labels[i])
		if i == f.focus {
			label = styles.AccentText.Width(10).Render(f.labels[i])
		}
		b.WriteString(label)
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.hint != "" {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(f.hint))
		b.WriteString("\n")
	}
	switch {
	case f.busy:
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render("Working..."))
	case f.err != "":
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
	}

	modal := m.theme.Styles().Modal.Width(56).Render(b.String())
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

// parseDeadline accepts an empty string (no deadline), a Go duration such as
// "45m" measured from now, or a local "2006-01-02 15:04" timestamp.
func parseDeadline(text string, now time.Time) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if d, err := time.ParseDuration(text); err == nil {
		if d <= 0 {
			return nil, fmt.Errorf("deadline must be in the future")
		}
		t := now.Add(d)
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", text, now.Location())
	if err != nil {
		return nil, fmt.Errorf("deadline %q: use 45m, 2h30m or 2006-01-02 15:04", text)
	}
	return &t, nil
}
