package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/yotip/homestead/internal/catalog"
	"github.com/yotip/homestead/internal/engine"
	"github.com/yotip/homestead/internal/lifecycle"
	"github.com/yotip/homestead/internal/profile"
	"github.com/yotip/homestead/internal/remote"
	"github.com/yotip/homestead/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewFarm View = iota
	ViewTasks
	ViewShop
	ViewStats
	ViewActivity
)

var viewOrder = []View{ViewFarm, ViewTasks, ViewShop, ViewStats, ViewActivity}

func (v View) String() string {
	switch v {
	case ViewFarm:
		return "Farm"
	case ViewTasks:
		return "Tasks"
	case ViewShop:
		return "Shop"
	case ViewStats:
		return "Stats"
	case ViewActivity:
		return "Activity"
	default:
		return "?"
	}
}

// EngineSource yields the engine for the signed-in user, or nil.
type EngineSource interface {
	Engine() *engine.Engine
}

// Auth is the slice of the session manager the UI drives.
type Auth interface {
	Current() string
	Email() string
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignInAs(userID string)
	SignOut()
}

// ThemePrefs remembers the last theme on this device.
type ThemePrefs interface {
	SetTheme(theme string) error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Engines   EngineSource
	Sessions  Auth
	Catalog   *catalog.Catalog
	Prefs     ThemePrefs
	LogPath   string
	ThemeName string
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx      context.Context
	store    *state.Store
	engines  EngineSource
	sessions Auth
	catalog  *catalog.Catalog
	prefs    ThemePrefs
	logPath  string
	tick     time.Duration

	// UI state
	keys        keyMap
	theme       Theme
	deviceTheme string
	currentView View
	width       int
	height      int
	ready       bool
	now         time.Time

	// Data state
	snapshot    state.Snapshot
	changes     <-chan struct{}
	unsubscribe func()

	// Tasks state
	taskRow        int
	confirmArchive bool

	// Shop state
	shopRow int

	// Farm state
	selectedObject string
	layoutDirty    bool

	// Activity state
	activityViewport viewport.Model
	activity         activityState

	// Overlays
	showHelp          bool
	form              *form
	usernameDismissed bool
}

// New creates a new Bubble Tea model. It subscribes to store changes; call
// Close when the program exits.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = profile.DefaultTheme
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		engines:     opts.Engines,
		sessions:    opts.Sessions,
		catalog:     cat,
		prefs:       opts.Prefs,
		logPath:     opts.LogPath,
		tick:        tick,
		keys:        DefaultKeyMap(),
		theme:       ThemeFor(cat, themeName),
		deviceTheme: themeName,
		currentView: ViewFarm,
		now:         time.Now(),
		activity:    activityState{follow: true},
	}
	if m.store != nil {
		m.changes, m.unsubscribe = m.store.Subscribe()
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store), waitForChangeCmd(m.store, m.changes))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initActivityViewport()
		}
		m.ready = true
		m.resizeActivityViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		cmd := m.applySnapshot(state.Snapshot(msg))
		return m, cmd

	case storeChangedMsg:
		cmd := m.applySnapshot(state.Snapshot(msg))
		return m, tea.Batch(cmd, waitForChangeCmd(m.store, m.changes))

	case storeClosedMsg:
		return m, nil

	case actionMsg:
		m.report(msg.notice, msg.err)
		return m, nil

	case formResultMsg:
		return m.handleFormResult(msg)

	case activityMsg:
		m.handleActivity(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.form != nil {
		return m.renderForm()
	}
	switch {
	case m.snapshot.UserID == "":
		return m.renderSignedOut()
	case !m.snapshot.DataLoaded:
		return m.renderLoading()
	}
	return m.renderMain()
}

// Close releases the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// applySnapshot adopts a new snapshot and opens the username prompt when the
// profile still needs one.
func (m *Model) applySnapshot(snap state.Snapshot) tea.Cmd {
	if snap.UserID != m.snapshot.UserID {
		m.taskRow, m.shopRow = 0, 0
		m.selectedObject = ""
		m.layoutDirty = false
		m.confirmArchive = false
		m.usernameDismissed = false
		m.currentView = ViewFarm
		if m.form != nil && m.form.kind.needsEngine() {
			m.form = nil
		}
	}
	m.snapshot = snap
	m.now = time.Now()

	themeName := m.deviceTheme
	if snap.DataLoaded && snap.Profile.Theme != "" {
		themeName = snap.Profile.Theme
	}
	m.theme = ThemeFor(m.catalog, themeName)

	m.clampSelections()
	if snap.DataLoaded && snap.NeedsUsername && m.form == nil && !m.usernameDismissed {
		m.form = newForm(formUsername)
		return m.form.focusCmd()
	}
	return nil
}

func (m *Model) clampSelections() {
	tasks := m.visibleTasks()
	if m.taskRow >= len(tasks) {
		m.taskRow = len(tasks) - 1
	}
	if m.taskRow < 0 {
		m.taskRow = 0
	}
	if m.shopRow >= len(m.catalog.Store) {
		m.shopRow = 0
	}
	if m.selectedObject != "" && objectIndex(m.snapshot.Profile.Objects, m.selectedObject) < 0 {
		m.selectedObject = ""
	}
	if m.selectedObject == "" && len(m.snapshot.Profile.Objects) > 0 {
		objs := m.snapshot.Profile.Objects
		m.selectedObject = objs[len(objs)-1].ID
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}
	if msg.String() == "ctrl+c" {
		m.commitLayout()
		return m, tea.Quit
	}

	if m.snapshot.UserID == "" {
		return m.handleSignedOutKey(msg)
	}
	if !m.snapshot.DataLoaded {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.confirmArchive {
		m.confirmArchive = false
		if msg.String() == "y" {
			if eng := m.engine(); eng != nil {
				eng.ArchiveAll()
				m.report("Archived all open tasks.", nil)
			}
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.commitLayout()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.setTheme(NextTheme(m.catalog, m.theme.Name))
		return m, nil

	case key.Matches(msg, m.keys.CustomHex):
		m.form = newForm(formThemeColor)
		return m, m.form.focusCmd()

	case key.Matches(msg, m.keys.Username):
		m.form = newForm(formUsername)
		m.form.inputs[0].SetValue(m.snapshot.Profile.Username)
		return m, m.form.focusCmd()

	case key.Matches(msg, m.keys.SignOut):
		m.commitLayout()
		return m, m.signOutCmd()

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.offsetView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.offsetView(-1))

	case key.Matches(msg, m.keys.ViewFarm):
		return m.switchView(ViewFarm)
	case key.Matches(msg, m.keys.ViewTasks):
		return m.switchView(ViewTasks)
	case key.Matches(msg, m.keys.ViewShop):
		return m.switchView(ViewShop)
	case key.Matches(msg, m.keys.ViewStats):
		return m.switchView(ViewStats)
	case key.Matches(msg, m.keys.ViewActivity):
		return m.switchView(ViewActivity)

	case key.Matches(msg, m.keys.Escape):
		return m.switchView(ViewFarm)
	}

	switch m.currentView {
	case ViewFarm:
		return m.handleFarmKey(msg)
	case ViewTasks:
		return m.handleTasksKey(msg)
	case ViewShop:
		return m.handleShopKey(msg)
	case ViewActivity:
		return m.handleActivityKey(msg)
	}
	return m, nil
}

func (m Model) offsetView(delta int) View {
	n := len(viewOrder)
	return viewOrder[((int(m.currentView)+delta)%n+n)%n]
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if m.currentView == ViewFarm && v != ViewFarm {
		m.commitLayout()
	}
	m.currentView = v
	if v == ViewActivity {
		return m, m.refreshActivity()
	}
	return m, nil
}

// handleSignedOutKey drives the sign-in screen.
func (m Model) handleSignedOutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.SignIn):
		m.form = newForm(formSignIn)
		return m, m.form.focusCmd()
	case key.Matches(msg, m.keys.SignUp):
		m.form = newForm(formSignUp)
		return m, m.form.focusCmd()
	case key.Matches(msg, m.keys.Guest):
		return m, m.guestCmd()
	}
	return m, nil
}

// handleTick processes the refresh tick.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	m.now = t
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.currentView == ViewActivity && m.activity.follow {
		if cmd := m.refreshActivity(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) engine() *engine.Engine {
	if m.engines == nil {
		return nil
	}
	return m.engines.Engine()
}

// report turns an action outcome into a header notice.
func (m *Model) report(notice string, err error) {
	if m.store == nil {
		return
	}
	if err != nil {
		m.store.Notify(describeError(err))
		return
	}
	if notice != "" {
		m.store.Notify(notice)
	}
}

func (m *Model) setTheme(name string) {
	m.theme = ThemeFor(m.catalog, name)
	m.deviceTheme = name
	if m.prefs != nil {
		if err := m.prefs.SetTheme(name); err != nil {
			m.report("", err)
		}
	}
	if eng := m.engine(); eng != nil {
		if err := eng.SetTheme(name); err != nil {
			m.report("", err)
		}
	}
}

// describeError maps engine and session errors to a line for the header.
func describeError(err error) string {
	var cooldown *engine.CooldownError
	var invalid lifecycle.ValidationError
	switch {
	case errors.As(err, &cooldown):
		return capitalize(cooldown.Error()) + "."
	case errors.As(err, &invalid):
		return capitalize(invalid.Error()) + "."
	case errors.Is(err, lifecycle.ErrTaskActive):
		return "Finish or switch your active task first."
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return "That task can't do that right now."
	case errors.Is(err, engine.ErrNotLoaded):
		return "Still loading your homestead."
	case errors.Is(err, engine.ErrUsernameTaken), errors.Is(err, remote.ErrUsernameTaken):
		return "That username is taken."
	case errors.Is(err, profile.ErrInvalidUsername):
		return "Usernames are 3-20 characters of a-z, 0-9 or _."
	case errors.Is(err, engine.ErrInvalidTheme):
		return "Use a palette name or a color like #3b82f6."
	case errors.Is(err, remote.ErrEmailTaken):
		return "An account with that email already exists."
	case errors.Is(err, remote.ErrUnauthorized):
		return "Wrong email or password."
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to answer."
	default:
		return capitalize(err.Error())
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type storeChangedMsg state.Snapshot

type storeClosedMsg struct{}

type actionMsg struct {
	notice string
	err    error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForChangeCmd blocks until the store signals, then delivers the latest
// snapshot. The handler re-arms it.
func waitForChangeCmd(store *state.Store, changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return storeClosedMsg{}
		}
		return storeChangedMsg(store.Snapshot())
	}
}

func (m Model) signOutCmd() tea.Cmd {
	sessions := m.sessions
	if sessions == nil {
		return nil
	}
	return func() tea.Msg {
		sessions.SignOut()
		return actionMsg{notice: "Signed out."}
	}
}

func (m Model) guestCmd() tea.Cmd {
	sessions := m.sessions
	if sessions == nil {
		return nil
	}
	return func() tea.Msg {
		sessions.SignInAs("guest-" + uuid.NewString())
		return actionMsg{notice: "Playing offline as a guest."}
	}
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
