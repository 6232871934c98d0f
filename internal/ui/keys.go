package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	CustomHex  key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Username   key.Binding
	SignOut    key.Binding

	// View switching
	ViewFarm     key.Binding
	ViewTasks    key.Binding
	ViewShop     key.Binding
	ViewStats    key.Binding
	ViewActivity key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Farm
	NextObject  key.Binding
	PrevObject  key.Binding
	BigUp       key.Binding
	BigDown     key.Binding
	BigLeft     key.Binding
	BigRight    key.Binding
	Place       key.Binding
	RemoveObject key.Binding

	// Tasks
	Start      key.Binding
	Complete   key.Binding
	Reroll     key.Binding
	NewTask    key.Binding
	ArchiveAll key.Binding

	// Shop
	Buy key.Binding

	// Activity
	ToggleFollow key.Binding

	// Signed-out screen
	SignIn key.Binding
	SignUp key.Binding
	Guest  key.Binding

	// Forms
	Confirm   key.Binding
	NextField key.Binding
	PrevField key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		CustomHex: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Custom theme color"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / back"),
		),
		Username: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "Change username"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "Sign out"),
		),

		ViewFarm: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Farm"),
		),
		ViewTasks: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Tasks"),
		),
		ViewShop: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Shop"),
		),
		ViewStats: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Stats"),
		),
		ViewActivity: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Activity"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Move right"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		NextObject: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next object"),
		),
		PrevObject: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous object"),
		),
		BigUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "Move up (far)"),
		),
		BigDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "Move down (far)"),
		),
		BigLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "Move left (far)"),
		),
		BigRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "Move right (far)"),
		),
		Place: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Place object"),
		),
		RemoveObject: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "Remove object"),
		),

		Start: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s/enter", "Start / switch task"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Complete task"),
		),
		Reroll: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reroll task"),
		),
		NewTask: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New task"),
		),
		ArchiveAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Archive all open tasks"),
		),

		Buy: key.NewBinding(
			key.WithKeys("b", "enter"),
			key.WithHelp("b/enter", "Buy item"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),

		SignIn: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Sign in"),
		),
		SignUp: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Sign up"),
		),
		Guest: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Play offline"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one group per column.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewFarm, k.ViewTasks, k.ViewShop, k.ViewStats, k.ViewActivity},
		{k.NextObject, k.PrevObject, k.Left, k.Right, k.Place, k.RemoveObject},
		{k.Start, k.Complete, k.Reroll, k.NewTask, k.ArchiveAll},
		{k.Buy, k.ToggleFollow},
		{k.CycleTheme, k.CustomHex, k.Username, k.SignOut, k.Help, k.Quit},
	}
}
