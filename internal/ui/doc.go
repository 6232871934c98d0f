// Package ui provides the Bubble Tea terminal interface for homestead.
//
// # Architecture Overview
//
// Model is the single Bubble Tea model. It renders a state.Snapshot and calls
// engine mutators in response to keys. The engine never talks to the UI
// directly: every mutation publishes a new snapshot to the state store, and
// the model re-renders when the store signals a change (waitForChangeCmd).
//
// Engine mutators return immediately because remote saves run in the
// background, so most keys call the engine inline from Update. Actions that
// block on the network (sign-in, sign-up, username checks) run as tea.Cmds
// and report back with formResultMsg or actionMsg.
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View, messages and commands
//   - header.go: status bar, view tabs, footer, sign-in and loading screens
//   - farm.go: canvas layout, object selection and keyboard dragging
//   - tasks.go: task list and lifecycle actions
//   - shop.go, stats.go: store listing and the stats panel
//   - activity.go: tail of the client log in a viewport
//   - forms.go: text-input modals (username, new task, proof, account, color)
//   - keys.go, help.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: palettes and lipgloss styles
//
// # Views
//
//  1. Farm: purchased objects drawn at their saved positions
//  2. Tasks: open and completed tasks with deadlines
//  3. Shop: catalog items and prices
//  4. Stats: coins earned and spent, task and object counts
//  5. Activity: the client log, following new lines
//
// # Dragging
//
// Moving an object only changes the in-memory layout. The layout is saved
// when the player presses enter, selects another object, leaves the farm or
// quits, which mirrors saving at the end of a mouse drag.
//
// # Themes
//
// The palette follows the profile's theme: a catalog palette name or a
// custom hex color. Before a profile loads, the last theme stored in device
// prefs is used.
package ui
