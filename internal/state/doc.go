// Package state holds the observable engine snapshot shared with the UI.
//
// # Overview
//
// The engine is the only writer. After every mutation, load step or save
// completion it calls Store.Update with a closure that edits the snapshot in
// place. The UI reads copies through Store.Snapshot and learns about changes
// through Store.Subscribe, so neither side depends on the other's goroutine.
//
//	Engine:                          UI:
//	┌────────────────────┐          ┌────────────────────┐
//	│ mutate profile     │          │ <-ch               │
//	│ store.Update(fn)   │─────────→│ store.Snapshot()   │
//	│ dispatch save      │ (mutex)  │ render             │
//	└────────────────────┘          └────────────────────┘
//
// # Snapshot
//
// Besides the profile it carries the flags the UI needs: DataLoaded (render a
// loading screen until true), NeedsUsername (show the username prompt),
// IsSaving and SaveFailed (the save indicator) and a transient Notice with the
// time it was raised.
//
// # Subscriptions
//
// Subscribe channels have a buffer of one and sends never block, so a slow
// reader sees a single pending signal rather than a backlog. Readers always
// fetch a fresh Snapshot after a signal.
//
// # Session transitions
//
// Reset replaces the snapshot wholesale. The app calls it before a new engine
// starts loading, so one user's data never shows in another user's session.
package state
