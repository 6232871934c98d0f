// Package app is the composition root of the homestead client.
//
// # Startup
//
// Run wires everything in this order:
//
//  1. config.Load reads ~/.config/homestead/config.toml (defaults if absent)
//  2. the slog logger opens the log file; the TUI owns the terminal
//  3. catalog.Load picks the embedded catalog or the configured override
//  4. remote.NewClient, wal.Open and prefs.Open build the collaborators
//  5. session.NewManager restores the persisted sign-in
//  6. the Watcher subscribes to session transitions and starts the first engine
//  7. ui.Run blocks until the user quits or the context is cancelled
//
// # Session transitions
//
//	session.Manager ──Switch(userID)──> Watcher
//	                                      ├─ cancel ctx   (stops expiry ticker)
//	                                      ├─ engine.Close (stop publishing)
//	                                      ├─ engine.Wait  (drain saves)
//	                                      ├─ store.Reset(userID)
//	                                      └─ engine.New + Load + StartExpiry
//
// The store is reset before any new load starts, so the UI never shows one
// user's farm while another is signed in.
//
// # Expiry
//
// StartExpiry calls ExpireOverdue once immediately and then on every tick of
// the configured interval (default one second) until the engine's context is
// cancelled. The engine reads its current task list on each call.
//
// # Errors
//
// Configuration, log file, catalog and cache directory problems are fatal and
// returned from Run. Network failures never are: the engine falls back to its
// write-ahead cache or defaults and surfaces a notice.
package app
