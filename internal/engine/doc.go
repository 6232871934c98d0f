// Package engine owns one user's game state for a session and keeps it in
// sync with the profile server.
//
// # Load
//
// Load looks in the write-ahead cache first. An entry there is a save that
// never reached the server, so it becomes the in-memory state and is replayed
// at once. Without one the profile is fetched: a missing profile starts a new
// farm with the catalog's seed tasks, and any other failure falls back to the
// same defaults with a notice. Either way the engine ends up loaded; mutators
// return ErrNotLoaded until then, so a half-finished load can never overwrite
// a real profile with empty defaults.
//
// # Save
//
// Every mutator changes memory under the engine lock and then calls save. save
// writes the complete profile to the cache synchronously and hands it to a
// goroutine for the remote upsert. Upserts run one at a time and carry a
// generation number: a generation older than the last confirmed one is
// dropped, and the cache entry is removed only when the newest generation is
// confirmed. A failed upsert leaves the entry for the next mutation or the
// next Load to retry.
//
// # Tasks
//
// The transitions themselves live in package lifecycle. The engine adds the
// coin side effects (reward on completion capped at profile.MaxCoins, penalty
// on expiry floored at zero) and the creation cooldown.
//
// # Shutdown
//
// Close stops publishing to the state store so a retired engine cannot leak
// into the next user's view; Wait blocks until dispatched saves are done.
package engine
