// Package profile defines the durable per-user record of a homestead player.
//
// # Overview
//
// A Profile is the unit of persistence: the engine holds one in memory, the
// write-ahead cache holds an unconfirmed copy, and the remote store owns the
// durable row. Every copy uses the JSON shape defined here, so the same struct
// crosses the wire, lands in the cache file and is decoded by the server.
//
// # Core Types
//
//   - Profile: coins, decorative objects, tasks, username, theme
//   - Task: a to-do item with three independent flags (completed, inProgress, archived)
//   - DecorativeObject: a purchased item placed on the canvas at a percentage position
//   - Fields: a partial update where nil members mean "unchanged"
//   - Stats: the dashboard summary derived from a profile
//
// # Soft Deletion
//
// Tasks are never physically removed. Archival hides a task from the active
// list but keeps it for Summarize, which is why every "active list" read site
// filters on Archived instead of deleting.
//
// # Copying
//
// Clone returns a deep copy. Callers that hand a profile to another goroutine
// (the save dispatcher, the state store) must clone first.
package profile
