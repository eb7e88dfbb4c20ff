// Package state records what the dashboard last learned about the daemon.
//
// # Overview
//
// Store holds the most recent pueue snapshot together with poll health: when
// the last poll finished, the last error, and how many polls in a row have
// failed. The status line reads it to decide between showing the task count,
// the last error, or an "offline" marker.
//
// # Update Semantics
//
//   - A successful update replaces the snapshot wholesale and clears the
//     error and failure counter.
//   - A failed update keeps the previous snapshot, records the error and
//     increments the failure counter.
//   - IsOffline reports true after two consecutive failures.
//
// # Concurrency Model
//
// Store is guarded by a sync.RWMutex and hands out copies, so readers never
// observe a half-written snapshot and never alias the stored task slice.
package state
