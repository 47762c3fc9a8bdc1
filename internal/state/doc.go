// Package state provides thread-safe state containers shared between
// background work and the UI.
//
// # Overview
//
// Store[T] holds a single value that writers replace atomically and readers
// copy out with Snapshot. Readers that want to react to changes call
// Subscribe and re-read the snapshot whenever the channel fires. The auth
// controller publishes its session through a Store, and every screen
// controller publishes a View.
//
//	Producer (controller):         Consumer (UI):
//	┌──────────────────┐          ┌───────────────────┐
//	│ repository call  │          │ <-changes         │
//	│      ↓           │          │      ↓            │
//	│ store.Set(view)  │─────────→│ store.Snapshot()  │
//	└──────────────────┘ (mutex)  │      ↓            │
//	                              │  render           │
//	                              └───────────────────┘
//
// # View lifecycle
//
// View[T] is one of idle, loading, success(T), error(message) or empty. A
// view is always replaced as a whole; there are no partial updates.
//
//	idle ──load──> loading ──ok, data──> success
//	                  │ ──ok, nothing──> empty
//	                  └──failure─────> error
//
// # Concurrency Model
//
//   - Set and Update take the write lock; Snapshot takes the read lock
//   - Subscriber channels are buffered with capacity one and never block writers
//   - Stored values are not deep-copied; publishers treat them as immutable
package state
