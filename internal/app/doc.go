// Package app is usher's composition root.
//
// # Overview
//
// Build wires configuration, logging, the Overseerr client, the auth
// controller, repositories and view-state controllers. Run adds the
// background request refresher and hands everything to the TUI.
//
// # Startup Sequence
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()                 Read ~/.config/usher/config.toml
//	       ├─────> logging.Init()                JSON lines to <log_dir>/usher.log
//	       ├─────> prefs.EnsureClientIdentifier() Stable Plex client id
//	       ├─────> overseerr.NewClient()         HTTP client + cookie jar
//	       ├─────> auth.New() / CheckAuth()      Resume an existing session
//	       ├─────> StartRefresher()              Background request refresh
//	       └─────> ui.Run()                      Start TUI (blocks)
//
// # Refresh Behavior
//
// The refresher reloads the request list every refresh_interval while a
// user is signed in. The view keeps showing the previous result until the
// new one arrives. Consecutive failures double the wait, capped at five
// minutes; one success resets it.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file unreadable or invalid
//   - Log directory not writable
//   - Client identifier cannot be persisted
//
// Recoverable errors (logged):
//   - No existing session at startup (the login view is shown)
//   - Background refresh failures
//
// # Check Mode
//
// With Options.Check set, Run verifies the session with GET /auth/me,
// prints the signed-in user and returns without starting the UI. Any
// failure is returned so the command can exit non-zero.
package app
