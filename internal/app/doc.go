// Package app provides the orchestration layer for deckhand.
//
// # Overview
//
// This package wires together configuration, logging, persistence, the API
// client and the resource stores into one App value. It is the composition
// root: nothing else in deckhand constructs stores, and both the CLI and the
// TUI receive them from here instead of reaching for package-level
// singletons.
//
// # Components
//
//   - app.go: Options, App construction, session lifecycle and the TUI Run entry point
//   - poller.go: post-sign-in hydration and the start of unread polling
//
// # Data Flow
//
//	┌──────────────┐
//	│   New()      │ Build everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config.toml + DECKHAND_* env
//	       ├─────> logging.Setup()      Level, format, optional log file
//	       ├─────> kv.Open()            file | sqlite | memory backend
//	       ├─────> api.NewClient()      Token store = kv backend
//	       └─────> state.New*()         Session, Projects, Agents, Notifications
//
//	Start(ctx):
//	┌─────────────────────────────────────────┐
//	│ Restore():                              │
//	│  ├─> Projects/Agents.InitFromStorage()  │
//	│  └─> Session.Initialize()               │
//	│ if authenticated: hydrate()             │
//	│  ├─> Projects.Load()      (concurrent)  │
//	│  ├─> Agents.Fetch()       (concurrent)  │
//	│  ├─> Notifications.Refresh()            │
//	│  └─> Notifications.StartPolling()       │
//	└─────────────────────────────────────────┘
//
// # Session Lifecycle
//
// The CLI calls Restore only: one-shot commands load what they print and
// never poll. The TUI calls Start.
//
// Login and Register hydrate the stores after the session becomes
// authenticated. Logout always clears the local session and then calls
// Reset, which stops polling, discards in-flight responses and clears the
// persisted project and agent selections. A failed remote logout is
// returned to the caller but never leaves a half signed-in state behind.
//
// # Polling
//
// Unread polling outlives the context passed to Start; it ends with Reset,
// Logout or Close. Tests replace the timer through Options.NewTicker.
//
// # Error Handling
//
// Fatal errors (returned from New or Run):
//   - Configuration file invalid
//   - Log file or state backend cannot be opened
//   - API base URL invalid
//   - No signed-in session when the TUI starts
//
// Recoverable errors are recorded on the stores and rendered by the views.
package app
