// Package ui provides the deckhand terminal inbox.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program over the resource stores in package state.
// It never talks to the API directly: every key that changes data runs a
// store operation as a tea.Cmd, and the view re-reads store snapshots on a
// fixed tick. Background polling of the unread count belongs to the
// notification store, so the badge stays current even while the user is
// idle.
//
// # Package Structure
//
//   - app.go: Model, message types, key dispatch and the Run entry point
//   - inbox.go: notification table, header and status line rendering
//   - keys.go: key bindings consumed by bubbles/help
//   - help.go: full-screen help overlay
//   - theme.go: color themes and lipgloss styles
//   - layout.go: width thresholds and timing constants
//
// # Event Flow
//
//  1. Init fetches the first page and unread count and schedules a tick
//  2. Every tick reads Notifications, Session, Projects and Agents snapshots
//  3. Action keys run store operations; the result text lands in the status line
//  4. Context cancellation ends the program
//
// # Key Bindings
//
//   - j/k or arrows: move the cursor
//   - n/p or right/left: next or previous page
//   - r or enter: mark the selected notification read
//   - R: mark all notifications read
//   - d: delete the selected notification
//   - u: toggle the unread-only filter
//   - ctrl+r: refresh page and badge
//   - T: cycle theme (saved to prefs)
//   - h/?: help
//   - q or ctrl+c: quit
package ui
