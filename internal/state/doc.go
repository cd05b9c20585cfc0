// Package state holds the resource stores that mirror server data for the
// CLI and the TUI.
//
// # Overview
//
// Each store keeps the last known server snapshot for one resource kind,
// calls the API to change it, and exposes derived read-only views:
//
//	Store           Snapshot                      Derived
//	─────────────   ───────────────────────────   ──────────────────────
//	Notifications   one page, badge count, prefs  HasUnread, HasNextPage
//	Projects        full list, current id         Current()
//	Agents          full list, selected slug      Selected()
//	Session         auth state, user              IsAuthenticated
//
// Every store is safe for concurrent use. Snapshot() takes a read lock and
// returns defensive copies, so callers can render without holding anything.
// Network calls happen outside the lock.
//
// # Update Semantics
//
// List loads replace the whole snapshot on success. On failure the previous
// items stay and a display-ready message is recorded in Error:
//
//	store.Load(ctx)      // ok   → Items = new, Error = "", Loading = false
//	store.Load(ctx)      // fail → Items = <unchanged>, Error = "…", Loading = false
//
// Notification mutations (mark read, mark all, delete) call the server first
// and patch the current page locally only on success. They return a bool or
// count and never an error; failures are logged.
//
// Project and agent mutations never patch locally. After a successful
// create, update or delete the store reloads the full list so server-side
// derived fields stay consistent. Their errors are recorded and returned.
//
// # Request Sequencing
//
// Two overlapping loads of the same store could otherwise resolve out of
// order. Each load takes a token from a per-store counter, and a response is
// applied only while its token is still the latest. Reset and Clear bump the
// counter, so a request issued before logout can never resurrect cleared
// data.
//
// # Selection
//
// Projects and agents carry a Selection persisted in a kv.Store under
// currentProjectId and selected_agent_slug. InitFromStorage adopts the
// persisted value without validation; the next successful load clears it
// (and removes the key) if the id is no longer present.
//
// # Polling
//
// Notifications.StartPolling fetches the unread count immediately and then
// every 60 seconds on the injected timer substrate. Starting twice is a
// no-op, as is starting with no NewTickerFunc configured. StopPolling and
// Reset cancel the loop and wait for it to exit.
//
// # Session
//
// The session moves uninitialized → loading → {authenticated, anonymous}.
// A stored token whose profile fetch fails is discarded. Logout always
// clears the local session, even when the server call fails.
package state
