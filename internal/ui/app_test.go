package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/prefs"
	"github.com/five82/deckhand/internal/state"
)

// inboxAPI serves one fixed page and records mutations.
type inboxAPI struct {
	items    []api.Notification
	pages    int
	markedID string
	deleted  string
	lastPage int
}

func (f *inboxAPI) ListNotifications(_ context.Context, p api.NotificationListParams) (api.NotificationList, error) {
	f.lastPage = p.Page
	return api.NotificationList{Items: f.items, Page: p.Page, Pages: f.pages, Total: len(f.items), PerPage: p.PerPage}, nil
}

func (f *inboxAPI) UnreadCount(context.Context) (int, error) { return 2, nil }

func (f *inboxAPI) MarkNotificationRead(_ context.Context, id string) (api.MarkReadResponse, error) {
	f.markedID = id
	return api.MarkReadResponse{Success: true, ReadAt: "2026-10-18T10:00:00Z"}, nil
}

func (f *inboxAPI) MarkAllNotificationsRead(context.Context) (int, error) { return 2, nil }

func (f *inboxAPI) DeleteNotification(_ context.Context, id string) error {
	f.deleted = id
	return nil
}

func (f *inboxAPI) NotificationPreferences(context.Context) (api.NotificationPreference, error) {
	return api.NotificationPreference{}, nil
}

func (f *inboxAPI) UpdateNotificationPreferences(context.Context, api.NotificationPreferenceUpdate) (api.NotificationPreference, error) {
	return api.NotificationPreference{}, nil
}

func newTestModel(t *testing.T, fake *inboxAPI) (Model, *state.Notifications) {
	t.Helper()
	store := state.NewNotifications(fake, state.NotificationsOptions{})
	store.FetchPage(context.Background(), state.ListParams{Page: 1})
	store.FetchUnreadCount(context.Background())

	m := New(Options{
		Notifications: store,
		PrefsPath:     filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m = step(t, m, tea.WindowSizeMsg{Width: 130, Height: 30})
	m = step(t, m, m.snapshotCmd()())
	return m, store
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, r rune) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(Model), cmd
}

func twoUnread() *inboxAPI {
	return &inboxAPI{
		items: []api.Notification{
			{ID: "n1", Title: "Invoice ready", Category: api.CategoryBilling, Priority: "normal"},
			{ID: "n2", Title: "Document indexed", Category: api.CategoryDocument, Priority: "low"},
		},
		pages: 1,
	}
}

func TestModel_RendersInbox(t *testing.T) {
	m, _ := newTestModel(t, twoUnread())

	view := m.View()
	if !strings.Contains(view, "Invoice ready") {
		t.Fatalf("view missing notification title:\n%s", view)
	}
	if !strings.Contains(view, "2 unread") {
		t.Fatalf("view missing unread badge:\n%s", view)
	}
	if !strings.Contains(view, "page 1/1") {
		t.Fatalf("view missing page indicator:\n%s", view)
	}
}

func TestModel_MarkReadUsesCursor(t *testing.T) {
	fake := twoUnread()
	m, store := newTestModel(t, fake)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := press(t, m, 'r')
	if cmd == nil {
		t.Fatal("mark read returned no command")
	}
	if m.pending != 1 {
		t.Fatalf("pending = %d, want 1", m.pending)
	}

	msg := cmd()
	if fake.markedID != "n2" {
		t.Fatalf("marked %q, want n2", fake.markedID)
	}
	m = step(t, m, msg)
	if m.pending != 0 || m.status != "Marked as read" {
		t.Fatalf("pending=%d status=%q after action", m.pending, m.status)
	}
	if got := store.Snapshot().UnreadCount; got != 1 {
		t.Fatalf("UnreadCount = %d, want 1", got)
	}
}

func TestModel_DeleteSelected(t *testing.T) {
	fake := twoUnread()
	m, store := newTestModel(t, fake)

	_, cmd := press(t, m, 'd')
	if cmd == nil {
		t.Fatal("delete returned no command")
	}
	cmd()

	if fake.deleted != "n1" {
		t.Fatalf("deleted %q, want n1", fake.deleted)
	}
	if got := len(store.Snapshot().Items); got != 1 {
		t.Fatalf("items = %d, want 1", got)
	}
}

func TestModel_CursorLandsOnFirstRowAfterEmptyLayout(t *testing.T) {
	fake := twoUnread()
	store := state.NewNotifications(fake, state.NotificationsOptions{})
	m := New(Options{
		Notifications: store,
		PrefsPath:     filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m = step(t, m, tea.WindowSizeMsg{Width: 130, Height: 30})
	m = step(t, m, m.snapshotCmd()())

	store.FetchPage(context.Background(), state.ListParams{Page: 1})
	m = step(t, m, m.snapshotCmd()())

	if got := m.table.Cursor(); got != 0 {
		t.Fatalf("cursor = %d, want 0", got)
	}
	item, ok := m.selected()
	if !ok || item.ID != "n1" {
		t.Fatalf("selected = %q, %v; want n1", item.ID, ok)
	}
}

func TestModel_PageBoundaryStaysLocal(t *testing.T) {
	fake := twoUnread()
	m, _ := newTestModel(t, fake)

	m, cmd := press(t, m, 'n')
	if cmd != nil {
		t.Fatal("next page at last page should not issue a command")
	}
	if m.status != "Already on the last page" {
		t.Fatalf("status = %q", m.status)
	}

	_, cmd = press(t, m, 'p')
	if cmd != nil {
		t.Fatal("previous page at first page should not issue a command")
	}
}

func TestModel_NextPageFetches(t *testing.T) {
	fake := twoUnread()
	fake.pages = 3
	m, _ := newTestModel(t, fake)

	_, cmd := press(t, m, 'n')
	if cmd == nil {
		t.Fatal("next page returned no command")
	}
	cmd()
	if fake.lastPage != 2 {
		t.Fatalf("requested page %d, want 2", fake.lastPage)
	}
}

func TestModel_ToggleUnreadFilter(t *testing.T) {
	m, store := newTestModel(t, twoUnread())

	_, cmd := press(t, m, 'u')
	msg := cmd().(actionMsg)

	if msg.text != "Showing unread only" {
		t.Fatalf("status = %q", msg.text)
	}
	if !store.Snapshot().UnreadOnly {
		t.Fatal("store filter not applied")
	}
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	m, _ := newTestModel(t, twoUnread())
	start := m.theme.Name

	m, _ = press(t, m, 'T')

	if m.theme.Name != NextTheme(start) {
		t.Fatalf("theme = %q, want %q", m.theme.Name, NextTheme(start))
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("Load prefs: %v", err)
	}
	if saved.Theme != m.theme.Name {
		t.Fatalf("saved theme = %q, want %q", saved.Theme, m.theme.Name)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, twoUnread())

	m, _ = press(t, m, '?')
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	m, _ = press(t, m, 'x')
	if m.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestNotificationColumnsMatchRows(t *testing.T) {
	items := []api.Notification{{ID: "n1", Title: "t", CreatedAt: "2026-10-18T10:00:00Z"}}
	for _, width := range []int{60, 100, 140} {
		cols := notificationColumns(width)
		rows := notificationRows(items, width)
		if len(rows[0]) != len(cols) {
			t.Fatalf("width %d: %d cells for %d columns", width, len(rows[0]), len(cols))
		}
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown) = %q, want Nightfox", got)
	}
}
