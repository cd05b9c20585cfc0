package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/prefs"
	"github.com/five82/deckhand/internal/state"
)

// Options configures the UI.
type Options struct {
	Context       context.Context
	Session       *state.Session
	Notifications *state.Notifications
	Projects      *state.Projects
	Agents        *state.Agents
	RefreshEvery  time.Duration
	ThemeName     string
	PerPage       int
	PrefsPath     string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx           context.Context
	session       *state.Session
	notifications *state.Notifications
	projects      *state.Projects
	agents        *state.Agents
	prefsPath     string
	perPage       int
	refreshEvery  time.Duration

	keys    keyMap
	help    help.Model
	table   table.Model
	spinner spinner.Model
	theme   Theme

	width    int
	height   int
	ready    bool
	showHelp bool

	inbox       state.NotificationsSnapshot
	user        *api.User
	project     string
	agent       string
	status      string
	statusErr   bool
	pending     int
	lastUpdated time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refreshEvery := opts.RefreshEvery
	if refreshEvery <= 0 {
		refreshEvery = DefaultUIInterval
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = state.DefaultPerPage
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(opts.ThemeName)
	tbl := table.New(table.WithFocused(true))
	tbl.SetStyles(theme.TableStyles())

	return Model{
		ctx:           ctx,
		session:       opts.Session,
		notifications: opts.Notifications,
		projects:      opts.Projects,
		agents:        opts.Agents,
		prefsPath:     prefsPath,
		perPage:       perPage,
		refreshEvery:  refreshEvery,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		table:         tbl,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:         theme,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.refreshEvery),
		m.spinner.Tick,
		m.snapshotCmd(),
	}
	if m.notifications != nil {
		perPage := m.perPage
		cmds = append(cmds, m.run(func(ctx context.Context) (string, bool) {
			m.notifications.FetchPage(ctx, state.ListParams{Page: 1, PerPage: perPage})
			m.notifications.FetchUnreadCount(ctx)
			return "", true
		}))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.layoutTable()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.snapshotCmd(), tickCmd(m.refreshEvery))

	case snapshotMsg:
		m.applySnapshot(msg)
		return m, nil

	case actionMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.text != "" {
			m.status = msg.text
			m.statusErr = !msg.ok
		}
		return m, m.snapshotCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderInbox())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.table.SetStyles(m.theme.TableStyles())
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, PerPage: m.perPage})
		}
		return m, nil
	}

	if m.notifications == nil {
		return m, nil
	}
	store := m.notifications

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.start(func(ctx context.Context) (string, bool) {
			store.Refresh(ctx)
			return "Refreshed", true
		})

	case key.Matches(msg, m.keys.NextPage):
		if !m.inbox.HasNextPage() {
			m.status, m.statusErr = "Already on the last page", false
			return m, nil
		}
		return m.start(func(ctx context.Context) (string, bool) {
			store.LoadNextPage(ctx)
			return "", true
		})

	case key.Matches(msg, m.keys.PrevPage):
		if !m.inbox.HasPreviousPage() {
			m.status, m.statusErr = "Already on the first page", false
			return m, nil
		}
		return m.start(func(ctx context.Context) (string, bool) {
			store.LoadPreviousPage(ctx)
			return "", true
		})

	case key.Matches(msg, m.keys.ToggleUnread):
		only := !m.inbox.UnreadOnly
		return m.start(func(ctx context.Context) (string, bool) {
			store.FetchPage(ctx, state.ListParams{Page: 1, UnreadOnly: &only})
			if only {
				return "Showing unread only", true
			}
			return "Showing all notifications", true
		})

	case key.Matches(msg, m.keys.MarkAllRead):
		return m.start(func(ctx context.Context) (string, bool) {
			n := store.MarkAllAsRead(ctx)
			return fmt.Sprintf("Marked %d as read", n), true
		})

	case key.Matches(msg, m.keys.MarkRead):
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.start(func(ctx context.Context) (string, bool) {
			if store.MarkAsRead(ctx, item.ID) {
				return "Marked as read", true
			}
			return "Could not mark notification as read", false
		})

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.start(func(ctx context.Context) (string, bool) {
			if store.Delete(ctx, item.ID) {
				return "Deleted", true
			}
			return "Could not delete notification", false
		})
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// start runs fn as a background command and tracks it as pending.
func (m Model) start(fn func(ctx context.Context) (string, bool)) (tea.Model, tea.Cmd) {
	m.pending++
	return m, m.run(fn)
}

// run wraps a store operation as a command bounded by ActionTimeout.
func (m Model) run(fn func(ctx context.Context) (string, bool)) tea.Cmd {
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, ActionTimeout)
		defer cancel()
		text, ok := fn(ctx)
		return actionMsg{text: text, ok: ok}
	}
}

// selected returns the notification under the table cursor.
func (m Model) selected() (api.Notification, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.inbox.Items) {
		return api.Notification{}, false
	}
	return m.inbox.Items[idx], true
}

func (m *Model) applySnapshot(msg snapshotMsg) {
	m.inbox = msg.inbox
	m.user = msg.user
	m.project = msg.project
	m.agent = msg.agent
	m.lastUpdated = msg.at
	m.table.SetRows(notificationRows(m.inbox.Items, m.width))
	// An empty table leaves the cursor at -1.
	n := len(m.inbox.Items)
	switch {
	case n > 0 && m.table.Cursor() < 0:
		m.table.SetCursor(0)
	case m.table.Cursor() >= n:
		m.table.SetCursor(max(0, n-1))
	}
}

func (m *Model) layoutTable() {
	m.table.SetColumns(notificationColumns(m.width))
	m.table.SetRows(notificationRows(m.inbox.Items, m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(3, m.height-chromeHeight))
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	inbox   state.NotificationsSnapshot
	user    *api.User
	project string
	agent   string
	at      time.Time
}

type actionMsg struct {
	text string
	ok   bool
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) snapshotCmd() tea.Cmd {
	notifications, session, projects, agents := m.notifications, m.session, m.projects, m.agents
	return func() tea.Msg {
		msg := snapshotMsg{at: time.Now()}
		if notifications != nil {
			msg.inbox = notifications.Snapshot()
		}
		if session != nil {
			msg.user = session.Snapshot().User
		}
		if projects != nil {
			if p, ok := projects.Current(); ok {
				msg.project = p.Name
			}
		}
		if agents != nil {
			if a, ok := agents.Selected(); ok {
				msg.agent = a.Name
			}
		}
		return msg
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context ends.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	_, err := tea.NewProgram(m, programOpts...).Run()
	return err
}
