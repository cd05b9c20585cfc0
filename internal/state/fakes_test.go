package state

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/kv"
)

// fakeAPI implements every store dependency with overridable funcs and
// per-method call counters.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	listNotifications func(context.Context, api.NotificationListParams) (api.NotificationList, error)
	unreadCount       func(context.Context) (int, error)
	markRead          func(context.Context, string) (api.MarkReadResponse, error)
	markAllRead       func(context.Context) (int, error)
	deleteNotif       func(context.Context, string) error
	getPrefs          func(context.Context) (api.NotificationPreference, error)
	updatePrefs       func(context.Context, api.NotificationPreferenceUpdate) (api.NotificationPreference, error)

	listProjects  func(context.Context, int, int) (api.ProjectList, error)
	createProject func(context.Context, api.ProjectCreate) (api.Project, error)
	updateProject func(context.Context, string, api.ProjectUpdate) (api.Project, error)
	deleteProject func(context.Context, string) error

	listAgents  func(context.Context) (api.AgentList, error)
	createAgent func(context.Context, api.AgentCreate) (api.Agent, error)
	updateAgent func(context.Context, string, api.AgentUpdate) (api.Agent, error)
	deleteAgent func(context.Context, string) error
	agentTools  func(context.Context, string) ([]api.ToolInfo, error)

	login    func(context.Context, api.LoginRequest) (api.TokenResponse, error)
	register func(context.Context, api.RegisterRequest) (api.User, error)
	me       func(context.Context) (api.User, error)
	logout   func(context.Context) error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int)}
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) ListNotifications(ctx context.Context, p api.NotificationListParams) (api.NotificationList, error) {
	f.record("ListNotifications")
	return f.listNotifications(ctx, p)
}

func (f *fakeAPI) UnreadCount(ctx context.Context) (int, error) {
	f.record("UnreadCount")
	return f.unreadCount(ctx)
}

func (f *fakeAPI) MarkNotificationRead(ctx context.Context, id string) (api.MarkReadResponse, error) {
	f.record("MarkNotificationRead")
	return f.markRead(ctx, id)
}

func (f *fakeAPI) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	f.record("MarkAllNotificationsRead")
	return f.markAllRead(ctx)
}

func (f *fakeAPI) DeleteNotification(ctx context.Context, id string) error {
	f.record("DeleteNotification")
	return f.deleteNotif(ctx, id)
}

func (f *fakeAPI) NotificationPreferences(ctx context.Context) (api.NotificationPreference, error) {
	f.record("NotificationPreferences")
	return f.getPrefs(ctx)
}

func (f *fakeAPI) UpdateNotificationPreferences(ctx context.Context, in api.NotificationPreferenceUpdate) (api.NotificationPreference, error) {
	f.record("UpdateNotificationPreferences")
	return f.updatePrefs(ctx, in)
}

func (f *fakeAPI) ListProjects(ctx context.Context, page, perPage int) (api.ProjectList, error) {
	f.record("ListProjects")
	return f.listProjects(ctx, page, perPage)
}

func (f *fakeAPI) CreateProject(ctx context.Context, in api.ProjectCreate) (api.Project, error) {
	f.record("CreateProject")
	return f.createProject(ctx, in)
}

func (f *fakeAPI) UpdateProject(ctx context.Context, id string, in api.ProjectUpdate) (api.Project, error) {
	f.record("UpdateProject")
	return f.updateProject(ctx, id, in)
}

func (f *fakeAPI) DeleteProject(ctx context.Context, id string) error {
	f.record("DeleteProject")
	return f.deleteProject(ctx, id)
}

func (f *fakeAPI) ListAgents(ctx context.Context) (api.AgentList, error) {
	f.record("ListAgents")
	return f.listAgents(ctx)
}

func (f *fakeAPI) CreateAgent(ctx context.Context, in api.AgentCreate) (api.Agent, error) {
	f.record("CreateAgent")
	return f.createAgent(ctx, in)
}

func (f *fakeAPI) UpdateAgent(ctx context.Context, id string, in api.AgentUpdate) (api.Agent, error) {
	f.record("UpdateAgent")
	return f.updateAgent(ctx, id, in)
}

func (f *fakeAPI) DeleteAgent(ctx context.Context, id string) error {
	f.record("DeleteAgent")
	return f.deleteAgent(ctx, id)
}

func (f *fakeAPI) AgentTools(ctx context.Context, slug string) ([]api.ToolInfo, error) {
	f.record("AgentTools")
	return f.agentTools(ctx, slug)
}

func (f *fakeAPI) Login(ctx context.Context, in api.LoginRequest) (api.TokenResponse, error) {
	f.record("Login")
	return f.login(ctx, in)
}

func (f *fakeAPI) Register(ctx context.Context, in api.RegisterRequest) (api.User, error) {
	f.record("Register")
	return f.register(ctx, in)
}

func (f *fakeAPI) Me(ctx context.Context) (api.User, error) {
	f.record("Me")
	return f.me(ctx)
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.record("Logout")
	return f.logout(ctx)
}

// manualTicker fires only when the test sends on ch.
type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

// tickerFactory records every ticker it builds.
type tickerFactory struct {
	mu      sync.Mutex
	tickers []*manualTicker
	periods []time.Duration
}

func (f *tickerFactory) New(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	f.periods = append(f.periods, d)
	return t
}

func (f *tickerFactory) built() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *tickerFactory) last() *manualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

func mustGet(store kv.Store, key string) (string, bool) {
	v, err := store.Get(key)
	return v, err == nil
}
