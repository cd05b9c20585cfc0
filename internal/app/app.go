package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/config"
	"github.com/five82/deckhand/internal/kv"
	"github.com/five82/deckhand/internal/logging"
	"github.com/five82/deckhand/internal/prefs"
	"github.com/five82/deckhand/internal/state"
	"github.com/five82/deckhand/internal/ui"
)

// Options configure the deckhand application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/deckhand/prefs.toml

	// HTTPClient overrides the API transport.
	HTTPClient *http.Client
	// NewTicker overrides the polling timer; nil uses state.SystemTicker.
	NewTicker state.NewTickerFunc
}

// App is the explicit context every view works against: one API client,
// one persistence backend and one instance of each store.
type App struct {
	Config        config.Config
	Client        *api.Client
	KV            kv.Store
	Session       *state.Session
	Notifications *state.Notifications
	Projects      *state.Projects
	Agents        *state.Agents

	log     *logrus.Entry
	closers []io.Closer
}

// New loads configuration, configures logging, opens the state backend and
// builds the stores.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &App{Config: cfg, log: logging.NewLogger("app")}
	if err := a.setupLogging(); err != nil {
		return nil, err
	}

	store, closer, err := kv.Open(cfg.StateBackend, cfg.StatePath)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open state: %w", err)
	}
	a.KV = store
	a.closers = append(a.closers, closer)

	clientOpts := []api.Option{api.WithTokenStore(store)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(opts.HTTPClient))
	}
	client, err := api.NewClient(cfg.APIURL, clientOpts...)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}
	a.Client = client

	newTicker := opts.NewTicker
	if newTicker == nil {
		newTicker = state.SystemTicker
	}
	a.Session = state.NewSession(client, store, logging.NewLogger("session"))
	a.Projects = state.NewProjects(client, store, logging.NewLogger("projects"))
	a.Agents = state.NewAgents(client, store, logging.NewLogger("agents"))
	a.Notifications = state.NewNotifications(client, state.NotificationsOptions{
		Logger:       logging.NewLogger("notifications"),
		NewTicker:    newTicker,
		PollInterval: cfg.PollInterval,
	})
	return a, nil
}

// Restore adopts the persisted selections and validates the stored access
// token. It does not load lists.
func (a *App) Restore(ctx context.Context) {
	a.Projects.InitFromStorage()
	a.Agents.InitFromStorage()
	a.Session.Initialize(ctx)
}

// Start restores the session and, when a user is signed in, hydrates the
// stores and starts unread polling.
func (a *App) Start(ctx context.Context) {
	a.Restore(ctx)
	if a.Session.Snapshot().IsAuthenticated() {
		a.hydrate(ctx)
	}
}

// Login signs in and hydrates the stores.
func (a *App) Login(ctx context.Context, in api.LoginRequest) error {
	if err := a.Session.Login(ctx, in); err != nil {
		return err
	}
	a.hydrate(ctx)
	return nil
}

// Register creates an account, signs in and hydrates the stores.
func (a *App) Register(ctx context.Context, in api.RegisterRequest) error {
	if err := a.Session.Register(ctx, in); err != nil {
		return err
	}
	a.hydrate(ctx)
	return nil
}

// Logout ends the session and resets every user-scoped store. Local state
// is cleared even when the remote call fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.Session.Logout(ctx)
	a.Reset()
	return err
}

// Reset returns every user-scoped store to its initial state.
func (a *App) Reset() {
	a.Notifications.Reset()
	a.Projects.Clear()
	a.Agents.Clear()
}

// Close stops polling and releases the state backend.
func (a *App) Close() error {
	if a.Notifications != nil {
		a.Notifications.StopPolling()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) setupLogging() error {
	logCfg := logging.Config{Level: a.Config.LogLevel, Format: a.Config.LogFormat}
	if path := a.Config.LogFile; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		logCfg.Output = f
	}
	if err := logging.Setup(logCfg); err != nil {
		_ = a.Close()
		return fmt.Errorf("setup logging: %w", err)
	}
	return nil
}

// Run boots the deckhand TUI until the context is cancelled or the user
// quits. A signed-out session is reported instead of opening an empty inbox.
func Run(ctx context.Context, opts Options) error {
	a, err := New(opts)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	a.Start(ctx)
	if !a.Session.Snapshot().IsAuthenticated() {
		return fmt.Errorf("not signed in; run `deckhand login` first")
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)
	return ui.Run(ui.Options{
		Context:       ctx,
		Session:       a.Session,
		Notifications: a.Notifications,
		Projects:      a.Projects,
		Agents:        a.Agents,
		ThemeName:     userPrefs.Theme,
		PerPage:       userPrefs.PerPage,
		PrefsPath:     opts.PrefsPath,
	})
}
