package state

import (
	"context"

	"github.com/five82/deckhand/internal/api"
)

// NotificationsAPI is the slice of the platform API the notification store calls.
type NotificationsAPI interface {
	ListNotifications(ctx context.Context, params api.NotificationListParams) (api.NotificationList, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) (api.MarkReadResponse, error)
	MarkAllNotificationsRead(ctx context.Context) (int, error)
	DeleteNotification(ctx context.Context, id string) error
	NotificationPreferences(ctx context.Context) (api.NotificationPreference, error)
	UpdateNotificationPreferences(ctx context.Context, in api.NotificationPreferenceUpdate) (api.NotificationPreference, error)
}

// ProjectsAPI is the slice of the platform API the project store calls.
type ProjectsAPI interface {
	ListProjects(ctx context.Context, page, perPage int) (api.ProjectList, error)
	CreateProject(ctx context.Context, in api.ProjectCreate) (api.Project, error)
	UpdateProject(ctx context.Context, id string, in api.ProjectUpdate) (api.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// AgentsAPI is the slice of the platform API the agent store calls.
type AgentsAPI interface {
	ListAgents(ctx context.Context) (api.AgentList, error)
	CreateAgent(ctx context.Context, in api.AgentCreate) (api.Agent, error)
	UpdateAgent(ctx context.Context, id string, in api.AgentUpdate) (api.Agent, error)
	DeleteAgent(ctx context.Context, id string) error
	AgentTools(ctx context.Context, slug string) ([]api.ToolInfo, error)
}

// AuthAPI is the slice of the platform API the session calls. Login is
// expected to persist the issued tokens itself.
type AuthAPI interface {
	Login(ctx context.Context, in api.LoginRequest) (api.TokenResponse, error)
	Register(ctx context.Context, in api.RegisterRequest) (api.User, error)
	Me(ctx context.Context) (api.User, error)
	Logout(ctx context.Context) error
}

// Ensure *api.Client satisfies every store dependency at compile time.
var (
	_ NotificationsAPI = (*api.Client)(nil)
	_ ProjectsAPI      = (*api.Client)(nil)
	_ AgentsAPI        = (*api.Client)(nil)
	_ AuthAPI          = (*api.Client)(nil)
)
