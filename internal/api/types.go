package api

import (
	"encoding/json"
	"strings"
	"time"
)

// Plan tiers reported on users and billing plans.
const (
	TierFree       = "free"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// Billing intervals accepted by the checkout endpoint.
const (
	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// TokenResponse carries the access/refresh pair issued on login.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// User mirrors the profile payload from /api/auth/me.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	Tier        string `json:"tier"`
}

// DisplayName returns the user's full name when known, otherwise the username.
func (u User) DisplayName() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return u.Username
	}
}

// Project describes a workspace project.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	PrivacyLevel string `json:"privacy_level"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (p Project) ParsedUpdatedAt() time.Time {
	return parseTime(p.UpdatedAt)
}

// ProjectCreate is the body of POST /api/projects.
type ProjectCreate struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	PrivacyLevel string `json:"privacy_level,omitempty"`
}

// ProjectUpdate is the body of PUT /api/projects/{id}. Nil fields are left unchanged.
type ProjectUpdate struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	PrivacyLevel *string `json:"privacy_level,omitempty"`
}

// ProjectList mirrors the paginated project list envelope.
type ProjectList struct {
	Items   []Project `json:"items"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	Pages   int       `json:"pages"`
}

// Agent sources.
const (
	AgentSourceSystem = "system"
	AgentSourceUser   = "user"
)

// Agent describes a system or user-defined agent.
type Agent struct {
	ID           string         `json:"id,omitempty"`
	UserID       string         `json:"user_id,omitempty"`
	ProjectID    string         `json:"project_id,omitempty"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Icon         string         `json:"icon,omitempty"`
	Description  string         `json:"description,omitempty"`
	SystemPrompt string         `json:"system_prompt,omitempty"`
	Tools        []string       `json:"tools"`
	Config       map[string]any `json:"config,omitempty"`
	IsActive     bool           `json:"is_active"`
	Source       string         `json:"source"`
	DocumentIDs  []string       `json:"document_ids,omitempty"`
}

// Editable reports whether the agent belongs to the user rather than the system.
func (a Agent) Editable() bool {
	return a.Source == AgentSourceUser && a.ID != ""
}

// AgentCreate is the body of POST /api/agents.
type AgentCreate struct {
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Icon         string         `json:"icon,omitempty"`
	Description  string         `json:"description,omitempty"`
	SystemPrompt string         `json:"system_prompt,omitempty"`
	Tools        []string       `json:"tools,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
	ProjectID    string         `json:"project_id,omitempty"`
	DocumentIDs  []string       `json:"document_ids,omitempty"`
}

// AgentUpdate is the body of PUT /api/agents/{id}. Nil fields are left unchanged.
type AgentUpdate struct {
	Name         *string        `json:"name,omitempty"`
	Icon         *string        `json:"icon,omitempty"`
	Description  *string        `json:"description,omitempty"`
	SystemPrompt *string        `json:"system_prompt,omitempty"`
	Tools        []string       `json:"tools,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
	IsActive     *bool          `json:"is_active,omitempty"`
	DocumentIDs  []string       `json:"document_ids,omitempty"`
}

// AgentList mirrors GET /api/agents.
type AgentList struct {
	Agents []Agent `json:"agents"`
	Total  int     `json:"total"`
}

// ToolInfo describes a tool an agent may call.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AgentTools mirrors GET /api/agents/{slug}/tools.
type AgentTools struct {
	AgentSlug string     `json:"agent_slug"`
	Tools     []ToolInfo `json:"tools"`
}

// Notification categories.
const (
	CategoryBilling  = "billing"
	CategoryDocument = "document"
	CategorySystem   = "system"
	CategoryAccount  = "account"
)

// Notification is a single in-app notification.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Type      string         `json:"type"`
	Category  string         `json:"category"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Priority  string         `json:"priority"`
	ReadAt    string         `json:"read_at"`
	ActionURL string         `json:"action_url"`
	ExtraData map[string]any `json:"extra_data"`
	ExpiresAt string         `json:"expires_at"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// IsRead reports whether the notification carries a read timestamp.
func (n Notification) IsRead() bool {
	return strings.TrimSpace(n.ReadAt) != ""
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (n Notification) ParsedCreatedAt() time.Time {
	return parseTime(n.CreatedAt)
}

// NotificationListParams configures GET /api/notifications.
type NotificationListParams struct {
	Page       int
	PerPage    int
	UnreadOnly bool
}

// NotificationList mirrors the paginated notification envelope.
type NotificationList struct {
	Items   []Notification `json:"items"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Pages   int            `json:"pages"`
}

// UnreadCount mirrors GET /api/notifications/unread-count.
type UnreadCount struct {
	Count int `json:"count"`
}

// MarkReadResponse mirrors POST /api/notifications/{id}/read.
type MarkReadResponse struct {
	Success bool   `json:"success"`
	ReadAt  string `json:"read_at"`
}

// MarkAllReadResponse mirrors POST /api/notifications/read-all.
type MarkAllReadResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// CategorySetting toggles delivery channels for one notification category.
type CategorySetting struct {
	Email bool `json:"email"`
	InApp bool `json:"in_app"`
}

// NotificationPreference holds the user's delivery preferences.
type NotificationPreference struct {
	ID               string                     `json:"id"`
	UserID           string                     `json:"user_id"`
	EmailEnabled     bool                       `json:"email_enabled"`
	InAppEnabled     bool                       `json:"in_app_enabled"`
	CategorySettings map[string]CategorySetting `json:"category_settings"`
	QuietHoursStart  string                     `json:"quiet_hours_start"`
	QuietHoursEnd    string                     `json:"quiet_hours_end"`
	CreatedAt        string                     `json:"created_at"`
	UpdatedAt        string                     `json:"updated_at"`
}

// NotificationPreferenceUpdate is a partial preference update. Nil fields are left unchanged.
type NotificationPreferenceUpdate struct {
	EmailEnabled     *bool                      `json:"email_enabled,omitempty"`
	InAppEnabled     *bool                      `json:"in_app_enabled,omitempty"`
	CategorySettings map[string]CategorySetting `json:"category_settings,omitempty"`
	QuietHoursStart  *string                    `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd    *string                    `json:"quiet_hours_end,omitempty"`
}

// BillingPlan describes a subscription plan and its limits.
type BillingPlan struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	DisplayName       string         `json:"display_name"`
	Description       string         `json:"description"`
	PlanType          string         `json:"plan_type"`
	PriceMonthly      float64        `json:"price_monthly"`
	PriceYearly       *float64       `json:"price_yearly"`
	Currency          string         `json:"currency"`
	TokensPerMonth    int64          `json:"tokens_per_month"`
	RequestsPerMinute int            `json:"requests_per_minute"`
	RequestsPerDay    int            `json:"requests_per_day"`
	MaxDocuments      int            `json:"max_documents"`
	MaxProjects       int            `json:"max_projects"`
	MaxAgents         int            `json:"max_agents"`
	AllowedModels     []string       `json:"allowed_models"`
	Features          map[string]any `json:"features"`
}

// CheckoutRequest is the body of POST /api/billing/checkout.
type CheckoutRequest struct {
	PlanID          string `json:"plan_id"`
	BillingInterval string `json:"billing_interval"`
	SuccessURL      string `json:"success_url,omitempty"`
	CancelURL       string `json:"cancel_url,omitempty"`
}

// CheckoutResponse carries the hosted checkout session.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PortalResponse carries the hosted customer portal URL.
type PortalResponse struct {
	URL string `json:"url"`
}

// envelope is the {trace_id, data} wrapper most endpoints respond with.
type envelope struct {
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

// errorBody covers both the platform's {error, detail} shape and bare {detail}.
type errorBody struct {
	TraceID string          `json:"trace_id"`
	Error   string          `json:"error"`
	Detail  json.RawMessage `json:"detail"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
