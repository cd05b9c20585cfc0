package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListNotifications fetches one page of notifications.
func (c *Client) ListNotifications(ctx context.Context, params NotificationListParams) (NotificationList, error) {
	values := url.Values{}
	if params.Page > 0 {
		values.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.UnreadOnly {
		values.Set("unread_only", "true")
	}
	rel := &url.URL{Path: "/api/notifications", RawQuery: values.Encode()}
	var out NotificationList
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &out); err != nil {
		return NotificationList{}, err
	}
	return out, nil
}

// UnreadCount fetches the badge count independently of any list page.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out UnreadCount
	if err := c.do(ctx, http.MethodGet, "/api/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) (MarkReadResponse, error) {
	if id == "" {
		return MarkReadResponse{}, fmt.Errorf("notification id required")
	}
	var out MarkReadResponse
	if err := c.do(ctx, http.MethodPost, "/api/notifications/"+escape(id)+"/read", nil, &out); err != nil {
		return MarkReadResponse{}, err
	}
	return out, nil
}

// MarkAllNotificationsRead marks every notification as read and returns the
// number of rows affected.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	var out MarkAllReadResponse
	if err := c.do(ctx, http.MethodPost, "/api/notifications/read-all", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// DeleteNotification removes one notification.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("notification id required")
	}
	return c.do(ctx, http.MethodDelete, "/api/notifications/"+escape(id), nil, nil)
}

// NotificationPreferences fetches delivery preferences.
func (c *Client) NotificationPreferences(ctx context.Context) (NotificationPreference, error) {
	var out NotificationPreference
	if err := c.do(ctx, http.MethodGet, "/api/notifications/preferences", nil, &out); err != nil {
		return NotificationPreference{}, err
	}
	return out, nil
}

// UpdateNotificationPreferences applies a partial preference update.
func (c *Client) UpdateNotificationPreferences(ctx context.Context, in NotificationPreferenceUpdate) (NotificationPreference, error) {
	var out NotificationPreference
	if err := c.do(ctx, http.MethodPut, "/api/notifications/preferences", in, &out); err != nil {
		return NotificationPreference{}, err
	}
	return out, nil
}
