package state

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/logging"
)

const (
	// DefaultPerPage is the page size used until a response says otherwise.
	DefaultPerPage = 20
	// DefaultPollInterval is how often the unread badge is refreshed.
	DefaultPollInterval = 60 * time.Second
)

// NotificationsSnapshot is a copy of the notification store's state.
type NotificationsSnapshot struct {
	Items              []api.Notification
	UnreadCount        int
	Loading            bool
	LoadingPreferences bool
	Preferences        *api.NotificationPreference
	Error              string

	Page       int
	Pages      int
	Total      int
	PerPage    int
	UnreadOnly bool

	Polling bool
}

// HasUnread reports whether the badge should show.
func (s NotificationsSnapshot) HasUnread() bool {
	return s.UnreadCount > 0
}

// HasNextPage reports whether LoadNextPage would fetch.
func (s NotificationsSnapshot) HasNextPage() bool {
	return s.Page < s.Pages
}

// HasPreviousPage reports whether LoadPreviousPage would fetch.
func (s NotificationsSnapshot) HasPreviousPage() bool {
	return s.Page > 1
}

// ListParams selects a notification page. Zero values keep the current page
// and page size; a nil UnreadOnly keeps the current filter.
type ListParams struct {
	Page       int
	PerPage    int
	UnreadOnly *bool
}

// NotificationsOptions configure a Notifications store.
type NotificationsOptions struct {
	Logger *logrus.Entry
	// NewTicker is the timer substrate for polling. Nil disables polling.
	NewTicker NewTickerFunc
	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration
	// Now stamps read timestamps applied locally; defaults to time.Now.
	Now func() time.Time
}

// Notifications mirrors one page of the user's notifications, the unread
// badge count and delivery preferences.
type Notifications struct {
	api    NotificationsAPI
	log    *logrus.Entry
	now    func() time.Time
	poller *Poller

	mu                 sync.RWMutex
	items              []api.Notification
	unread             int
	loading            bool
	loadingPreferences bool
	preferences        *api.NotificationPreference
	err                string
	page               int
	pages              int
	total              int
	perPage            int
	unreadOnly         bool

	lists  generation
	counts generation
	prefs  generation
	epoch  uint64
}

// NewNotifications builds a notification store.
func NewNotifications(client NotificationsAPI, opts NotificationsOptions) *Notifications {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Notifications{
		api:     client,
		log:     log,
		now:     now,
		poller:  NewPoller(opts.NewTicker, interval),
		page:    1,
		perPage: DefaultPerPage,
	}
}

// Snapshot returns a copy of the current state.
func (n *Notifications) Snapshot() NotificationsSnapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()

	snap := NotificationsSnapshot{
		Items:              slices.Clone(n.items),
		UnreadCount:        n.unread,
		Loading:            n.loading,
		LoadingPreferences: n.loadingPreferences,
		Error:              n.err,
		Page:               n.page,
		Pages:              n.pages,
		Total:              n.total,
		PerPage:            n.perPage,
		UnreadOnly:         n.unreadOnly,
		Polling:            n.poller.Active(),
	}
	if n.preferences != nil {
		prefs := *n.preferences
		snap.Preferences = &prefs
	}
	return snap
}

// FetchPage loads one page of notifications. On failure the previous page is
// kept and a message is recorded; nothing is returned.
func (n *Notifications) FetchPage(ctx context.Context, params ListParams) {
	n.mu.Lock()
	query := api.NotificationListParams{Page: n.page, PerPage: n.perPage, UnreadOnly: n.unreadOnly}
	if params.Page > 0 {
		query.Page = params.Page
	}
	if params.PerPage > 0 {
		query.PerPage = params.PerPage
	}
	if params.UnreadOnly != nil {
		query.UnreadOnly = *params.UnreadOnly
	}
	token := n.lists.next()
	n.loading = true
	n.err = ""
	n.mu.Unlock()

	list, err := n.api.ListNotifications(ctx, query)

	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.lists.current(token) {
		n.log.WithField("page", query.Page).Debug("discarding superseded notification page")
		return
	}
	n.loading = false
	if err != nil {
		n.err = errorMessage(err, "Failed to fetch notifications")
		n.log.WithError(err).Error("Failed to fetch notifications")
		return
	}
	n.items = list.Items
	n.page = query.Page
	if list.Page > 0 {
		n.page = list.Page
	}
	n.pages = list.Pages
	n.total = list.Total
	n.perPage = query.PerPage
	if list.PerPage > 0 {
		n.perPage = list.PerPage
	}
	n.unreadOnly = query.UnreadOnly
}

// FetchUnreadCount refreshes the badge count. It runs unattended, so failures
// are logged and otherwise ignored.
func (n *Notifications) FetchUnreadCount(ctx context.Context) {
	n.mu.Lock()
	token := n.counts.next()
	n.mu.Unlock()

	count, err := n.api.UnreadCount(ctx)
	if err != nil {
		n.log.WithError(err).Warn("Failed to fetch unread count")
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.counts.current(token) {
		return
	}
	n.unread = count
}

// MarkAsRead marks one notification as read remotely and then locally.
func (n *Notifications) MarkAsRead(ctx context.Context, id string) bool {
	epoch := n.currentEpoch()

	resp, err := n.api.MarkNotificationRead(ctx, id)
	if err != nil {
		n.log.WithError(err).WithField("id", id).Error("Failed to mark notification as read")
		return false
	}
	readAt := resp.ReadAt
	if readAt == "" {
		readAt = n.stamp()
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.epoch != epoch {
		return true
	}
	for i := range n.items {
		if n.items[i].ID != id {
			continue
		}
		if !n.items[i].IsRead() {
			n.items[i].ReadAt = readAt
			n.unread = max(0, n.unread-1)
		}
		break
	}
	return true
}

// MarkAllAsRead marks every notification as read and returns the number the
// server updated, or 0 on failure.
func (n *Notifications) MarkAllAsRead(ctx context.Context) int {
	epoch := n.currentEpoch()

	count, err := n.api.MarkAllNotificationsRead(ctx)
	if err != nil {
		n.log.WithError(err).Error("Failed to mark all notifications as read")
		return 0
	}
	now := n.stamp()

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.epoch != epoch {
		return count
	}
	items := slices.Clone(n.items)
	for i := range items {
		if !items[i].IsRead() {
			items[i].ReadAt = now
		}
	}
	n.items = items
	n.unread = 0
	return count
}

// Delete removes a notification remotely and then from the current page.
func (n *Notifications) Delete(ctx context.Context, id string) bool {
	epoch := n.currentEpoch()

	if err := n.api.DeleteNotification(ctx, id); err != nil {
		n.log.WithError(err).WithField("id", id).Error("Failed to delete notification")
		return false
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.epoch != epoch {
		return true
	}
	idx := slices.IndexFunc(n.items, func(item api.Notification) bool { return item.ID == id })
	if idx >= 0 && !n.items[idx].IsRead() {
		n.unread = max(0, n.unread-1)
	}
	n.items = slices.DeleteFunc(slices.Clone(n.items), func(item api.Notification) bool { return item.ID == id })
	n.total = max(0, n.total-1)
	return true
}

// FetchPreferences loads delivery preferences. Failures are logged.
func (n *Notifications) FetchPreferences(ctx context.Context) {
	n.mu.Lock()
	token := n.prefs.next()
	n.loadingPreferences = true
	n.mu.Unlock()

	prefs, err := n.api.NotificationPreferences(ctx)

	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.prefs.current(token) {
		return
	}
	n.loadingPreferences = false
	if err != nil {
		n.log.WithError(err).Error("Failed to fetch notification preferences")
		return
	}
	n.preferences = &prefs
}

// UpdatePreferences applies a partial preference update.
func (n *Notifications) UpdatePreferences(ctx context.Context, update api.NotificationPreferenceUpdate) bool {
	n.mu.Lock()
	token := n.prefs.next()
	n.loadingPreferences = true
	n.mu.Unlock()

	prefs, err := n.api.UpdateNotificationPreferences(ctx, update)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.prefs.current(token) {
		n.loadingPreferences = false
	}
	if err != nil {
		n.log.WithError(err).Error("Failed to update notification preferences")
		return false
	}
	if n.prefs.current(token) {
		n.preferences = &prefs
	}
	return true
}

// LoadNextPage fetches the following page; at the last page it returns
// without touching the network.
func (n *Notifications) LoadNextPage(ctx context.Context) {
	n.mu.RLock()
	page, pages := n.page, n.pages
	n.mu.RUnlock()

	if page >= pages {
		return
	}
	n.FetchPage(ctx, ListParams{Page: page + 1})
}

// LoadPreviousPage fetches the preceding page; at page 1 it returns without
// touching the network.
func (n *Notifications) LoadPreviousPage(ctx context.Context) {
	n.mu.RLock()
	page := n.page
	n.mu.RUnlock()

	if page <= 1 {
		return
	}
	n.FetchPage(ctx, ListParams{Page: page - 1})
}

// Refresh reloads the current page and the unread count concurrently and
// returns once both have settled.
func (n *Notifications) Refresh(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		n.FetchPage(ctx, ListParams{})
		return nil
	})
	g.Go(func() error {
		n.FetchUnreadCount(ctx)
		return nil
	})
	_ = g.Wait()
}

// StartPolling fetches the unread count now and then on every poll interval
// until StopPolling, Reset, or ctx ends. Starting twice, or without a timer
// substrate, is a no-op.
func (n *Notifications) StartPolling(ctx context.Context) {
	if n.poller.Start(ctx, n.FetchUnreadCount) {
		n.log.Debug("unread count polling started")
	}
}

// StopPolling cancels the poll loop. Stopping while idle is a no-op.
func (n *Notifications) StopPolling() {
	n.poller.Stop()
}

// Reset stops polling and restores construction-time defaults. Responses to
// requests issued before Reset are discarded.
func (n *Notifications) Reset() {
	n.poller.Stop()

	n.mu.Lock()
	defer n.mu.Unlock()
	n.lists.next()
	n.counts.next()
	n.prefs.next()
	n.epoch++

	n.items = nil
	n.unread = 0
	n.loading = false
	n.loadingPreferences = false
	n.preferences = nil
	n.err = ""
	n.page = 1
	n.pages = 0
	n.total = 0
	n.perPage = DefaultPerPage
	n.unreadOnly = false
}

func (n *Notifications) currentEpoch() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.epoch
}

func (n *Notifications) stamp() string {
	return n.now().UTC().Format(time.RFC3339Nano)
}
