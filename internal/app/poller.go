package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// hydrate loads the signed-in user's projects, agents and first notification
// page concurrently, then starts unread polling. Individual failures are
// recorded on the stores and never abort the others.
func (a *App) hydrate(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		a.Projects.Load(ctx)
		return nil
	})
	g.Go(func() error {
		a.Agents.Fetch(ctx)
		return nil
	})
	g.Go(func() error {
		a.Notifications.Refresh(ctx)
		return nil
	})
	_ = g.Wait()

	a.Notifications.StartPolling(context.WithoutCancel(ctx))
	a.log.WithField("poll_interval", a.Config.PollInterval).Debug("unread polling started")
}
