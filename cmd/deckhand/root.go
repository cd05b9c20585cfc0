package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/deckhand/internal/app"
	"github.com/five82/deckhand/internal/config"
	"github.com/five82/deckhand/internal/prefs"
)

var errNotSignedIn = errors.New("not signed in; run `deckhand login` first")

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	prefsPath  string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "deckhand",
		Short:         "Terminal client for the workspace platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().StringVar(&opts.prefsPath, "prefs", "", "preferences file (default "+prefs.DefaultPath()+")")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	cmd.AddCommand(
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newProjectsCmd(opts),
		newAgentsCmd(opts),
		newNotificationsCmd(opts),
		newBillingCmd(opts),
		newTUICmd(opts),
	)
	return cmd
}

// openApp builds the application and restores the persisted session.
func (o *rootOptions) openApp(ctx context.Context) (*app.App, error) {
	a, err := app.New(app.Options{ConfigPath: o.configPath, PrefsPath: o.prefsPath})
	if err != nil {
		return nil, err
	}
	a.Restore(ctx)
	return a, nil
}

// withApp runs fn against a restored App and closes it afterwards.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, err := o.openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(ctx, a)
}

// withSession is withApp for commands that need a signed-in user.
func (o *rootOptions) withSession(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
		if !a.Session.Snapshot().IsAuthenticated() {
			return errNotSignedIn
		}
		return fn(ctx, a)
	})
}

// storeError surfaces the message a store recorded for a failed load.
func storeError(what, msg string) error {
	if msg == "" {
		return nil
	}
	return fmt.Errorf("%s: %s", what, msg)
}
