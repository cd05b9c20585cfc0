package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/app"
	"github.com/five82/deckhand/internal/state"
)

func newNotificationsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif", "inbox"},
		Short:   "Read and manage notifications",
	}
	cmd.AddCommand(
		newNotificationsListCmd(opts),
		&cobra.Command{
			Use:   "count",
			Short: "Print the unread count",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					a.Notifications.FetchUnreadCount(ctx)
					count := a.Notifications.Snapshot().UnreadCount
					if opts.jsonOutput {
						return printJSON(cmd.OutOrStdout(), map[string]int{"count": count})
					}
					fmt.Fprintln(cmd.OutOrStdout(), count)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "read <id>",
			Short: "Mark a notification as read",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					if !a.Notifications.MarkAsRead(ctx, args[0]) {
						return fmt.Errorf("could not mark notification %s as read", args[0])
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Marked as read.")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "read-all",
			Short: "Mark every notification as read",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					n := a.Notifications.MarkAllAsRead(ctx)
					fmt.Fprintf(cmd.OutOrStdout(), "Marked %d as read.\n", n)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a notification",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					if !a.Notifications.Delete(ctx, args[0]) {
						return fmt.Errorf("could not delete notification %s", args[0])
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
					return nil
				})
			},
		},
		newNotificationPrefsCmd(opts),
	)
	return cmd
}

func newNotificationsListCmd(opts *rootOptions) *cobra.Command {
	var page, perPage int
	var unread bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := state.ListParams{Page: page, PerPage: perPage}
			if cmd.Flags().Changed("unread") {
				params.UnreadOnly = &unread
			}
			return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
				if params == (state.ListParams{}) {
					a.Notifications.Refresh(ctx)
				} else {
					a.Notifications.FetchPage(ctx, params)
					a.Notifications.FetchUnreadCount(ctx)
				}
				snap := a.Notifications.Snapshot()
				if err := storeError("fetch notifications", snap.Error); err != nil {
					return err
				}
				if opts.jsonOutput {
					return printJSON(cmd.OutOrStdout(), snap.Items)
				}
				rows := make([][]string, 0, len(snap.Items))
				for _, n := range snap.Items {
					rows = append(rows, []string{
						marker(!n.IsRead()),
						n.ID,
						n.Category,
						n.Title,
						n.ParsedCreatedAt().Local().Format("2006-01-02 15:04"),
					})
				}
				if err := printTable(cmd.OutOrStdout(), []string{"", "ID", "CATEGORY", "TITLE", "RECEIVED"}, rows); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d, %d total, %d unread\n",
					snap.Page, max(snap.Pages, 1), snap.Total, snap.UnreadCount)
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "notifications per page (default "+strconv.Itoa(state.DefaultPerPage)+")")
	cmd.Flags().BoolVarP(&unread, "unread", "u", false, "only unread notifications")
	return cmd
}

func newNotificationPrefsCmd(opts *rootOptions) *cobra.Command {
	var email, inApp bool
	var quietStart, quietEnd string
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or update notification preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var update api.NotificationPreferenceUpdate
			changed := false
			flags := cmd.Flags()
			if flags.Changed("email") {
				update.EmailEnabled, changed = &email, true
			}
			if flags.Changed("in-app") {
				update.InAppEnabled, changed = &inApp, true
			}
			if flags.Changed("quiet-start") {
				update.QuietHoursStart, changed = &quietStart, true
			}
			if flags.Changed("quiet-end") {
				update.QuietHoursEnd, changed = &quietEnd, true
			}
			return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
				if changed {
					if !a.Notifications.UpdatePreferences(ctx, update) {
						return storeError("update preferences", a.Notifications.Snapshot().Error)
					}
				} else {
					a.Notifications.FetchPreferences(ctx)
				}
				snap := a.Notifications.Snapshot()
				if snap.Preferences == nil {
					return storeError("fetch preferences", snap.Error)
				}
				return printPreferences(cmd, opts, *snap.Preferences)
			})
		},
	}
	cmd.Flags().BoolVar(&email, "email", true, "enable email delivery")
	cmd.Flags().BoolVar(&inApp, "in-app", true, "enable in-app delivery")
	cmd.Flags().StringVar(&quietStart, "quiet-start", "", "quiet hours start (HH:MM)")
	cmd.Flags().StringVar(&quietEnd, "quiet-end", "", "quiet hours end (HH:MM)")
	return cmd
}

func printPreferences(cmd *cobra.Command, opts *rootOptions, p api.NotificationPreference) error {
	if opts.jsonOutput {
		return printJSON(cmd.OutOrStdout(), p)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Email:       %t\n", p.EmailEnabled)
	fmt.Fprintf(w, "In-app:      %t\n", p.InAppEnabled)
	if p.QuietHoursStart != "" || p.QuietHoursEnd != "" {
		fmt.Fprintf(w, "Quiet hours: %s-%s\n", p.QuietHoursStart, p.QuietHoursEnd)
	}
	if len(p.CategorySettings) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(p.CategorySettings))
	for _, name := range []string{api.CategoryAccount, api.CategoryBilling, api.CategoryDocument, api.CategorySystem} {
		if s, ok := p.CategorySettings[name]; ok {
			rows = append(rows, []string{name, strconv.FormatBool(s.Email), strconv.FormatBool(s.InApp)})
		}
	}
	return printTable(w, []string{"CATEGORY", "EMAIL", "IN-APP"}, rows)
}
