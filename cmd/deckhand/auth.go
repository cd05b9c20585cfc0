package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/app"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the issued tokens",
		Long: `Sign in with email and password.

The password is read from the terminal without echo, or from the first line
of stdin when stdin is not a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Session.Login(ctx, api.LoginRequest{Email: email, Password: password}); err != nil {
					return err
				}
				return printUser(cmd, opts, a)
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var in api.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			in.Password = password
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Session.Register(ctx, in); err != nil {
					return err
				}
				return printUser(cmd, opts, a)
			})
		},
	}
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "username")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget stored tokens and selections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Logout(ctx); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v (signed out locally)\n", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return nil
			})
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
				return printUser(cmd, opts, a)
			})
		},
	}
}

func printUser(cmd *cobra.Command, opts *rootOptions, a *app.App) error {
	user := a.Session.Snapshot().User
	if user == nil {
		return errNotSignedIn
	}
	expiry, hasExpiry := a.Session.AccessExpiry()

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		payload := struct {
			api.User
			AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
		}{User: *user}
		if hasExpiry {
			payload.AccessExpiresAt = &expiry
		}
		return printJSON(out, payload)
	}

	fmt.Fprintf(out, "%s <%s>\n", user.DisplayName(), user.Email)
	if user.Tier != "" {
		fmt.Fprintf(out, "tier:    %s\n", user.Tier)
	}
	if hasExpiry {
		fmt.Fprintf(out, "token:   expires %s (%s)\n", expiry.Local().Format(time.RFC1123), time.Until(expiry).Round(time.Minute))
	}
	return nil
}

// readPassword reads a password without echo from a terminal, or the first
// line of a piped stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}
