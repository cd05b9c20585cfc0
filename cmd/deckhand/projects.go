package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/app"
)

func newProjectsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List and manage projects",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List projects; the current project is marked with *",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					a.Projects.Load(ctx)
					return printProjects(cmd, opts, a)
				})
			},
		},
		&cobra.Command{
			Use:   "select <id>",
			Short: "Set the current project",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					a.Projects.Load(ctx)
					if err := storeError("load projects", a.Projects.Snapshot().Error); err != nil {
						return err
					}
					a.Projects.Select(args[0])
					project, ok := a.Projects.Current()
					if !ok {
						a.Projects.Select("")
						return fmt.Errorf("project %q not found", args[0])
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Current project: %s (%s)\n", project.Name, project.ID)
					return nil
				})
			},
		},
		newProjectCreateCmd(opts),
		newProjectUpdateCmd(opts),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a project",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					a.Projects.Load(ctx)
					if err := a.Projects.Delete(ctx, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

func newProjectCreateCmd(opts *rootOptions) *cobra.Command {
	var in api.ProjectCreate
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
				project, err := a.Projects.Create(ctx, in)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return printJSON(cmd.OutOrStdout(), project)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", project.Name, project.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "project name")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "project description")
	cmd.Flags().StringVar(&in.PrivacyLevel, "privacy", "", "privacy level: strict, moderate or off")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectUpdateCmd(opts *rootOptions) *cobra.Command {
	var name, description, privacy string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in api.ProjectUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = &name
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			if flags.Changed("privacy") {
				in.PrivacyLevel = &privacy
			}
			return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
				project, err := a.Projects.Update(ctx, args[0], in)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return printJSON(cmd.OutOrStdout(), project)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s (%s)\n", project.Name, project.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&privacy, "privacy", "", "new privacy level")
	return cmd
}

func printProjects(cmd *cobra.Command, opts *rootOptions, a *app.App) error {
	snap := a.Projects.Snapshot()
	if err := storeError("load projects", snap.Error); err != nil {
		return err
	}
	if opts.jsonOutput {
		return printJSON(cmd.OutOrStdout(), snap.Items)
	}
	rows := make([][]string, 0, len(snap.Items))
	for _, p := range snap.Items {
		rows = append(rows, []string{marker(p.ID == snap.Selected), p.ID, p.Name, p.PrivacyLevel, p.Description})
	}
	return printTable(cmd.OutOrStdout(), []string{"", "ID", "NAME", "PRIVACY", "DESCRIPTION"}, rows)
}
