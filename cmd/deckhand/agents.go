package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/app"
)

func newAgentsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent"},
		Short:   "List and manage agents",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List agents; the selected agent is marked with *",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					a.Agents.Fetch(ctx)
					snap := a.Agents.Snapshot()
					if err := storeError("fetch agents", snap.Error); err != nil {
						return err
					}
					if opts.jsonOutput {
						return printJSON(cmd.OutOrStdout(), snap.Items)
					}
					rows := make([][]string, 0, len(snap.Items))
					for _, agent := range snap.Items {
						rows = append(rows, []string{marker(agent.Slug == snap.Selected), agent.Slug, agent.Name, agent.Source, agent.ID, agent.Description})
					}
					return printTable(cmd.OutOrStdout(), []string{"", "SLUG", "NAME", "SOURCE", "ID", "DESCRIPTION"}, rows)
				})
			},
		},
		&cobra.Command{
			Use:   "select <slug>",
			Short: "Select the agent to chat with",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					a.Agents.Fetch(ctx)
					if err := storeError("fetch agents", a.Agents.Snapshot().Error); err != nil {
						return err
					}
					a.Agents.Select(args[0])
					agent, ok := a.Agents.Selected()
					if !ok {
						a.Agents.Select("")
						return fmt.Errorf("agent %q not found", args[0])
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Selected agent: %s (%s)\n", agent.Name, agent.Slug)
					return nil
				})
			},
		},
		newAgentCreateCmd(opts),
		newAgentUpdateCmd(opts),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a user agent",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					a.Agents.Fetch(ctx)
					if err := a.Agents.Delete(ctx, args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted agent %s\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "tools <slug>",
			Short: "List the tools an agent can call",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
					tools, err := a.Agents.Tools(ctx, args[0])
					if err != nil {
						return err
					}
					if opts.jsonOutput {
						return printJSON(cmd.OutOrStdout(), tools)
					}
					rows := make([][]string, 0, len(tools))
					for _, tool := range tools {
						rows = append(rows, []string{tool.Name, tool.Description})
					}
					return printTable(cmd.OutOrStdout(), []string{"TOOL", "DESCRIPTION"}, rows)
				})
			},
		},
	)
	return cmd
}

func newAgentCreateCmd(opts *rootOptions) *cobra.Command {
	var in api.AgentCreate
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
				if in.ProjectID == "" {
					in.ProjectID = a.Projects.CurrentID()
				}
				agent, err := a.Agents.Create(ctx, in)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return printJSON(cmd.OutOrStdout(), agent)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created agent %s (%s)\n", agent.Name, agent.Slug)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "agent name")
	cmd.Flags().StringVarP(&in.Slug, "slug", "s", "", "agent slug")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "description")
	cmd.Flags().StringVar(&in.SystemPrompt, "prompt", "", "system prompt")
	cmd.Flags().StringVar(&in.Icon, "icon", "", "icon name")
	cmd.Flags().StringSliceVar(&in.Tools, "tools", nil, "comma-separated tool names")
	cmd.Flags().StringVar(&in.ProjectID, "project", "", "project id (default: current project)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("slug")
	return cmd
}

func newAgentUpdateCmd(opts *rootOptions) *cobra.Command {
	var name, description, prompt string
	var tools []string
	var active bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in api.AgentUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = &name
			}
			if flags.Changed("description") {
				in.Description = &description
			}
			if flags.Changed("prompt") {
				in.SystemPrompt = &prompt
			}
			if flags.Changed("tools") {
				in.Tools = tools
			}
			if flags.Changed("active") {
				in.IsActive = &active
			}
			return opts.withSession(cmd, func(ctx context.Context, a *app.App) error {
				agent, err := a.Agents.Update(ctx, args[0], in)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return printJSON(cmd.OutOrStdout(), agent)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated agent %s (%s) tools: %s\n", agent.Name, agent.Slug, strings.Join(agent.Tools, ", "))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&prompt, "prompt", "", "new system prompt")
	cmd.Flags().StringSliceVar(&tools, "tools", nil, "replacement tool list")
	cmd.Flags().BoolVar(&active, "active", true, "whether the agent is active")
	return cmd
}
