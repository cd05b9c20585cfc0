package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/deckhand/internal/app"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive inbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: opts.configPath,
				PrefsPath:  opts.prefsPath,
			})
		},
	}
}
