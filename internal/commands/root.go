// Package commands implements subsctl, a terminal client over the same
// storage and reminder engine the server uses.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"subs_dashboard/internal/app"
	"subs_dashboard/internal/config"
)

// NewRootCmd builds the command tree for cfg. Each call returns fresh flag state.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "subsctl",
		Short: "subsctl - manage subscriptions from the terminal",
		Long: `subsctl reads and edits the subscription list stored by the dashboard server.
It shows spending summaries and can run one reminder scan on demand.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	open := func(cmd *cobra.Command) (*app.App, error) {
		log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
		a, err := app.New(cmd.Context(), cfg, log)
		if err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
		a.Dashboard.Load(cmd.Context())
		return a, nil
	}

	rootCmd.AddCommand(newListCmd(open))
	rootCmd.AddCommand(newSummaryCmd(open))
	rootCmd.AddCommand(newRemindersCmd(open))
	rootCmd.AddCommand(newAddCmd(open))
	rootCmd.AddCommand(newDeleteCmd(open))
	return rootCmd
}

type opener func(cmd *cobra.Command) (*app.App, error)

// Execute runs the root command
func Execute(cfg *config.Config) error {
	return NewRootCmd(cfg).Execute()
}
