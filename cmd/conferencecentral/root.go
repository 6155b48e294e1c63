package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"conferencecentral/config"
)

// app carries what every subcommand needs once the root command has loaded the environment.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "conferencecentral",
		Short:         "Conference Central API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = config.NewLogger(cfg)
			slog.SetDefault(a.logger)
			return nil
		},
	}
	root.AddCommand(newServeCmd(a), newMigrateCmd(a), newTokenCmd(a))
	return root
}
