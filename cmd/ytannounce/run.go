package main

import (
	"github.com/spf13/cobra"

	"github.com/deusflow/ytannounce/internal/app"
	"github.com/deusflow/ytannounce/internal/config"
	"github.com/deusflow/ytannounce/internal/logger"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one announcement pass",
		Long: "Run one announcement pass and exit. The exit code is 1 only when a publish " +
			"failed or a successful publish could not be recorded.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup((*config.Config).Validate)
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.RunOnce(cmd.Context())
			logger.Log.Info().
				Str("status", string(res.Status)).
				Str("mode", string(res.Mode)).
				Msg("run complete")
			return err
		},
	}
}
