package main

import (
	"github.com/spf13/cobra"

	"github.com/deusflow/ytannounce/internal/config"
	"github.com/deusflow/ytannounce/internal/logger"
)

var debug bool

func newRootCmd() *cobra.Command {
	run := newRunCmd()
	rootCmd := &cobra.Command{
		Use:           "ytannounce",
		Short:         "Announce the current state of a YouTube channel",
		Long:          "ytannounce finds the live, upcoming or newest video of a channel and announces it once.",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Bare invocation performs one run.
		RunE: run.RunE,
	}

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "v", false, "enable debug logging (or DEBUG=true)")

	rootCmd.AddCommand(run)
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newModeCmd())
	rootCmd.AddCommand(newCheckEnvCmd())

	return rootCmd
}

// setup loads the configuration and initialises logging. validate selects
// the checks a command needs; nil skips them.
func setup(validate func(*config.Config) error) (*config.Config, error) {
	cfg, err := config.Parse()
	if cfg != nil {
		logger.Init(debug || cfg.Debug)
	}
	if err != nil {
		return nil, err
	}
	if validate != nil {
		if err := validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
