package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deusflow/ytannounce/internal/config"
)

func newCheckEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-env",
		Short: "Report which required variables are set, without printing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(nil)
			if err != nil {
				return err
			}
			return checkEnv(cmd.OutOrStdout(), cfg)
		},
	}
}

func checkEnv(w io.Writer, cfg *config.Config) error {
	vars := append([]config.CredentialVar{
		{Name: "YOUTUBE_CHANNEL_ID", Present: cfg.ChannelID != ""},
	}, cfg.CredentialVars()...)

	fmt.Fprintf(w, "Publish target: %s\n", cfg.PublishTarget)
	if cfg.APIKey != "" {
		fmt.Fprintln(w, "Content source: YouTube Data API")
	} else {
		fmt.Fprintln(w, "Content source: RSS feed")
	}
	for _, v := range vars {
		mark := "✗ missing"
		if v.Present {
			mark = "✓ set"
		}
		fmt.Fprintf(w, " %-24s %s\n", v.Name, mark)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.ValidatePublish()
}
