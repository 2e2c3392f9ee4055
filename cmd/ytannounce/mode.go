package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deusflow/ytannounce/internal/config"
	"github.com/deusflow/ytannounce/internal/state"
)

func newModeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Show or change the persisted run mode",
		Long: "The run mode decides what the next pass does: normal publishes new events, " +
			"dryRun only logs the message, forceRepost publishes once even if already announced.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current run mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeFn, err := openState(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			m, err := st.RunMode(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "set <normal|dryRun|forceRepost>",
		Short:     "Persist a run mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(state.ModeNormal), string(state.ModeDryRun), string(state.ModeForceRepost)},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := state.ParseRunMode(args[0])
			if err != nil {
				return err
			}
			st, closeFn, err := openState(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := st.SetRunMode(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run mode set to %s\n", m)
			return nil
		},
	})
	return cmd
}

func openState(cmd *cobra.Command) (*state.State, func(), error) {
	cfg, err := setup((*config.Config).ValidateState)
	if err != nil {
		return nil, nil, err
	}
	kv, err := state.Open(cmd.Context(), cfg.State())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state: %w", err)
	}
	return state.New(kv), func() { _ = kv.Close() }, nil
}
