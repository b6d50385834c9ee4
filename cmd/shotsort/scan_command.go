package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shotsort/internal/logging"
	"shotsort/internal/store"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run one discovery and indexing cycle, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			manager := buildManager(cfg, st, logger)
			result, err := manager.RunCycle(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Discovered %d, indexed %d, failed %d, backfilled %d in %s\n",
				result.Discovered, result.Indexed, result.Failed, result.Backfilled,
				result.Duration.Round(10*time.Millisecond))
			return nil
		},
	}
}
