package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shotsort/internal/bridge"
	"shotsort/internal/logging"
	"shotsort/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export <year-month>",
		Short: "Export one month of expenses to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			month := strings.TrimSpace(args[0])
			data, err := bridge.New(cfg, st, logging.NewNop()).ExportExpenses(cmd.Context(), month)
			if err != nil {
				return err
			}
			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = fmt.Sprintf("expenses-%s.xlsx", month)
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (defaults to expenses-<month>.xlsx)")
	return cmd
}
