package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shotsort/internal/bridge"
	"shotsort/internal/logging"
	"shotsort/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index totals and per-category counts",
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

			if asJSON {
				stats, err := bridge.New(cfg, st, logging.NewNop()).Stats(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd, stats)
			}

			summary, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Indexed: %d (%d videos)\n", summary.Total, summary.Videos)
			fmt.Fprintf(out, "With text: %d  With amount: %d\n", summary.WithText, summary.WithAmount)
			rows := make([][]string, 0, len(summary.Categories))
			for _, cc := range summary.Categories {
				rows = append(rows, []string{string(cc.Category), strconv.Itoa(cc.Count)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Category", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}
