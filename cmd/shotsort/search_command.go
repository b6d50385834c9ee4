package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shotsort/internal/bridge"
	"shotsort/internal/logging"
	"shotsort/internal/store"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed text, translations, categories, and summaries",
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

			results, err := bridge.New(cfg, st, logging.NewNop()).Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches")
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				amount := ""
				if r.Amount != nil {
					amount = fmt.Sprintf("%.2f", *r.Amount)
				}
				snippet := strings.ReplaceAll(r.TextSnippet, "\n", " ")
				rows = append(rows, []string{r.Filename, r.Category, amount, snippet})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Filename", "Category", "Amount", "Text"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}
