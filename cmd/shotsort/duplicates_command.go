package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shotsort/internal/bridge"
	"shotsort/internal/logging"
	"shotsort/internal/store"
)

func newDuplicatesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "List groups of visually near-identical screenshots",
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

			groups, err := bridge.New(cfg, st, logging.NewNop()).FindDuplicates(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, groups)
			}
			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "No duplicates found")
				return nil
			}
			for i, group := range groups {
				fmt.Fprintf(out, "Group %d:\n", i+1)
				for _, file := range group.Files {
					fmt.Fprintf(out, "  %s (%s)\n", file.Filename, file.Category)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}
