package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shotsort/internal/bridge"
	"shotsort/internal/category"
	"shotsort/internal/logging"
	"shotsort/internal/store"
)

// newBridgeCommand exposes the JSON surface consumed by the dashboard.
// Every subcommand writes a single JSON document to stdout and logs
// nothing, so the output is safe to pipe.
func newBridgeCommand(ctx *commandContext) *cobra.Command {
	bridgeCmd := &cobra.Command{
		Use:   "bridge",
		Short: "JSON commands for the dashboard frontend",
	}

	bridgeCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Headline counts plus recent insights",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBridge(ctx, cmd, func(b *bridge.Bridge) error {
				stats, err := b.Stats(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd, stats)
			})
		},
	})

	bridgeCmd.AddCommand(&cobra.Command{
		Use:   "dashboard-data",
		Short: "Activity, spend, and breakdowns for the home view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBridge(ctx, cmd, func(b *bridge.Bridge) error {
				data, err := b.DashboardData(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd, data)
			})
		},
	})

	bridgeCmd.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBridge(ctx, cmd, func(b *bridge.Bridge) error {
				results, err := b.Search(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd, results)
			})
		},
	})

	var sortOrder string
	categoryFilesCmd := &cobra.Command{
		Use:   "category-files <category>",
		Short: "List the files stored under one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBridge(ctx, cmd, func(b *bridge.Bridge) error {
				files, err := b.CategoryFiles(cmd.Context(), category.Category(args[0]), sortOrder)
				if err != nil {
					return err
				}
				return writeJSON(cmd, files)
			})
		},
	}
	categoryFilesCmd.Flags().StringVar(&sortOrder, "sort", "newest", "Sort order: newest or name")
	bridgeCmd.AddCommand(categoryFilesCmd)

	bridgeCmd.AddCommand(&cobra.Command{
		Use:   "move-file <filename> <category>",
		Short: "Move a file and its record to another category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBridge(ctx, cmd, func(b *bridge.Bridge) error {
				row, err := b.MoveFile(cmd.Context(), args[0], category.Category(args[1]))
				if err != nil {
					return err
				}
				return writeJSON(cmd, row)
			})
		},
	})

	bridgeCmd.AddCommand(&cobra.Command{
		Use:   "delete-file <filename>",
		Short: "Delete a file and its index record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBridge(ctx, cmd, func(b *bridge.Bridge) error {
				if err := b.DeleteFile(cmd.Context(), args[0]); err != nil {
					return err
				}
				return writeJSON(cmd, map[string]bool{"success": true})
			})
		},
	})

	bridgeCmd.AddCommand(&cobra.Command{
		Use:   "find-duplicates",
		Short: "Perceptual-hash duplicate groups as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBridge(ctx, cmd, func(b *bridge.Bridge) error {
				groups, err := b.FindDuplicates(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd, groups)
			})
		},
	})

	var exportOutput string
	exportCmd := &cobra.Command{
		Use:   "export-expenses <year-month>",
		Short: "Write one month of expenses to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBridge(ctx, cmd, func(b *bridge.Bridge) error {
				data, err := b.ExportExpenses(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				target := exportOutput
				if target == "" {
					target = fmt.Sprintf("expenses-%s.xlsx", args[0])
				}
				if err := os.WriteFile(target, data, 0o644); err != nil {
					return fmt.Errorf("write workbook: %w", err)
				}
				return writeJSON(cmd, map[string]string{"path": target})
			})
		},
	}
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Destination file (defaults to expenses-<month>.xlsx)")
	bridgeCmd.AddCommand(exportCmd)

	return bridgeCmd
}

// withBridge opens the store for one bridge call. Failures are mirrored
// as an {"error": ...} document on stdout so the dashboard frontend
// always has JSON to parse, then surfaced as a normal command error.
func withBridge(ctx *commandContext, cmd *cobra.Command, fn func(*bridge.Bridge) error) error {
	err := func() error {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		return fn(bridge.New(cfg, st, logging.NewNop()))
	}()
	if err != nil {
		_ = writeJSON(cmd, map[string]string{"error": err.Error()})
	}
	return err
}
