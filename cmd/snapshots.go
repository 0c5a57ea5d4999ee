package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/relnotes/internal/snapshot"
	"github.com/danielolaszy/relnotes/internal/ui"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage stored issue snapshots",
	Long: `Every JIRA fetch made by generate is stored as a snapshot in a local SQLite
database (snapshots.path). Snapshots can be rendered again with
"generate --offline" or "generate --snapshot <id>".`,
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filterID, err := cmd.Flags().GetString("filter")
		if err != nil {
			return err
		}
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runSnapshotsList(cmd.Context(), cmd.OutOrStdout(), cfg.Snapshots.Path, filterID, limit)
	},
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete <snapshot-id>...",
	Short: "Delete stored snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runSnapshotsDelete(cmd.Context(), cmd.OutOrStdout(), cfg.Snapshots.Path, args)
	},
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsDeleteCmd)

	snapshotsListCmd.Flags().String("filter", "", "only list snapshots of this filter id")
	snapshotsListCmd.Flags().IntP("limit", "n", 20, "maximum number of snapshots to list (0 for all)")
}

func runSnapshotsList(ctx context.Context, out io.Writer, path, filterID string, limit int) error {
	store, err := snapshot.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer store.Close()

	list, err := store.List(ctx, filterID, limit)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, ui.RenderSnapshots(list))
	return nil
}

func runSnapshotsDelete(ctx context.Context, out io.Writer, path string, ids []string) error {
	store, err := snapshot.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer store.Close()

	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted snapshot %s\n", id)
	}
	return nil
}
