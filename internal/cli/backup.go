package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a snapshot of the habit document",
	Long: `Write a timestamped JSON snapshot into MHABIT_BACKUP_DIR, keeping the
newest MHABIT_BACKUP_KEEP snapshots.

Examples:
  mhabit backup         # Take a snapshot now
  mhabit backup --list  # Show existing snapshots`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

var backupList bool

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().BoolVar(&backupList, "list", false, "List snapshots instead of writing one")
}

func runBackup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	out := cmd.OutOrStdout()
	if backupList {
		paths, err := app.Snapshots.List()
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}
		if len(paths) == 0 {
			fmt.Fprintln(out, "No snapshots")
		}
		for _, p := range paths {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	path, err := app.Snapshots.Snapshot(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Snapshot written to %s\n", path)
	return nil
}
