package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mhabit/internal/adapters/turso"
	"github.com/emiliopalmerini/mhabit/internal/config"
	"github.com/emiliopalmerini/mhabit/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations for the turso store",
	Long: `Run database migrations against MHABIT_DATABASE_URL.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  mhabit migrate      # Run all pending migrations
  mhabit migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("%s_DATABASE_URL is required", config.Prefix)
	}

	db, err := turso.Open(cfg.DatabaseURL, cfg.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	runner := migrate.NewRunner(db, out)

	if len(args) == 0 {
		n, err := runner.Up(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(out, "No migrations to run")
			return nil
		}
	} else {
		target, err := strconv.Atoi(args[0])
		if err != nil || target < 0 {
			return fmt.Errorf("invalid version %q", args[0])
		}
		if err := runner.To(ctx, target); err != nil {
			return err
		}
	}

	version, _, err := runner.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Schema at version %d\n", version)
	return nil
}
