package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mhabit/internal/backup"
	"github.com/emiliopalmerini/mhabit/internal/logger"
	"github.com/emiliopalmerini/mhabit/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the habit tracking HTTP API.

Examples:
  mhabit serve              # Start on MHABIT_PORT (default 5000)
  mhabit serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides MHABIT_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewAppContext(ctx, WithStderrLogs())
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Config.BackupEnabled {
		scheduler := backup.NewScheduler(nil)
		if _, err := scheduler.ScheduleSnapshots(app.Config.BackupSchedule, app.Snapshots); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("scheduled backups enabled", "schedule", app.Config.BackupSchedule, "dir", app.Config.BackupDir)
	}

	if probe, ok := app.Generator.(interface{ IsAvailable(context.Context) bool }); ok {
		probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if !probe.IsAvailable(probeCtx) {
			logger.Warn("insight model not reachable, insights will use fallback text", "url", app.Config.OllamaURL)
		}
		cancel()
	}

	port := app.Config.Port
	if servePort != 0 {
		port = servePort
	}

	server := web.NewServer(app.Service, port).WithShutdownTimeout(app.Config.ShutdownTimeout)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Shutting down...")
	return nil
}
