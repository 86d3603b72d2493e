package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/mhabit/internal/adapters/ollama"
	"github.com/emiliopalmerini/mhabit/internal/adapters/otel"
	"github.com/emiliopalmerini/mhabit/internal/adapters/storage"
	"github.com/emiliopalmerini/mhabit/internal/adapters/turso"
	"github.com/emiliopalmerini/mhabit/internal/backup"
	"github.com/emiliopalmerini/mhabit/internal/config"
	"github.com/emiliopalmerini/mhabit/internal/habits"
	"github.com/emiliopalmerini/mhabit/internal/insights"
	"github.com/emiliopalmerini/mhabit/internal/logger"
	"github.com/emiliopalmerini/mhabit/internal/migrate"
	"github.com/emiliopalmerini/mhabit/internal/ports"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config    *config.Config
	DB        *sql.DB
	Store     ports.HabitStore
	Generator ports.InsightGenerator
	Metrics   ports.MetricsExporter
	Cache     *insights.Cache
	Service   *habits.Service
	Snapshots *backup.Snapshotter
}

// AppOption adjusts how the application context is built.
type AppOption func(*logger.Config)

// WithStderrLogs mirrors log lines to stderr, for long-running commands.
func WithStderrLogs() AppOption {
	return func(c *logger.Config) { c.Stderr = true }
}

// NewAppContext loads configuration and wires every dependency.
func NewAppContext(ctx context.Context, opts ...AppOption) (*AppContext, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logCfg := logger.Config{Debug: cfg.LogDebug, Dir: cfg.LogDir}
	for _, opt := range opts {
		opt(&logCfg)
	}
	if err := logger.Init(logCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &AppContext{Config: cfg}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	a.Generator = newGenerator(cfg)
	a.Metrics = newMetrics(ctx, cfg)
	a.Cache = insights.NewCache(cfg.InsightsTTL)

	analyzer := insights.NewAnalyzer(a.Generator,
		insights.WithTimeout(cfg.OllamaTimeout),
		insights.WithMetrics(a.Metrics),
	)
	a.Service = habits.NewService(a.Store, a.Cache, analyzer, habits.WithMetrics(a.Metrics))
	a.Snapshots = backup.NewSnapshotter(a.Store, cfg.BackupDir, cfg.BackupKeep)

	return a, nil
}

func (a *AppContext) openStore(ctx context.Context) error {
	switch a.Config.Store {
	case config.StoreTurso:
		db, err := turso.Open(a.Config.DatabaseURL, a.Config.AuthToken)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migrate.RunAll(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		a.DB = db
		a.Store = turso.NewHabitStore(db)
	default:
		store, err := storage.NewHabitStore(a.Config.DataFile)
		if err != nil {
			return fmt.Errorf("failed to initialize habit storage: %w", err)
		}
		a.Store = store
	}
	return nil
}

func newGenerator(cfg *config.Config) ports.InsightGenerator {
	client, err := ollama.NewClient(cfg.Ollama())
	if err != nil {
		logger.Info("insight model disabled", "reason", err)
		return ollama.NewNoOpClient()
	}
	return client
}

func newMetrics(ctx context.Context, cfg *config.Config) ports.MetricsExporter {
	if !cfg.OtelEnabled {
		return otel.NewNoOpExporter()
	}
	exp, err := otel.NewExporter(ctx, cfg.Otel())
	if err != nil {
		logger.Warn("metrics exporter unavailable", "error", err)
		return otel.NewNoOpExporter()
	}
	return exp
}

// Close flushes metrics and releases the database connection.
func (a *AppContext) Close() error {
	var firstErr error
	if a.Metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Metrics.Close(ctx); err != nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
