package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/mhabit/internal/adapters/ollama"
	"github.com/emiliopalmerini/mhabit/internal/adapters/otel"
	"github.com/emiliopalmerini/mhabit/internal/util"
)

// Prefix is prepended to every environment variable, e.g. MHABIT_PORT.
const Prefix = "MHABIT"

// Store backends.
const (
	StoreJSON  = "json"
	StoreTurso = "turso"
)

type Config struct {
	Store       string `envconfig:"STORE" default:"json"`
	DataFile    string `envconfig:"DATA_FILE"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	AuthToken   string `envconfig:"AUTH_TOKEN"`

	Port            int           `envconfig:"PORT" default:"5000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	InsightsTTL     time.Duration `envconfig:"INSIGHTS_TTL" default:"5m"`

	OllamaEnabled bool          `envconfig:"OLLAMA_ENABLED" default:"true"`
	OllamaURL     string        `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel   string        `envconfig:"OLLAMA_MODEL" default:"phi"`
	OllamaTimeout time.Duration `envconfig:"OLLAMA_TIMEOUT" default:"10s"`

	OtelEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OtelEndpoint string `envconfig:"OTEL_ENDPOINT"`
	OtelInsecure bool   `envconfig:"OTEL_INSECURE" default:"false"`

	BackupEnabled  bool   `envconfig:"BACKUP_ENABLED" default:"false"`
	BackupSchedule string `envconfig:"BACKUP_SCHEDULE" default:"0 3 * * *"`
	BackupKeep     int    `envconfig:"BACKUP_KEEP" default:"7"`
	BackupDir      string `envconfig:"BACKUP_DIR"`

	LogDebug bool   `envconfig:"LOG_DEBUG" default:"false"`
	LogDir   string `envconfig:"LOG_DIR"`
}

// New reads the configuration from the environment and fills path defaults.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolve() error {
	switch c.Store {
	case StoreJSON:
	case StoreTurso:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%s_DATABASE_URL is required when %s_STORE=turso", Prefix, Prefix)
		}
	default:
		return fmt.Errorf("unknown store %q, expected %q or %q", c.Store, StoreJSON, StoreTurso)
	}

	if c.DataFile == "" {
		dir, err := util.GetXDGDataDir()
		if err != nil {
			return fmt.Errorf("failed to resolve data directory: %w", err)
		}
		c.DataFile = filepath.Join(dir, "habits.json")
	}
	if c.BackupDir == "" {
		c.BackupDir = filepath.Join(filepath.Dir(c.DataFile), "backups")
	}
	if c.LogDir == "" {
		dir, err := util.GetXDGStateDir()
		if err != nil {
			return fmt.Errorf("failed to resolve state directory: %w", err)
		}
		c.LogDir = dir
	}
	return nil
}

// Ollama returns the model client settings.
func (c *Config) Ollama() ollama.Config {
	return ollama.Config{
		Enabled: c.OllamaEnabled,
		URL:     c.OllamaURL,
		Model:   c.OllamaModel,
		Timeout: c.OllamaTimeout,
	}
}

// Otel returns the metrics exporter settings.
func (c *Config) Otel() otel.Config {
	return otel.Config{
		Endpoint: c.OtelEndpoint,
		Enabled:  c.OtelEnabled,
		Insecure: c.OtelInsecure,
	}
}
