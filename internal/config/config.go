// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution, and resolving eBay
// credentials from the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Ebay          EbayConfig          `yaml:"ebay"`
	Valuation     ValuationConfig     `yaml:"valuation"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Driver   string         `yaml:"driver"` // sqlite, postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig defines SQLite database settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig defines PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		p.Host, p.Port, p.Name, p.User, p.Password, p.SSLMode,
	)
}

// EbayConfig defines eBay API settings. Credentials themselves never live
// in YAML; they come from the environment via LoadCredentials.
type EbayConfig struct {
	TokenURL    string          `yaml:"token_url"`
	BrowseURL   string          `yaml:"browse_url"`
	Marketplace string          `yaml:"marketplace"`
	Scope       string          `yaml:"scope"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines eBay API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// ValuationConfig defines deal scoring parameters.
type ValuationConfig struct {
	DefaultMinScore    float64 `yaml:"default_min_score"`
	DefaultLimit       int     `yaml:"default_limit"`
	CategoryIDs        []int   `yaml:"category_ids"`
	HighConfidenceOnly bool    `yaml:"high_confidence_only"`
}

// AlertsConfig defines the background alert poller.
type AlertsConfig struct {
	Enabled      bool          `yaml:"enabled"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied and no file
// read, suitable for running without a config flag.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyStorageDefaults(&cfg.Storage)
	applyEbayDefaults(&cfg.Ebay)
	applyValuationDefaults(&cfg.Valuation)
	applyAlertsDefaults(&cfg.Alerts)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyStorageDefaults(s *StorageConfig) {
	if s.Driver == "" {
		s.Driver = "sqlite"
	}
	if s.SQLite.Path == "" {
		s.SQLite.Path = "fretscout.db"
	}
	if s.Postgres.Port == 0 {
		s.Postgres.Port = 5432
	}
	if s.Postgres.SSLMode == "" {
		s.Postgres.SSLMode = "disable"
	}
	if s.Postgres.PoolSize == 0 {
		s.Postgres.PoolSize = 10
	}
}

func applyEbayDefaults(e *EbayConfig) {
	applyRateLimitDefaults(&e.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyValuationDefaults(v *ValuationConfig) {
	if v.DefaultLimit == 0 {
		v.DefaultLimit = 50
	}
}

func applyAlertsDefaults(a *AlertsConfig) {
	if a.PollInterval == 0 {
		a.PollInterval = 15 * time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Storage.Driver {
	case "sqlite":
		if cfg.Storage.SQLite.Path == "" {
			errs = append(errs, fmt.Errorf("storage.sqlite.path is required"))
		}
	case "postgres":
		if cfg.Storage.Postgres.Host == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.host is required"))
		}
		if cfg.Storage.Postgres.Name == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.name is required"))
		}
		if cfg.Storage.Postgres.User == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.user is required"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"storage.driver must be one of: sqlite, postgres (got %q)",
			cfg.Storage.Driver,
		))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf(
			"notifications.discord.webhook_url is required when discord is enabled",
		))
	}

	if cfg.Valuation.DefaultMinScore < 0 || cfg.Valuation.DefaultMinScore > 100 {
		errs = append(errs, fmt.Errorf(
			"valuation.default_min_score must be between 0 and 100 (got %v)",
			cfg.Valuation.DefaultMinScore,
		))
	}

	return errors.Join(errs...)
}
