// Package config loads oarlog configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/oarlog/oarlog/pkg/clean"
	"github.com/oarlog/oarlog/pkg/course"
	"github.com/oarlog/oarlog/pkg/export"
)

var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidShards    = errors.New("shard count must be at least 1")
	ErrInvalidRollover  = errors.New("rollover minute must be within the hour")
	ErrInvalidMinRun    = errors.New("minimum run must be positive")
	ErrInvalidJump      = errors.New("distance jump threshold must be positive")
	ErrInvalidRateBand  = errors.New("stroke rate bounds are inverted")
)

// Config holds all oarlog configuration.
type Config struct {
	// Catalog is the path of the ingestion ledger database.
	Catalog string `yaml:"catalog"`

	// Filter is the default CEL row filter, applied when a command is not
	// given one. Empty keeps every row.
	Filter string `yaml:"filter"`

	// Turn detection tuning
	Course course.Config `yaml:"course"`

	// Artifact bounds
	Clean clean.Config `yaml:"clean"`

	// Export defaults
	Export ExportConfig `yaml:"export"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig configures default export behavior.
type ExportConfig struct {
	Format string `yaml:"format"`
	Out    string `yaml:"out"`
	Shards int    `yaml:"shards"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// debug, info, warn, error
	Level string `yaml:"level"`
	// text, json
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: "oarlog.db",
		Course:  course.DefaultConfig(),
		Clean:   clean.DefaultConfig(),
		Export: ExportConfig{
			Format: string(export.FormatCSV),
			Out:    "out",
			Shards: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Values found in the file override defaults field by field, and
// OARLOG_* environment variables override both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OARLOG_CATALOG"); v != "" {
		c.Catalog = v
	}
	if v := os.Getenv("OARLOG_FILTER"); v != "" {
		c.Filter = v
	}
	if v := os.Getenv("OARLOG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OARLOG_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("OARLOG_FORMAT"); v != "" {
		c.Export.Format = v
	}
	if v := os.Getenv("OARLOG_OUT"); v != "" {
		c.Export.Out = v
	}
	if v := os.Getenv("OARLOG_SHARDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Export.Shards = n
		}
	}
}

// Validate checks the configuration for values no command could run with.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return err
	}
	if c.Export.Shards < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidShards, c.Export.Shards)
	}

	if c.Course.RolloverMinute < 0 || c.Course.RolloverMinute > 59 {
		return fmt.Errorf("%w: %d", ErrInvalidRollover, c.Course.RolloverMinute)
	}
	if c.Course.MinRun < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMinRun, c.Course.MinRun)
	}

	if c.Clean.MaxDistanceJump <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidJump, c.Clean.MaxDistanceJump)
	}
	if c.Clean.MaxStrokeRate <= c.Clean.MinStrokeRate {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidRateBand, c.Clean.MinStrokeRate, c.Clean.MaxStrokeRate)
	}

	return nil
}

// LogLevel returns the configured level as a slog level.
func (c *Config) LogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
