// Package config provides configuration management for the leapsheet CLI.
//
// Configuration is layered, lowest to highest precedence: built-in
// defaults, leapsheet.yaml, LEAPSHEET_* environment variables and
// explicitly set command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/leapsheet/pkg/core"
	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
)

// Config holds all CLI configuration options.
type Config struct {
	Smartsheet   SmartsheetConfig     `koanf:"smartsheet"`
	Target       *TargetConfig        `koanf:"target"`
	Environment  string               `koanf:"environment"`
	Environments map[string]EnvConfig `koanf:"environments"`
	Verbose      bool                 `koanf:"verbose"`
	OutputFormat string               `koanf:"output"`
}

// SmartsheetConfig configures the API client.
type SmartsheetConfig struct {
	Token       string        `koanf:"token"`
	BaseURL     string        `koanf:"base_url"`
	Timeout     time.Duration `koanf:"timeout"`
	ChangeAgent string        `koanf:"change_agent"`
	Retry       RetryConfig   `koanf:"retry"`
}

// RetryConfig configures retries of rate-limited requests. MaxAttempts
// of 0 or 1 disables retries.
type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts"`
	BaseDelay   time.Duration `koanf:"base_delay"`
	MaxDelay    time.Duration `koanf:"max_delay"`
}

// Policy returns the client retry policy.
func (r RetryConfig) Policy() smartsheet.RetryPolicy {
	return smartsheet.RetryPolicy{
		MaxAttempts: r.MaxAttempts,
		BaseDelay:   r.BaseDelay,
		MaxDelay:    r.MaxDelay,
	}
}

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // postgres, mysql, mssql, sqlite, duckdb

	// File-based databases (SQLite, DuckDB)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions and settings)
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts the target to the adapter connection config.
func (t *TargetConfig) AdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		Type:     t.Type,
		Path:     t.Database,
		Database: t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
}

// EnvConfig holds environment-specific overrides.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultTargetType = "sqlite"
	DefaultDatabase   = ":memory:"
	DefaultTimeout    = time.Minute
	DefaultOutput     = "auto" // Auto-detect: TTY=table, non-TTY=markdown
)

// TokenEnvVar is consulted when no token is configured.
const TokenEnvVar = "SMARTSHEET_ACCESS_TOKEN"
