package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapsheet/internal/cli/output"
	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/dialect"
)

// ErrMissingToken is returned by RequireToken when no API token is set.
var ErrMissingToken = errors.New("smartsheet token is not set (use --token, smartsheet.token in leapsheet.yaml, LEAPSHEET_TOKEN or " + TokenEnvVar + ")")

// DefaultSchemaForType returns the default schema for a database type.
// It looks up the dialect in the registry; if not found, returns "" so the
// adapter's own default applies.
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok {
		return d.DefaultSchema
	}
	return ""
}

// ApplyDefaults fills in type-specific defaults.
func (t *TargetConfig) ApplyDefaults() {
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Port == 0 {
		switch strings.ToLower(t.Type) {
		case "postgres", "postgresql":
			t.Port = 5432
		case "mysql", "mariadb":
			t.Port = 3306
		case "mssql", "sqlserver":
			t.Port = 1433
		}
	}
}

// Validate checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	return nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if c.Smartsheet.Retry.MaxAttempts < 0 {
		return fmt.Errorf("smartsheet.retry.max_attempts must not be negative")
	}
	if c.Smartsheet.Timeout < 0 {
		return fmt.Errorf("smartsheet.timeout must not be negative")
	}
	if c.Target != nil {
		if err := c.Target.Validate(); err != nil {
			return fmt.Errorf("invalid target configuration: %w", err)
		}
	}
	return nil
}

// RequireToken returns the API token or ErrMissingToken.
func (c *Config) RequireToken() (string, error) {
	if c.Smartsheet.Token == "" {
		return "", ErrMissingToken
	}
	return c.Smartsheet.Token, nil
}
