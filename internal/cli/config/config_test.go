package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/leapsheet/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapsheet/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapsheet/pkg/adapters/sqlite"
)

const testdataDir = "../testdata"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leapsheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestTargetConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		target    TargetConfig
		wantErr   bool
		errSubstr string
	}{
		{name: "empty type", target: TargetConfig{Type: ""}, wantErr: true, errSubstr: "target type is required"},
		{name: "valid sqlite", target: TargetConfig{Type: "sqlite"}},
		{name: "valid duckdb uppercase", target: TargetConfig{Type: "DuckDB"}},
		{name: "valid postgres alias", target: TargetConfig{Type: "postgresql"}},
		{name: "unknown type oracle", target: TargetConfig{Type: "oracle"}, wantErr: true, errSubstr: "unknown adapter type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTargetConfig_Validate_ErrorContainsAvailable(t *testing.T) {
	target := TargetConfig{Type: "invalid_db"}
	err := target.Validate()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "sqlite", "error should list available adapters")
	assert.Contains(t, err.Error(), "leapsheet.yaml", "error should mention config file")
}

func TestTargetConfig_ApplyDefaults(t *testing.T) {
	t.Run("sqlite schema", func(t *testing.T) {
		target := &TargetConfig{Type: "sqlite"}
		target.ApplyDefaults()
		assert.Equal(t, "main", target.Schema)
		assert.Zero(t, target.Port)
	})

	t.Run("postgres schema and port", func(t *testing.T) {
		target := &TargetConfig{Type: "postgres"}
		target.ApplyDefaults()
		assert.Equal(t, "public", target.Schema)
		assert.Equal(t, 5432, target.Port)
	})

	t.Run("preserves explicit values", func(t *testing.T) {
		target := &TargetConfig{Type: "postgres", Schema: "raw", Port: 6543}
		target.ApplyDefaults()
		assert.Equal(t, "raw", target.Schema)
		assert.Equal(t, 6543, target.Port)
	})
}

func TestTargetConfig_AdapterConfig(t *testing.T) {
	target := &TargetConfig{Type: "sqlite", Database: "sheets.db", User: "u", Schema: "main"}
	ac := target.AdapterConfig()
	assert.Equal(t, "sheets.db", ac.Path)
	assert.Equal(t, "sheets.db", ac.Database)
	assert.Equal(t, "u", ac.Username)
	assert.Equal(t, "main", ac.Schema)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR_ONE}", "value_one"},
		{"${TEST_VAR_ONE}/${TEST_VAR_TWO}", "value_one/value_two"},
		{"${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"plain string", "plain string"},
		{"", ""},
		{"${TEST_VAR_ONE}:${UNSET_VAR}", "value_one:${UNSET_VAR}"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestMergeTargetConfig(t *testing.T) {
	t.Run("nil base returns override", func(t *testing.T) {
		override := &TargetConfig{Type: "duckdb"}
		assert.Same(t, override, MergeTargetConfig(nil, override))
	})

	t.Run("nil override returns base", func(t *testing.T) {
		base := &TargetConfig{Type: "duckdb"}
		assert.Same(t, base, MergeTargetConfig(base, nil))
	})

	t.Run("override replaces set fields", func(t *testing.T) {
		base := &TargetConfig{
			Type:     "postgres",
			Host:     "localhost",
			Database: "base",
			Options:  map[string]string{"sslmode": "disable", "k": "base"},
		}
		override := &TargetConfig{
			Database: "override",
			Options:  map[string]string{"k": "override"},
		}

		merged := MergeTargetConfig(base, override)

		assert.Equal(t, "postgres", merged.Type)
		assert.Equal(t, "localhost", merged.Host)
		assert.Equal(t, "override", merged.Database)
		assert.Equal(t, map[string]string{"sslmode": "disable", "k": "override"}, merged.Options)
		assert.Equal(t, "base", base.Options["k"], "base must not be modified")
	})
}

func TestLoadConfigWithTarget_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv(TokenEnvVar, "")

	cfg, err := LoadConfigWithTarget("", "", nil)
	require.NoError(t, err)

	assert.Empty(t, GetConfigFileUsed())
	assert.Equal(t, "https://api.smartsheet.com/2.0/", cfg.Smartsheet.BaseURL)
	assert.Equal(t, time.Minute, cfg.Smartsheet.Timeout)
	assert.Equal(t, "leapsheet", cfg.Smartsheet.ChangeAgent)
	assert.Zero(t, cfg.Smartsheet.Retry.MaxAttempts, "retries stay off until configured")
	assert.Equal(t, smartsheet.DefaultRetryPolicy.BaseDelay, cfg.Smartsheet.Retry.BaseDelay)
	assert.Equal(t, smartsheet.DefaultRetryPolicy.MaxDelay, cfg.Smartsheet.Retry.MaxDelay)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	require.NotNil(t, cfg.Target)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, ":memory:", cfg.Target.Database)

	_, err = cfg.RequireToken()
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestLoadConfigWithTarget_Fixtures(t *testing.T) {
	t.Run("sqlite with retry", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_sqlite.yaml"), "", nil)
		require.NoError(t, err)

		token, err := cfg.RequireToken()
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
		assert.Equal(t, 30*time.Second, cfg.Smartsheet.Timeout)
		assert.Equal(t, 4, cfg.Smartsheet.Retry.MaxAttempts)
		assert.Equal(t, 250*time.Millisecond, cfg.Smartsheet.Retry.BaseDelay)
		assert.Equal(t, time.Minute, cfg.Smartsheet.Retry.MaxDelay)
		assert.Equal(t, "main", cfg.Target.Schema)

		p := cfg.Smartsheet.Retry.Policy()
		assert.Equal(t, 4, p.MaxAttempts)
	})

	t.Run("default environment", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_with_envs.yaml"), "", nil)
		require.NoError(t, err)

		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, "duckdb", cfg.Target.Type)
		assert.Equal(t, "dev.duckdb", cfg.Target.Database)
	})

	t.Run("target override to staging", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_with_envs.yaml"), "staging", nil)
		require.NoError(t, err)

		assert.Equal(t, "staging", cfg.Environment)
		assert.Equal(t, "staging.duckdb", cfg.Target.Database)
		assert.Equal(t, "staging", cfg.Target.Schema)
	})

	t.Run("target override to prod", func(t *testing.T) {
		ResetConfig()
		t.Setenv("TEST_PG_PASSWORD", "s3cret")
		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_with_envs.yaml"), "prod", nil)
		require.NoError(t, err)

		assert.Equal(t, "postgres", cfg.Target.Type)
		assert.Equal(t, "db.internal", cfg.Target.Host)
		assert.Equal(t, 5432, cfg.Target.Port)
		assert.Equal(t, "s3cret", cfg.Target.Password)
		assert.Equal(t, "prod", cfg.Target.Schema)
	})

	t.Run("unknown environment", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_with_envs.yaml"), "qa", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `environment "qa" not found`)
	})

	t.Run("env var expansion", func(t *testing.T) {
		ResetConfig()
		t.Setenv("TEST_SMARTSHEET_TOKEN", "tok-from-env")
		t.Setenv("TEST_DB_HOST", "pg.example.com")
		t.Setenv("TEST_DB_NAME", "warehouse")
		t.Setenv("TEST_DB_USER", "testuser")
		t.Setenv("TEST_DB_PASSWORD", "secret123")

		cfg, err := LoadConfigWithTarget(filepath.Join(testdataDir, "valid_env_vars.yaml"), "", nil)
		require.NoError(t, err)

		assert.Equal(t, "tok-from-env", cfg.Smartsheet.Token)
		assert.Equal(t, "pg.example.com", cfg.Target.Host)
		assert.Equal(t, "warehouse", cfg.Target.Database)
		assert.Equal(t, "testuser", cfg.Target.User)
		assert.Equal(t, "secret123", cfg.Target.Password)
	})

	t.Run("unknown target type", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfigWithTarget(filepath.Join(testdataDir, "invalid_unknown_type.yaml"), "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid target configuration")
		assert.Contains(t, err.Error(), "oracle")
	})

	t.Run("unknown output format", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfigWithTarget(filepath.Join(testdataDir, "invalid_output.yaml"), "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "xml")
	})

	t.Run("missing file", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfigWithTarget(filepath.Join(t.TempDir(), "nope.yaml"), "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})
}

func TestLoadConfig_FindsFileInWorkingDir(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leapsheet.yml"), []byte("output: json\n"), 0600))
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "leapsheet.yml", GetConfigFileUsed())
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_TokenSources(t *testing.T) {
	t.Run("fallback env var", func(t *testing.T) {
		ResetConfig()
		t.Setenv(TokenEnvVar, "fallback")
		cfg, err := LoadConfig(writeConfig(t, "output: csv\n"), nil)
		require.NoError(t, err)
		assert.Equal(t, "fallback", cfg.Smartsheet.Token)
	})

	t.Run("prefixed env var beats file", func(t *testing.T) {
		ResetConfig()
		t.Setenv("LEAPSHEET_TOKEN", "prefixed")
		cfg, err := LoadConfig(writeConfig(t, "smartsheet:\n  token: from-file\n"), nil)
		require.NoError(t, err)
		assert.Equal(t, "prefixed", cfg.Smartsheet.Token)
	})

	t.Run("flag beats env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("LEAPSHEET_TOKEN", "prefixed")
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("token", "", "API token")
		require.NoError(t, flags.Set("token", "from-flag"))

		cfg, err := LoadConfig(writeConfig(t, "smartsheet:\n  token: from-file\n"), flags)
		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.Smartsheet.Token)
	})
}

func TestLoadConfig_NestedEnvVars(t *testing.T) {
	ResetConfig()
	t.Setenv("LEAPSHEET_SMARTSHEET__BASE_URL", "https://api.smartsheet.eu/2.0/")
	t.Setenv("LEAPSHEET_SMARTSHEET__RETRY__MAX_ATTEMPTS", "3")
	t.Setenv("LEAPSHEET_OUTPUT", "yaml")

	cfg, err := LoadConfig(writeConfig(t, "output: json\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, "https://api.smartsheet.eu/2.0/", cfg.Smartsheet.BaseURL)
	assert.Equal(t, 3, cfg.Smartsheet.Retry.MaxAttempts)
	assert.Equal(t, "yaml", cfg.OutputFormat, "env var should override config file")
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	t.Setenv("LEAPSHEET_OUTPUT", "yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "output format")
	flags.Bool("verbose", false, "verbose")
	flags.String("config", "", "config file")
	require.NoError(t, flags.Set("output", "csv"))

	cfg, err := LoadConfig(writeConfig(t, "output: json\nverbose: true\n"), flags)
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.OutputFormat, "flag should override env var and config file")
	assert.True(t, cfg.Verbose, "unset flag should not override config file")
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, (&Config{OutputFormat: "table"}).Validate())

	err := (&Config{OutputFormat: "auto", Smartsheet: SmartsheetConfig{Retry: RetryConfig{MaxAttempts: -1}}}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_attempts")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))
	assert.NotNil(t, GetLogger(ctx), "missing logger falls back to discard")

	cfg := &Config{OutputFormat: "json"}
	logger := slog.New(slog.DiscardHandler)
	ctx = WithConfig(context.WithValue(ctx, LoggerKey(), logger), cfg)

	assert.Same(t, cfg, FromContext(ctx))
	assert.Same(t, logger, GetLogger(ctx))
}
