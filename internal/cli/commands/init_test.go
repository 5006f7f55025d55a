package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapsheet/internal/cli/config"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string)
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"leapsheet.yaml", ".gitignore"},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leapsheet.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leapsheet.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantFiles: []string{"leapsheet.yaml"},
		},
		{
			name:      "init subdirectory",
			args:      []string{"sync"},
			wantFiles: []string{"sync/leapsheet.yaml", "sync/.gitignore"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				_, err := os.Stat(filepath.Join(tmpDir, f))
				assert.NoError(t, err, "expected %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
	assert.NotNil(t, cmd.Flags().Lookup("example"))
}

func TestInitCreatesLoadableConfig(t *testing.T) {
	for _, args := range [][]string{nil, {"--example"}} {
		t.Run(fmt.Sprint(args), func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("SMARTSHEET_ACCESS_TOKEN", "tok")

			cmd := NewInitCommand()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))
			cmd.SetArgs(args)
			require.NoError(t, cmd.Execute())

			config.ResetConfig()
			cfg, err := config.LoadConfig("", nil)
			require.NoError(t, err)
			assert.Equal(t, "leapsheet.yaml", config.GetConfigFileUsed())
			assert.Equal(t, "tok", cfg.Smartsheet.Token)
			assert.Equal(t, "sqlite", cfg.Target.Type)
		})
	}
}

func TestWriteScaffold(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("keep\n"), 0o600))

	written, skipped, err := writeScaffold("example", dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"leapsheet.yaml"}, written)
	assert.Equal(t, []string{".gitignore"}, skipped)

	kept, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(kept))

	written, skipped, err = writeScaffold("example", dir, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"leapsheet.yaml", ".gitignore"}, written)
	assert.Empty(t, skipped)

	_, _, err = writeScaffold("nope", dir, false)
	assert.ErrorContains(t, err, `unknown template "nope"`)
}
