package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapsheet/internal/cli/config"
	"github.com/leapstack-labs/leapsheet/internal/cli/output"
	"github.com/leapstack-labs/leapsheet/pkg/adapter"
	"github.com/leapstack-labs/leapsheet/pkg/bridge"
	"github.com/leapstack-labs/leapsheet/pkg/smartsheet"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context from the config and logger the
// root command stored. Without them the default configuration is loaded.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}

	cfg := config.FromContext(ctx)
	if cfg == nil {
		var err error
		if cfg, err = config.LoadConfig("", nil); err != nil {
			return nil, err
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}, nil
}

// Client creates an API client from the smartsheet configuration.
func (c *CommandContext) Client() (*smartsheet.Client, error) {
	token, err := c.Cfg.RequireToken()
	if err != nil {
		return nil, err
	}

	s := c.Cfg.Smartsheet
	opts := []smartsheet.Option{smartsheet.WithLogger(c.Logger)}
	if s.BaseURL != "" {
		opts = append(opts, smartsheet.WithBaseURL(s.BaseURL))
	}
	if s.Timeout > 0 {
		opts = append(opts, smartsheet.WithTimeout(s.Timeout))
	}
	if s.ChangeAgent != "" {
		opts = append(opts, smartsheet.WithChangeAgent(s.ChangeAgent))
	}
	if s.Retry.MaxAttempts > 1 {
		opts = append(opts, smartsheet.WithRetry(s.Retry.Policy()))
	}
	return smartsheet.New(token, opts...), nil
}

// ClientAndSheet creates a client and resolves a sheet name or ID.
func (c *CommandContext) ClientAndSheet(ctx context.Context, ref string) (*smartsheet.Client, int64, error) {
	client, err := c.Client()
	if err != nil {
		return nil, 0, err
	}
	id, err := client.ResolveSheet(ctx, ref)
	if err != nil {
		return nil, 0, err
	}
	c.Logger.Debug("resolved sheet", slog.String("ref", ref), slog.Int64("sheet_id", id))
	return client, id, nil
}

// Engine connects to the configured target. The caller must Close it.
func (c *CommandContext) Engine(ctx context.Context) (adapter.Adapter, error) {
	if c.Cfg.Target == nil {
		return nil, fmt.Errorf("no target configured")
	}
	return bridge.CreateEngine(ctx, c.Cfg.Target.AdapterConfig(), c.Logger)
}

// parseTypeOverrides parses repeated column=SQLTYPE flags.
func parseTypeOverrides(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		col, typ, ok := strings.Cut(p, "=")
		col, typ = strings.TrimSpace(col), strings.TrimSpace(typ)
		if !ok || col == "" || typ == "" {
			return nil, fmt.Errorf("invalid type override %q (expected column=SQLTYPE)", p)
		}
		out[col] = typ
	}
	return out, nil
}
