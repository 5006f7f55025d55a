package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapsheet/internal/cli/config"
	"github.com/leapstack-labs/leapsheet/internal/cli/output"
	"github.com/leapstack-labs/leapsheet/pkg/core"
)

// HealthCheck is the result of one doctor check.
type HealthCheck struct {
	Name   string
	Status string // output.StatusSuccess, StatusWarning or StatusError
	Detail string
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, API access and the target database",
		Long: `Check that leapsheet is ready to use.

The doctor command reports:
- which configuration file was loaded
- whether an API token is configured
- whether the Smartsheet API accepts the token
- whether the target database can be reached

It exits with an error when any check fails.`,
		Example: `  leapsheet doctor
  leapsheet doctor --target prod -o json`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	checks := runChecks(cmd.Context(), cmdCtx)

	failed := 0
	for _, c := range checks {
		if c.Status == output.StatusError {
			failed++
		}
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeTable, output.ModeMarkdown:
		r.Header(1, "leapsheet health check")
		r.Println("")
		for _, c := range checks {
			r.StatusLine(c.Name, c.Status, c.Detail)
		}
	default:
		t := core.NewTable("check", "status", "detail")
		for _, c := range checks {
			_ = t.Append([]core.Value{core.String(c.Name), core.String(c.Status), core.String(c.Detail)})
		}
		if err := r.Table(t); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func runChecks(ctx context.Context, cmdCtx *CommandContext) []HealthCheck {
	cfg := cmdCtx.Cfg
	var checks []HealthCheck

	if file := config.GetConfigFileUsed(); file != "" {
		checks = append(checks, HealthCheck{"config", output.StatusSuccess, file})
	} else {
		checks = append(checks, HealthCheck{"config", output.StatusWarning, "no leapsheet.yaml found, using defaults"})
	}

	if _, err := cfg.RequireToken(); err != nil {
		checks = append(checks,
			HealthCheck{"token", output.StatusError, "not set"},
			HealthCheck{"api", output.StatusWarning, "skipped"})
	} else {
		checks = append(checks, HealthCheck{"token", output.StatusSuccess, "set"})
		checks = append(checks, checkAPI(ctx, cmdCtx))
	}

	checks = append(checks, checkTarget(ctx, cmdCtx))
	return checks
}

func checkAPI(ctx context.Context, cmdCtx *CommandContext) HealthCheck {
	client, err := cmdCtx.Client()
	if err != nil {
		return HealthCheck{"api", output.StatusError, err.Error()}
	}
	sheets, err := client.ListSheets(ctx)
	if err != nil {
		return HealthCheck{"api", output.StatusError, err.Error()}
	}
	return HealthCheck{"api", output.StatusSuccess, fmt.Sprintf("%d sheets accessible", len(sheets))}
}

func checkTarget(ctx context.Context, cmdCtx *CommandContext) HealthCheck {
	target := cmdCtx.Cfg.Target
	if target == nil {
		return HealthCheck{"target", output.StatusError, "no target configured"}
	}
	name := "target " + target.Type
	if cmdCtx.Cfg.Environment != "" {
		name += " (" + cmdCtx.Cfg.Environment + ")"
	}

	eng, err := cmdCtx.Engine(ctx)
	if err != nil {
		return HealthCheck{name, output.StatusError, err.Error()}
	}
	defer func() { _ = eng.Close() }()

	return HealthCheck{name, output.StatusSuccess, "connected to " + target.Database}
}
