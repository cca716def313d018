package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/sweep/internal/config"
	"github.com/aryankumar/sweep/internal/experiment"
	"github.com/aryankumar/sweep/internal/output"
	"github.com/aryankumar/sweep/internal/plan"
	"github.com/aryankumar/sweep/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run PLAN",
		Short: "Run every task of a plan file",
		Long: `Run every task of a YAML or TOML plan file on a bounded worker pool.

Explicit tasks run in the order listed, followed by every configuration of the
plan's matrix. Settings resolve from lowest to highest precedence: built-in
defaults, the config file and SWEEP_* environment, the selected profile, the
plan file, then command-line flags.

The exit status is non-zero when any task failed or was cancelled.`,
		Example: `  # Run a plan with the default settings
  sweep run sweep.yaml

  # Run eight tasks at a time and stop at the first failure
  sweep run sweep.toml -p 8 --fail-fast

  # Give up after ten minutes and print the report as JSON
  sweep run sweep.yaml --timeout 10m -o json

  # Print values and errors next to each task
  sweep run sweep.yaml -o wide`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), cmd.Flags(), args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	return cmd
}

func runPlan(ctx context.Context, flags *pflag.FlagSet, path string, stdout, stderr io.Writer) error {
	logger := slog.Default()

	p, err := plan.Load(path)
	if err != nil {
		return err
	}

	settings, err := Resolve(config.FromContext(ctx), p, flags)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(settings.Output)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
	}

	reporter, err := output.NewReporter(settings.Progress, stderr)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
	}

	tasks, err := p.Expand(logger)
	if err != nil {
		return err
	}

	logger.Debug("running plan",
		"plan", path,
		"name", p.Name,
		"tasks", len(tasks),
		"parallel", settings.Parallel,
		"fail_fast", settings.FailFast,
		"timeout", settings.Timeout)

	report, err := experiment.Run(ctx, experiment.Config{
		Tasks:          tasks,
		MaxParallelism: settings.Parallel,
		FailFast:       settings.FailFast,
		Timeout:        settings.Timeout,
		Reporter:       reporter,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format, output.WithNoColor(settings.NoColor))
	if err := formatter.FormatReport(stdout, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return util.ReportError(report)
}

// Resolve layers the plan's own settings over s, keeping every value the
// user set explicitly on the command line.
func Resolve(s config.Settings, p *plan.Plan, flags *pflag.FlagSet) (config.Settings, error) {
	explicit := func(name string) bool {
		if flags == nil {
			return false
		}
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if p.Parallel > 0 && !explicit("parallel") {
		s.Parallel = p.Parallel
	}

	if p.Timeout != "" && !explicit("timeout") {
		d, err := p.TimeoutDuration()
		if err != nil {
			return s, err
		}
		s.Timeout = d
	}

	if p.FailFast && !explicit("fail-fast") {
		s.FailFast = true
	}

	return s, nil
}
