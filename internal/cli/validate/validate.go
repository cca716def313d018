package validate

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/sweep/internal/config"
	"github.com/aryankumar/sweep/internal/experiment"
	"github.com/aryankumar/sweep/internal/output"
	"github.com/aryankumar/sweep/internal/plan"
	"github.com/aryankumar/sweep/internal/util"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	var listTasks bool

	cmd := &cobra.Command{
		Use:   "validate PLAN",
		Short: "Check a plan file without running it",
		Long: `Check a YAML or TOML plan file without running any task.

The plan is parsed, validated, and expanded, so unknown keys, missing fields,
duplicate task ids, and template errors are all reported.`,
		Example: `  # Validate a plan
  sweep validate sweep.yaml

  # Show the tasks the plan expands to
  sweep validate sweep.yaml --list`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.FromContext(cmd.Context())
			return runValidate(cmd.OutOrStdout(), args[0], listTasks, settings)
		},
	}

	cmd.Flags().BoolVarP(&listTasks, "list", "l", false, "List the expanded tasks")

	return cmd
}

func runValidate(w io.Writer, path string, listTasks bool, settings config.Settings) error {
	logger := slog.Default()

	p, err := plan.Load(path)
	if err != nil {
		return err
	}

	tasks, err := p.Expand(logger)
	if err != nil {
		return err
	}

	// The same checks run applies, so duplicate ids surface identically
	if err := (experiment.Config{Tasks: tasks, MaxParallelism: 1}).Validate(); err != nil {
		return err
	}

	logger.Debug("plan is valid", "plan", path, "tasks", len(tasks))

	if !listTasks {
		fmt.Fprintf(w, "%s: valid, %d tasks\n", path, len(tasks))
		return nil
	}

	format, err := output.ParseFormat(settings.Output)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
	}

	rows := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, map[string]interface{}{
			"task":    task.ID,
			"command": task.Metadata["command"],
		})
	}

	return output.NewFormatter(format, output.WithNoColor(settings.NoColor)).Format(w, rows)
}
