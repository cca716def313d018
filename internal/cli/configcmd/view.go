package configcmd

import (
	"fmt"

	"github.com/aryankumar/sweep/internal/config"
	"github.com/aryankumar/sweep/internal/output"
	"github.com/aryankumar/sweep/internal/util"
	"github.com/spf13/cobra"
)

// newViewCmd creates the config view command
func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the resolved settings",
		Long: `Show the settings in effect after defaults, the config file, SWEEP_*
environment variables, the selected profile and command-line flags are applied.
Plan files may still override them for a single run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.FromContext(cmd.Context())

			format, err := output.ParseFormat(settings.Output)
			if err != nil {
				return fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
			}

			formatter := output.NewFormatter(format, output.WithNoColor(settings.NoColor))
			return formatter.Format(cmd.OutOrStdout(), settings.Map())
		},
	}

	return cmd
}
