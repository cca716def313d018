package configcmd

import (
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the configuration management command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sweep configuration",
		Long: `Manage the sweep configuration file.

This command provides subcommands for writing a starter config file and
for showing the settings a run would use after every layer is applied.`,
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newViewCmd())

	return cmd
}
