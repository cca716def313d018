package cli

import (
	"fmt"

	"github.com/aryankumar/sweep/internal/output"
	"github.com/aryankumar/sweep/pkg/version"
	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for sweep",
		// Version output never depends on the config file
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()
	outputFormat, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()

	switch output.Format(outputFormat) {
	case output.FormatJSON:
		return output.NewFormatter(output.FormatJSON).Format(w, info)
	case output.FormatYAML:
		return output.NewFormatter(output.FormatYAML).Format(w, info)
	case output.FormatTable, output.FormatWide:
		return output.NewFormatter(output.FormatTable).Format(w, info.Map())
	default:
		// Default to human-readable format
		fmt.Fprintln(w, info.String())
		return nil
	}
}
