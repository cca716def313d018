package configcmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aryankumar/sweep/internal/config"
	"github.com/spf13/cobra"
)

// newInitCmd creates the config init command
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a config file with the default settings",
		Long: `Write a config file with the built-in default settings and an example
"ci" profile. PATH defaults to --config or $HOME/.sweep.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("failed to get home directory: %w", err)
				}
				path = filepath.Join(home, ".sweep.yaml")
			}
			return runInit(cmd.OutOrStdout(), path, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

func runInit(w io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	manager := config.NewManager(path)
	manager.SetSettings(config.Defaults())
	manager.SetProfile("ci", config.Settings{
		Progress: config.ProgressCounter,
		FailFast: true,
		NoColor:  true,
	})

	if err := manager.Save(); err != nil {
		return err
	}

	fmt.Fprintf(w, "wrote %s\n", path)
	return nil
}
