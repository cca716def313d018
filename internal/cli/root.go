package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aryankumar/sweep/internal/cli/configcmd"
	"github.com/aryankumar/sweep/internal/cli/run"
	"github.com/aryankumar/sweep/internal/cli/validate"
	"github.com/aryankumar/sweep/internal/config"
	"github.com/aryankumar/sweep/pkg/version"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	profile string
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep - run parameter sweeps and task batches in parallel",
		Long: `Sweep runs a set of independent tasks, or every configuration of a
parameter grid, on a bounded pool of workers and reports how each one ended.

Tasks are described in a YAML or TOML plan file. Failed tasks never stop the
others unless --fail-fast is set; an interrupt drains the run and reports the
tasks that never started as cancelled.`,
		Version:       version.Get().Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sweep.yaml)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "named settings profile from the config file")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, wide, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Duration("timeout", 0, "wall-clock limit for the whole experiment (0 disables)")
	rootCmd.PersistentFlags().IntP("parallel", "p", 0, "maximum number of concurrently running tasks (default 4)")
	rootCmd.PersistentFlags().Bool("fail-fast", false, "stop dispatching new tasks after the first failure")
	rootCmd.PersistentFlags().String("progress", "", "progress display (bar, counter, silent)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(run.NewRunCmd())
	rootCmd.AddCommand(validate.NewValidateCmd())
	rootCmd.AddCommand(configcmd.NewConfigCmd())

	return rootCmd
}

// initConfig loads configuration, resolves the active settings and sets up logging
func initConfig(cmd *cobra.Command) error {
	manager := config.NewManager(cfgFile)
	if err := manager.BindFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg, err := manager.Load()
	if err != nil {
		return err
	}

	settings, err := cfg.Profile(profile)
	if err != nil {
		return err
	}

	// Explicit flags beat the profile
	settings, err = config.ApplyFlags(settings, cmd.Flags())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(config.NewContext(ctx, settings))

	setupLogging(cmd, settings)

	if path := manager.Path(); path != "" {
		slog.Debug("loaded configuration", "file", path, "profile", profile)
	}
	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command, settings config.Settings) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if settings.NoColor {
		// Use JSON handler for no-color mode
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	if verbose {
		slog.Debug("verbose logging enabled")
	}
}
