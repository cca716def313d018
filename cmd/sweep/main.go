package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aryankumar/sweep/internal/cli"
	"github.com/aryankumar/sweep/internal/util"
)

func main() {
	// First interrupt drains the experiment, a second one forces exit
	ctx, stop := util.SetupSignalHandler(context.Background(), nil)

	err := cli.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", util.FriendlyError(err))
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit statuses: 2 for configuration
// problems, 130 for interrupted runs, 1 otherwise
func exitCode(err error) int {
	switch {
	case util.IsConfigError(err):
		return 2
	case util.IsCancelled(err):
		return 130
	default:
		return 1
	}
}
