package util

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler derives a context that is cancelled on SIGINT or SIGTERM.
// The cancellation cause wraps ErrCancelled and names the signal. A running
// experiment drains on the first signal; a second signal forces exit.
// The returned stop function releases the signal subscription.
func SetupSignalHandler(parent context.Context, logger *slog.Logger) (context.Context, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	stopCh := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received interrupt, draining experiment", "signal", sig.String())
			cancel(fmt.Errorf("%w: received %s", ErrCancelled, sig))
		case <-stopCh:
			return
		}

		select {
		case sig := <-sigCh:
			logger.Warn("received second interrupt, forcing exit", "signal", sig.String())
			os.Exit(130)
		case <-stopCh:
		}
	}()

	stop := func() {
		signal.Stop(sigCh)
		select {
		case <-stopCh:
		default:
			close(stopCh)
		}
		cancel(nil)
	}
	return ctx, stop
}
