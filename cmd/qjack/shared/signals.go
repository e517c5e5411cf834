package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// SignalContext returns a context cancelled on SIGINT or SIGTERM. Long
// running commands observe it at batch boundaries, so the signal only asks
// them to stop once the current batch is done.
func SignalContext(parent context.Context, logger zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			logger.Info().Str("signal", sig.String()).Msg("Received signal, stopping after current batch")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
