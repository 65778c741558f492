package util

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// TerminationSignals are the signals a host supervisor sends to stop a process.
var TerminationSignals = []os.Signal{os.Interrupt, unix.SIGTERM}

// ContextWithSignal returns a context cancelled once one of the signals is received.
func ContextWithSignal(parent context.Context, sig ...os.Signal) (context.Context, context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sig...)

	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case s := <-sigChan:
			log.Info().
				Str("signal", s.String()).
				Msg("signal received during execution")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
