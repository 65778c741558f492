package reporter

import (
	"context"
	"time"

	"github.com/ab180/dbfarmer/coordinator"
	"github.com/ab180/dbfarmer/metric"
	"github.com/ab180/dbfarmer/pkg/retry"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Connect opens an administrative session to the coordinator.
// It never gives up while the coordinator is unreachable: every failed attempt
// is logged once and retried after delay. An error is returned only when ctx ends.
func Connect(
	ctx context.Context,
	resolver coordinator.Resolver,
	dialer coordinator.Dialer,
	delay time.Duration,
) (coordinator.Session, error) {
	var (
		attempts int
		endpoint coordinator.Endpoint
	)
	sess, err := retry.DoWithResult(
		func() (coordinator.Session, error) {
			attempts++
			metric.ConnectAttempts.Inc()

			endpoint = coordinator.Endpoint{}
			ep, err := resolver.Resolve(ctx)
			if err != nil {
				return nil, errors.WithMessage(err, "resolve coordinator")
			}
			endpoint = ep
			return dialer.Dial(ctx, ep)
		},
		retry.WithContext(ctx),
		retry.WithUnlimitedRetry(),
		retry.WithDelay(delay),
		retry.WithOnError(func(attempt int, err error) {
			metric.ConnectFailures.Inc()

			ev := log.Warn().Err(err).Int("attempt", attempt)
			if endpoint.Host != "" {
				ev = ev.Str("endpoint", endpoint.String())
			}
			ev.Msg("error connecting to coordinator")
		}),
	)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("endpoint", endpoint.String()).
		Int("attempts", attempts).
		Msg("connected to coordinator")
	return sess, nil
}
