package reporter

import (
	"context"
	"time"

	"github.com/ab180/dbfarmer/coordinator"
	"github.com/ab180/dbfarmer/metric"
	"github.com/ab180/dbfarmer/segment"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/therne/errorist"
)

const closeTimeout = 5 * time.Second

// Reporter registers a segment with the coordinator. It is meant to be run once.
type Reporter struct {
	resolver coordinator.Resolver
	dialer   coordinator.Dialer
	identity segment.Identity
	opt      Options
}

func New(resolver coordinator.Resolver, dialer coordinator.Dialer, id segment.Identity, opt Options) *Reporter {
	return &Reporter{
		resolver: resolver,
		dialer:   dialer,
		identity: id,
		opt:      opt,
	}
}

// Identity returns the identity being registered.
func (r *Reporter) Identity() segment.Identity {
	return r.identity
}

// Run connects to the coordinator and registers the segment.
// On any outcome other than Registered it returns a *FatalError. Other errors
// are returned only when ctx ends before a session could be opened.
// The session is always closed before Run returns.
func (r *Reporter) Run(ctx context.Context) (Outcome, error) {
	startedAt := time.Now()
	outcome, err := r.report(ctx)
	metric.RegistrationDuration.Observe(time.Since(startedAt).Seconds())
	if err != nil {
		if fe, ok := AsFatal(err); ok {
			log.Error().
				Str("outcome", fe.Outcome.Kind.String()).
				Int("dbid", r.identity.DBID).
				Int("content", r.identity.ContentID).
				Str("detail", fe.Outcome.Detail()).
				Msg(fe.Outcome.Message())
		}
		return outcome, err
	}

	log.Info().
		Int("dbid", r.identity.DBID).
		Int("content", r.identity.ContentID).
		Int("port", r.identity.Port).
		Str("row", outcome.Row.String()).
		Msg("successfully reported segment status, exiting")
	return outcome, nil
}

func (r *Reporter) report(ctx context.Context) (outcome Outcome, err error) {
	defer func() {
		if panicErr := errorist.WrapPanic(recover()); panicErr != nil {
			err = errors.WithMessage(panicErr, "report segment status")
		}
	}()

	sess, err := Connect(ctx, r.resolver, r.dialer, r.opt.RetryDelay)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "connect coordinator")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		closeErr := sess.Close(closeCtx)
		if closeErr == nil {
			return
		}
		closeErr = errors.Wrap(closeErr, "close coordinator session")
		if err != nil {
			err = multierror.Append(err, closeErr)
			return
		}
		log.Warn().Err(closeErr).Msg("failed to close coordinator session")
	}()

	log.Debug().
		Str("local_addr", sess.LocalAddr()).
		Int("content", r.identity.ContentID).
		Msg("registering segment")

	outcome = r.register(ctx, sess)
	if outcome.Kind != Registered {
		return outcome, &FatalError{Outcome: outcome, Identity: r.identity}
	}
	return outcome, nil
}

// register submits the update once. With RetryNotInitialized it keeps
// resubmitting on the same session while no row exists for the segment.
func (r *Reporter) register(ctx context.Context, sess coordinator.Session) Outcome {
	req := BuildRequest(r.opt.ConfigTable, r.identity)
	for {
		outcome := Classify(Submit(ctx, sess, req))
		metric.RegistrationOutcomes.WithLabelValues(outcome.Kind.String()).Inc()

		if outcome.Kind != NotYetInitialized || !r.opt.RetryNotInitialized {
			return outcome
		}
		log.Info().
			Int("content", r.identity.ContentID).
			Dur("retry_after", r.opt.NotInitializedRetryDelay).
			Msg("segment config has not been initialized yet, waiting for coordinator")

		timer := time.NewTimer(r.opt.NotInitializedRetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Outcome{Kind: TransportOrQueryError, Err: ctx.Err()}
		case <-timer.C:
		}
	}
}
