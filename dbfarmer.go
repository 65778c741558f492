// Package dbfarmer wires a segment's self-registration into the host's
// background tasks.
package dbfarmer

import (
	"context"
	"io"
	"time"

	"github.com/ab180/dbfarmer/bgworker"
	"github.com/ab180/dbfarmer/coordinator"
	"github.com/ab180/dbfarmer/metric"
	"github.com/ab180/dbfarmer/reporter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	ReporterTaskName  = "dbfarmer reporter"
	AnnouncerTaskName = "dbfarmer announcer"

	// FTSProbeTaskName is the host's default fault probe. It would mark
	// segments down before they have registered themselves.
	FTSProbeTaskName = "FtsProbeMain"
)

const announceRestartInterval = 5 * time.Second

type deps struct {
	dialer    coordinator.Dialer
	directory coordinator.Directory
}

// Option overrides a dependency of the tasks.
type Option func(*deps)

// WithDialer sets the dialer used to open coordinator sessions.
func WithDialer(d coordinator.Dialer) Option {
	return func(o *deps) {
		o.dialer = d
	}
}

// WithDirectory sets the directory the coordinator endpoint is announced to and resolved from.
func WithDirectory(dir coordinator.Directory) Option {
	return func(o *deps) {
		o.directory = dir
	}
}

// Setup adjusts the host's task list for the role, once at host start.
// On the coordinator the default fault probe is removed and, when discovery
// is configured, an announcer publishing the coordinator endpoint is added.
// On segments the reporter is registered to run once the host is consistent.
func Setup(role bgworker.Role, tasks *bgworker.List, opt Options, options ...Option) error {
	switch role {
	case bgworker.RoleDispatch:
		if tasks.Remove(FTSProbeTaskName) {
			log.Info().Str("task", FTSProbeTaskName).Msg("removed default fault probe task")
		}
		if !opt.UsesDiscovery() && buildDeps(opt, options).directory == nil {
			return nil
		}
		if err := opt.Coordinator.Validate(); err != nil {
			return errors.Wrap(ErrInvalidOptions, err.Error())
		}
		return tasks.Register(bgworker.Task{
			Name:            AnnouncerTaskName,
			StartAt:         bgworker.ConsistentState,
			RestartInterval: announceRestartInterval,
			Main: func(ctx context.Context) error {
				return Announce(ctx, opt, options...)
			},
		})

	case bgworker.RoleExecute:
		if err := validate(opt, buildDeps(opt, options)); err != nil {
			return err
		}
		return tasks.Register(bgworker.Task{
			Name:            ReporterTaskName,
			StartAt:         bgworker.ConsistentState,
			RestartInterval: bgworker.NeverRestart,
			Main: func(ctx context.Context) error {
				_, err := Report(ctx, opt, options...)
				return err
			},
		})
	}
	return nil
}

func buildDeps(opt Options, options []Option) deps {
	d := deps{dialer: coordinator.NewDialer(opt.Connection)}
	for _, o := range options {
		o(&d)
	}
	return d
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

// NewReporter builds a reporter from the options. The returned closer
// releases the discovery client, if any.
func NewReporter(opt Options, options ...Option) (*reporter.Reporter, io.Closer, error) {
	d := buildDeps(opt, options)
	if err := validate(opt, d); err != nil {
		return nil, nil, err
	}

	var (
		resolver coordinator.Resolver = opt.Coordinator
		closer   io.Closer            = closerFunc(func() error { return nil })
	)
	switch {
	case d.directory != nil:
		resolver = d.directory
	case opt.UsesDiscovery():
		etcd, err := coordinator.OpenEtcd(opt.Connection.Etcd)
		if err != nil {
			return nil, nil, err
		}
		resolver, closer = etcd, etcd
	}
	return reporter.New(resolver, d.dialer, opt.Identity, opt.Reporter), closer, nil
}

// Report registers the segment with the coordinator once.
func Report(ctx context.Context, opt Options, options ...Option) (reporter.Outcome, error) {
	r, closer, err := NewReporter(opt, options...)
	if err != nil {
		return reporter.Outcome{}, err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close coordinator directory")
		}
	}()

	outcome, err := r.Run(ctx)
	if opt.PushgatewayURL != "" {
		if pushErr := metric.Push(opt.PushgatewayURL, opt.Identity); pushErr != nil {
			log.Warn().Err(pushErr).Msg("failed to push metrics")
		}
	}
	return outcome, err
}

// Announce publishes the coordinator endpoint so segments can discover it.
func Announce(ctx context.Context, opt Options, options ...Option) error {
	dir := buildDeps(opt, options).directory
	if dir == nil {
		etcd, err := coordinator.OpenEtcd(opt.Connection.Etcd)
		if err != nil {
			return err
		}
		defer etcd.Close()
		dir = etcd
	}
	if err := dir.Announce(ctx, opt.Coordinator); err != nil {
		return errors.Wrapf(err, "announce coordinator %s", opt.Coordinator)
	}
	log.Info().Str("endpoint", opt.Coordinator.String()).Msg("announced coordinator endpoint")
	return nil
}
