package dbfarmer

import (
	"github.com/ab180/dbfarmer/coordinator"
	"github.com/ab180/dbfarmer/reporter"
	"github.com/ab180/dbfarmer/segment"
	"github.com/creasty/defaults"
	"github.com/pkg/errors"
)

// ErrInvalidOptions is wrapped by every validation error of Options.
var ErrInvalidOptions = errors.New("invalid options")

type Options struct {
	// Coordinator is where the coordinator listens. It is ignored when etcd
	// endpoints are configured, in which case the announced endpoint is used.
	Coordinator coordinator.Endpoint

	// Identity is this segment's identity, given by the cluster launcher.
	Identity segment.Identity

	Connection coordinator.Options
	Reporter   reporter.Options

	// PushgatewayURL is where metrics are pushed before exiting. Empty disables pushing.
	PushgatewayURL string
}

func DefaultOptions() (o Options) {
	if err := defaults.Set(&o); err != nil {
		panic(err)
	}
	return
}

// UsesDiscovery reports whether the coordinator is discovered through etcd.
func (o Options) UsesDiscovery() bool {
	return len(o.Connection.Etcd.Endpoints) > 0
}

// Validate checks the options needed to register a segment.
func (o Options) Validate() error {
	return validate(o, deps{})
}

func validate(o Options, d deps) error {
	if d.directory == nil && !o.UsesDiscovery() {
		if err := o.Coordinator.Validate(); err != nil {
			return errors.Wrap(ErrInvalidOptions, err.Error())
		}
	}
	if err := o.Identity.Validate(); err != nil {
		return errors.Wrap(ErrInvalidOptions, err.Error())
	}
	return nil
}
