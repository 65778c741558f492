package coordinator

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no coordinator endpoint has been announced yet.
var ErrNotFound = errors.New("coordinator endpoint not found")

// Resolver locates the coordinator.
type Resolver interface {
	Resolve(ctx context.Context) (Endpoint, error)
}

// Directory is a shared place where the coordinator announces its endpoint
// and workers look it up.
type Directory interface {
	Resolver

	// Announce publishes the endpoint, replacing the previous one.
	Announce(ctx context.Context, ep Endpoint) error

	Close() error
}

// Dialer opens administrative sessions to the coordinator.
type Dialer interface {
	Dial(ctx context.Context, ep Endpoint) (Session, error)
}

// Session is a live administrative session to the coordinator.
// It is not safe for concurrent use.
type Session interface {
	// Query runs a statement and returns every row it produced.
	Query(ctx context.Context, sql string, args ...interface{}) ([]Row, error)

	// LocalAddr returns the client side address of the session, which is
	// what the coordinator observes as the peer address.
	LocalAddr() string

	Close(ctx context.Context) error
}
