package reporter

import (
	"github.com/ab180/dbfarmer/segment"
	"github.com/pkg/errors"
)

// FatalError is returned when registration ends in an outcome this process can't recover from.
type FatalError struct {
	Outcome  Outcome
	Identity segment.Identity
}

func (e *FatalError) Error() string {
	if detail := e.Outcome.Detail(); detail != "" {
		return e.Outcome.Message() + ": " + detail
	}
	return e.Outcome.Message()
}

func (e *FatalError) Unwrap() error {
	return e.Outcome.Err
}

// AsFatal returns the FatalError in err's chain, if any.
func AsFatal(err error) (*FatalError, bool) {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
