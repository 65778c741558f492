package reporter

import (
	"fmt"

	"github.com/ab180/dbfarmer/coordinator"
)

// OutcomeKind classifies a registration attempt.
type OutcomeKind int

const (
	// Registered means exactly one row was updated.
	Registered OutcomeKind = iota

	// NotYetInitialized means the coordinator has no row for the segment's content id yet.
	NotYetInitialized

	// Duplicate means more than one row claims the segment's content id.
	Duplicate

	// TransportOrQueryError means the request failed before producing rows.
	TransportOrQueryError
)

func (k OutcomeKind) String() string {
	switch k {
	case Registered:
		return "registered"
	case NotYetInitialized:
		return "not_initialized"
	case Duplicate:
		return "duplicate"
	case TransportOrQueryError:
		return "error"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the classified result of one submission.
type Outcome struct {
	Kind OutcomeKind

	// Row is the updated row. Only set when Kind is Registered.
	Row coordinator.Row

	RowCount int

	// Err is the transport or query error. Only set when Kind is TransportOrQueryError.
	Err error
}

// Classify decides the outcome of a submission from its raw result.
func Classify(res Result) Outcome {
	if res.Err != nil {
		return Outcome{Kind: TransportOrQueryError, Err: res.Err}
	}
	switch n := len(res.Rows); {
	case n == 1:
		return Outcome{Kind: Registered, Row: res.Rows[0], RowCount: 1}
	case n == 0:
		return Outcome{Kind: NotYetInitialized}
	default:
		return Outcome{Kind: Duplicate, RowCount: n}
	}
}

// Message describes the outcome for operators.
func (o Outcome) Message() string {
	switch o.Kind {
	case Registered:
		return "segment status reported"
	case NotYetInitialized:
		return "segment config has not been initialized yet"
	case Duplicate:
		return "segment config is duplicated"
	default:
		return "error reporting segment status to coordinator"
	}
}

// Detail returns extra information on a failed outcome.
func (o Outcome) Detail() string {
	switch o.Kind {
	case Duplicate:
		return fmt.Sprintf("%d rows matched", o.RowCount)
	case TransportOrQueryError:
		if o.Err != nil {
			return o.Err.Error()
		}
	}
	return ""
}
