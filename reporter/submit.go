package reporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/ab180/dbfarmer/coordinator"
	"github.com/ab180/dbfarmer/segment"
	"github.com/jackc/pgx/v5"
)

// registerStatement updates the segment's configuration row. hostname and
// address are taken from the client address the coordinator observes on the
// session, so a segment cannot register an address the coordinator can't reach.
const registerStatement = "UPDATE %s SET " +
	"dbid = $1, " +
	"hostname = host(inet_client_addr()), " +
	"address = host(inet_client_addr()), " +
	"port = $2 " +
	"WHERE content = $3 " +
	"RETURNING *"

// Request is a parameterized statement sent to the coordinator.
type Request struct {
	SQL  string
	Args []interface{}
}

// BuildRequest builds the update registering the identity in the given configuration table.
func BuildRequest(configTable string, id segment.Identity) Request {
	table := pgx.Identifier(strings.Split(configTable, ".")).Sanitize()
	return Request{
		SQL:  fmt.Sprintf(registerStatement, table),
		Args: []interface{}{id.DBID, id.Port, id.ContentID},
	}
}

// Result is the raw result of a submission.
type Result struct {
	Rows []coordinator.Row
	Err  error
}

// Submit sends the request once on the session.
func Submit(ctx context.Context, sess coordinator.Session, req Request) Result {
	rows, err := sess.Query(ctx, req.SQL, req.Args...)
	return Result{Rows: rows, Err: err}
}
