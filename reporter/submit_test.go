package reporter

import (
	"context"
	"strings"
	"testing"

	"github.com/ab180/dbfarmer/segment"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	req := BuildRequest("gp_segment_configuration", segment.Identity{DBID: 4, ContentID: 2, Port: 7003})

	require.Equal(t,
		`UPDATE "gp_segment_configuration" SET dbid = $1, `+
			`hostname = host(inet_client_addr()), address = host(inet_client_addr()), `+
			`port = $2 WHERE content = $3 RETURNING *`,
		req.SQL,
	)
	require.Equal(t, []interface{}{4, 7003, 2}, req.Args)
}

func TestBuildRequest_SchemaQualifiedTable(t *testing.T) {
	req := BuildRequest("pg_catalog.gp_segment_configuration", segment.Identity{DBID: 2, ContentID: 0, Port: 7000})
	require.True(t, strings.HasPrefix(req.SQL, `UPDATE "pg_catalog"."gp_segment_configuration" SET`))
}

// The registered address must come from what the coordinator observes on the
// session. Nothing in the request may carry an address of the segment's own choosing.
func TestBuildRequest_AddressComesFromObservedPeer(t *testing.T) {
	for dbid := 1; dbid <= 8; dbid++ {
		for content := 0; content < 8; content++ {
			for _, port := range []int{1, 6000, 7002, 65535} {
				id := segment.Identity{DBID: dbid, ContentID: content, Port: port}
				req := BuildRequest("gp_segment_configuration", id)

				require.Contains(t, req.SQL, "hostname = host(inet_client_addr())")
				require.Contains(t, req.SQL, "address = host(inet_client_addr())")
				require.Equal(t, 1, strings.Count(req.SQL, "WHERE content = $3"))
				require.Len(t, req.Args, 3)
				for _, arg := range req.Args {
					_, isInt := arg.(int)
					require.True(t, isInt, "argument %v must not be an address", arg)
				}
			}
		}
	}
}

func TestSubmit(t *testing.T) {
	sess := newFakeSession().withRows(2, 1)
	id := segment.Identity{DBID: 4, ContentID: 2, Port: 7003}

	res := Submit(context.Background(), sess, BuildRequest("gp_segment_configuration", id))
	require.NoError(t, res.Err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "10.0.0.7", res.Rows[0]["address"])
	require.Equal(t, 7003, res.Rows[0]["port"])
	require.Len(t, sess.queries, 1)
}
