package integration

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ab180/dbfarmer/coordinator"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/thoas/go-funk"
)

const (
	coordinatorHostEnvKey = "DBFARMER_TEST_COORDINATOR_HOST"
	coordinatorPortEnvKey = "DBFARMER_TEST_COORDINATOR_PORT"
	coordinatorUserEnvKey = "DBFARMER_TEST_COORDINATOR_USER"
)

// Coordinator is a plain Postgres server standing in for the coordinator.
// It has no utility mode, so sessions are opened without startup options.
type Coordinator struct {
	Endpoint coordinator.Endpoint
	Options  coordinator.Options

	// Table is a scratch configuration table, dropped on close.
	Table string

	admin coordinator.Session
}

// ProvideCoordinator connects to the test Postgres server and creates a scratch configuration table.
func ProvideCoordinator(ctx context.Context) (*Coordinator, func()) {
	ep := coordinator.Endpoint{Host: "127.0.0.1", Port: 5432}
	if host, ok := os.LookupEnv(coordinatorHostEnvKey); ok {
		ep.Host = host
	}
	if port, ok := os.LookupEnv(coordinatorPortEnvKey); ok {
		p, err := strconv.Atoi(port)
		So(err, ShouldBeNil)
		ep.Port = p
	}
	opt := coordinator.DefaultOptions()
	opt.SessionOptions = ""
	opt.SSLMode = "disable"
	opt.User = os.Getenv(coordinatorUserEnvKey)

	admin, err := coordinator.NewDialer(opt).Dial(ctx, ep)
	So(err, ShouldBeNil)

	c := &Coordinator{
		Endpoint: ep,
		Options:  opt,
		Table:    "dbfarmer_test_" + strings.ToLower(funk.RandomString(8, []rune("abcdefghijklmnopqrstuvwxyz"))),
		admin:    admin,
	}
	_, err = admin.Query(ctx, fmt.Sprintf(
		`CREATE TABLE %s (dbid int, content int, role text, hostname text, address text, port int)`, c.Table))
	So(err, ShouldBeNil)

	return c, func() {
		_, err := admin.Query(context.Background(), "DROP TABLE IF EXISTS "+c.Table)
		So(err, ShouldBeNil)
		So(admin.Close(context.Background()), ShouldBeNil)
	}
}

// SeedSegment inserts an uninitialized configuration row for the content id.
func (c *Coordinator) SeedSegment(ctx context.Context, content int) {
	_, err := c.admin.Query(ctx, fmt.Sprintf(`INSERT INTO %s (dbid, content, role) VALUES (0, $1, 'p')`, c.Table), content)
	So(err, ShouldBeNil)
}
