package main

import (
	"strconv"

	"github.com/ab180/dbfarmer"
	"github.com/ab180/dbfarmer/internal/logutils"
	"github.com/ab180/dbfarmer/segment"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Environment variables set by the cluster launcher for the coordinator address.
const (
	coordinatorHostEnvKey = "CLUSTER_COORDINATOR_HOST"
	coordinatorPortEnvKey = "CLUSTER_COORDINATOR_PORT"
)

var errConfig = errors.New("configuration error")

func configError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(errConfig, err.Error())
}

type config struct {
	opt dbfarmer.Options

	logFormat string
	logLevel  string
	role      string

	// envErr is an invalid environment value, reported once a command runs.
	envErr error
}

// loadConfig starts from the defaults and applies the launcher's environment.
// Flags bound afterwards take precedence.
func loadConfig(lookup func(string) (string, bool)) *config {
	c := &config{
		opt:       dbfarmer.DefaultOptions(),
		logFormat: logutils.FormatConsole,
		logLevel:  "info",
		role:      "execute",
	}
	if host, ok := lookup(coordinatorHostEnvKey); ok {
		c.opt.Coordinator.Host = host
	}
	envInts := map[string]*int{
		coordinatorPortEnvKey: &c.opt.Coordinator.Port,
		segment.DBIDEnvKey:    &c.opt.Identity.DBID,
		segment.ContentEnvKey: &c.opt.Identity.ContentID,
		segment.PortEnvKey:    &c.opt.Identity.Port,
	}
	for key, dst := range envInts {
		raw, ok := lookup(key)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil && c.envErr == nil {
			c.envErr = errors.Wrapf(err, "parse %s", key)
			continue
		}
		*dst = v
	}
	return c
}

func (c *config) bindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	opt := &c.opt

	f.StringVar(&opt.Coordinator.Host, "coordinator-host", opt.Coordinator.Host, "coordinator host ($"+coordinatorHostEnvKey+")")
	f.IntVar(&opt.Coordinator.Port, "coordinator-port", opt.Coordinator.Port, "coordinator port ($"+coordinatorPortEnvKey+")")

	f.IntVar(&opt.Identity.DBID, "dbid", opt.Identity.DBID, "dbid of this segment ($"+segment.DBIDEnvKey+")")
	f.IntVar(&opt.Identity.ContentID, "content", opt.Identity.ContentID, "content id of this segment ($"+segment.ContentEnvKey+")")
	f.IntVar(&opt.Identity.Port, "port", opt.Identity.Port, "port this segment listens on ($"+segment.PortEnvKey+")")

	f.StringVar(&opt.Connection.Database, "db-name", opt.Connection.Database, "database to connect to on the coordinator")
	f.StringVar(&opt.Connection.User, "db-user", opt.Connection.User, "user to connect as, defaults to $PGUSER or the OS user")
	f.StringVar(&opt.Connection.SessionOptions, "session-options", opt.Connection.SessionOptions, "options sent at session startup")
	f.StringVar(&opt.Connection.SSLMode, "sslmode", opt.Connection.SSLMode, "libpq sslmode")
	f.DurationVar(&opt.Connection.ConnectTimeout, "connect-timeout", opt.Connection.ConnectTimeout, "timeout of a single connection attempt, 0 for none")
	f.StringSliceVar(&opt.Connection.Etcd.Endpoints, "etcd-endpoints", opt.Connection.Etcd.Endpoints, "discover the coordinator through these etcd endpoints")
	f.StringVar(&opt.Connection.Etcd.Namespace, "etcd-namespace", opt.Connection.Etcd.Namespace, "etcd key prefix")

	f.StringVar(&opt.Reporter.ConfigTable, "config-table", opt.Reporter.ConfigTable, "cluster configuration table")
	f.DurationVar(&opt.Reporter.RetryDelay, "retry-delay", opt.Reporter.RetryDelay, "delay between connection attempts")
	f.BoolVar(&opt.Reporter.RetryNotInitialized, "retry-not-initialized", opt.Reporter.RetryNotInitialized,
		"wait for the coordinator to create this segment's row instead of failing")
	f.DurationVar(&opt.Reporter.NotInitializedRetryDelay, "not-initialized-retry-delay", opt.Reporter.NotInitializedRetryDelay,
		"delay between submissions with --retry-not-initialized")

	f.StringVar(&opt.PushgatewayURL, "pushgateway-url", opt.PushgatewayURL, "push metrics to this Prometheus Pushgateway before exiting")

	f.StringVar(&c.logFormat, "log-format", c.logFormat, "log format: console or json")
	f.StringVar(&c.logLevel, "log-level", c.logLevel, "log level")
}
