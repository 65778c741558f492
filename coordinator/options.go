package coordinator

import (
	"time"

	"github.com/creasty/defaults"
)

type Options struct {
	Database string `default:"postgres"`
	User     string

	// SessionOptions are passed as the "options" startup parameter.
	// The defaults open a utility mode session that may modify system catalogs.
	SessionOptions string `default:"-c gp_role=utility -c allow_system_table_mods=true"`

	SSLMode string `default:"prefer"`

	// ConnectTimeout bounds a single connection attempt. Zero means no timeout.
	ConnectTimeout time.Duration

	Etcd EtcdOptions
}

func DefaultOptions() (o Options) {
	if err := defaults.Set(&o); err != nil {
		panic(err)
	}
	return
}
