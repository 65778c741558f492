package reporter

import (
	"time"

	"github.com/creasty/defaults"
)

type Options struct {
	// ConfigTable is the cluster configuration table holding one row per content id.
	ConfigTable string `default:"gp_segment_configuration"`

	// RetryDelay is the pause between connection attempts. Zero retries immediately.
	RetryDelay time.Duration

	// RetryNotInitialized resubmits the update on the same session while the
	// coordinator has no row for this segment yet, instead of failing.
	RetryNotInitialized bool `default:"false"`

	NotInitializedRetryDelay time.Duration `default:"1s"`
}

func DefaultOptions() (o Options) {
	if err := defaults.Set(&o); err != nil {
		panic(err)
	}
	return
}
