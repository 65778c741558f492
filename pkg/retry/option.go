package retry

import (
	"context"
	"time"
)

type option struct {
	ctx           context.Context
	maxRetryCount int
	delay         time.Duration
	onError       func(attempt int, err error)
}

func defaultOption() option {
	return option{
		ctx:           context.Background(),
		maxRetryCount: 3,
		delay:         200 * time.Millisecond,
	}
}

// OptionFunc is a function that sets an option.
type OptionFunc func(*option)

// WithRetryCount sets the maximum number of retries.
// A count less than or equal to zero retries forever.
func WithRetryCount(count int) OptionFunc {
	return func(o *option) {
		o.maxRetryCount = count
	}
}

// WithUnlimitedRetry makes the function retried until it succeeds or the context ends.
func WithUnlimitedRetry() OptionFunc {
	return WithRetryCount(0)
}

// WithDelay sets the delay between retries. Zero retries immediately.
func WithDelay(delay time.Duration) OptionFunc {
	return func(o *option) {
		o.delay = delay
	}
}

// WithContext stops retrying once the context is done.
func WithContext(ctx context.Context) OptionFunc {
	return func(o *option) {
		o.ctx = ctx
	}
}

// WithOnError registers a hook called once for every failed attempt.
// attempt starts from 1.
func WithOnError(fn func(attempt int, err error)) OptionFunc {
	return func(o *option) {
		o.onError = fn
	}
}
