package retry

import (
	"errors"
	"fmt"
	"time"
)

// DoWithResult do a given function with retry.
func DoWithResult[T any](fn func() (T, error), opts ...OptionFunc) (T, error) {
	opt := defaultOption()
	for _, o := range opts {
		o(&opt)
	}

	var retryCount int
	for {
		if ctxErr := opt.ctx.Err(); ctxErr != nil {
			var zero T
			return zero, ctxErr
		}

		t, err := fn()
		if err == nil {
			return t, nil
		}

		retryCount++
		if opt.onError != nil {
			opt.onError(retryCount, err)
		}
		if opt.maxRetryCount > 0 && retryCount >= opt.maxRetryCount {
			return t, errors.Join(err, fmt.Errorf("retry count exceeded: %d", retryCount))
		}
		if err := wait(opt); err != nil {
			return t, err
		}
	}
}

// Do do a given function with retry.
func Do(fn func() error, opts ...OptionFunc) error {
	_, err := DoWithResult(func() (struct{}, error) {
		return struct{}{}, fn()
	}, opts...)
	return err
}

func wait(opt option) error {
	if opt.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(opt.delay)
	defer timer.Stop()

	select {
	case <-opt.ctx.Done():
		return opt.ctx.Err()
	case <-timer.C:
		return nil
	}
}
