package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

var errFailed = errors.New("failed")

func failTimes(n int) func() (int, error) {
	calls := 0
	return func() (int, error) {
		calls++
		if calls <= n {
			return 0, errFailed
		}
		return calls, nil
	}
}

func TestDoWithResult(t *testing.T) {
	Convey("Given a function failing twice", t, func() {
		fn := failTimes(2)

		Convey("It should succeed within the default retry count", func() {
			v, err := DoWithResult(fn, WithDelay(0))
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 3)
		})

		Convey("It should give up when the retry count is exceeded", func() {
			_, err := DoWithResult(fn, WithRetryCount(2), WithDelay(0))
			So(err, ShouldNotBeNil)
			So(errors.Is(err, errFailed), ShouldBeTrue)
		})
	})

	Convey("Given a function failing many times", t, func() {
		fn := failTimes(50)

		Convey("Unlimited retry should call the hook once per failure", func() {
			var attempts []int
			v, err := DoWithResult(
				fn,
				WithUnlimitedRetry(),
				WithDelay(0),
				WithOnError(func(attempt int, err error) {
					attempts = append(attempts, attempt)
				}),
			)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 51)
			So(attempts, ShouldHaveLength, 50)
			So(attempts[49], ShouldEqual, 50)
		})
	})
}

func TestDoWithResult_Context(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := DoWithResult(func() (int, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return 0, errFailed
	}, WithContext(ctx), WithUnlimitedRetry(), WithDelay(time.Millisecond))

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 3, calls)
}

func TestDo(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 2 {
			return errFailed
		}
		return nil
	}, WithDelay(0))

	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
