package bgworker

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/atomic"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunner_Run(t *testing.T) {
	Convey("Given a list of tasks", t, func() {
		var l List
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		Convey("A never-restart task should run exactly once", func() {
			runs := atomic.NewInt32(0)
			So(l.Register(Task{
				Name:            "reporter",
				StartAt:         ConsistentState,
				RestartInterval: NeverRestart,
				Main: func(context.Context) error {
					runs.Inc()
					return errors.New("fatal")
				},
			}), ShouldBeNil)

			err := NewRunner(&l).Run(ctx, ConsistentState)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "reporter")
			So(runs.Load(), ShouldEqual, 1)
		})

		Convey("A restartable task should be restarted until it succeeds", func() {
			runs := atomic.NewInt32(0)
			So(l.Register(Task{
				Name:            "flaky",
				RestartInterval: time.Millisecond,
				Main: func(context.Context) error {
					if runs.Inc() < 3 {
						return errors.New("not yet")
					}
					return nil
				},
			}), ShouldBeNil)

			r := NewRunner(&l)
			So(r.Run(ctx, PostmasterStart), ShouldBeNil)
			So(runs.Load(), ShouldEqual, 3)
			So(r.Restarts("flaky"), ShouldEqual, 2)
		})

		Convey("A failing task without a restart interval should wait before restarting", func() {
			runs := atomic.NewInt64(0)
			So(l.Register(Task{
				Name: "crashing",
				Main: func(context.Context) error {
					runs.Inc()
					return errors.New("crashed")
				},
			}), ShouldBeNil)

			shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()
			So(NewRunner(&l).Run(shortCtx, PostmasterStart), ShouldNotBeNil)
			So(runs.Load(), ShouldEqual, 1)
		})

		Convey("Tasks should not start before their start phase", func() {
			started := atomic.NewBool(false)
			So(l.Register(Task{
				Name:    "late",
				StartAt: RecoveryFinished,
				Main: func(context.Context) error {
					started.Store(true)
					return nil
				},
			}), ShouldBeNil)

			So(NewRunner(&l).Run(ctx, ConsistentState), ShouldBeNil)
			So(started.Load(), ShouldBeFalse)
		})

		Convey("A failing task should cancel the others", func() {
			So(l.Register(Task{
				Name:            "forever",
				RestartInterval: NeverRestart,
				Main: func(ctx context.Context) error {
					<-ctx.Done()
					return nil
				},
			}), ShouldBeNil)
			So(l.Register(Task{
				Name:            "crash",
				RestartInterval: NeverRestart,
				Main: func(context.Context) error {
					panic("segfault")
				},
			}), ShouldBeNil)

			err := NewRunner(&l).Run(ctx, ConsistentState)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "crash")
		})
	})
}
