package bgworker

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/therne/errorist"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// Runner runs the tasks of a List.
type Runner struct {
	list     *List
	restarts sync.Map
}

func NewRunner(l *List) *Runner {
	return &Runner{list: l}
}

// Run starts every task whose start phase has been reached and waits for all
// of them to finish. The first task failing for good cancels the others, and
// its error is returned.
func (r *Runner) Run(ctx context.Context, phase StartPhase) error {
	wg, ctx := errgroup.WithContext(ctx)
	for _, t := range r.list.Tasks() {
		if t.StartAt > phase {
			log.Debug().
				Str("task", t.Name).
				Msg("start phase not reached, skipping task")
			continue
		}
		t := t
		r.restarts.Store(t.Name, atomic.NewInt64(0))
		wg.Go(func() error {
			return r.supervise(ctx, t)
		})
	}
	return wg.Wait()
}

// Restarts returns how many times the task has been restarted.
func (r *Runner) Restarts(name string) int64 {
	v, ok := r.restarts.Load(name)
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

func (r *Runner) supervise(ctx context.Context, t Task) error {
	for {
		err := runTask(ctx, t)
		if err == nil {
			log.Debug().Str("task", t.Name).Msg("task finished")
			return nil
		}
		if t.RestartInterval == NeverRestart || ctx.Err() != nil {
			return errors.WithMessagef(err, "task %s", t.Name)
		}

		log.Warn().
			Err(err).
			Str("task", t.Name).
			Dur("restart_after", t.RestartInterval).
			Msg("task exited with error, restarting")

		select {
		case <-ctx.Done():
			return errors.WithMessagef(err, "task %s", t.Name)
		case <-time.After(t.RestartInterval):
		}
		if v, ok := r.restarts.Load(t.Name); ok {
			v.(*atomic.Int64).Inc()
		}
	}
}

func runTask(ctx context.Context, t Task) (err error) {
	defer func() {
		if panicErr := errorist.WrapPanic(recover()); panicErr != nil {
			err = panicErr
		}
	}()
	return t.Main(ctx)
}
