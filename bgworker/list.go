package bgworker

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrDuplicateTask is returned when a task with the same name is already registered.
var ErrDuplicateTask = errors.New("task already registered")

// List owns the tasks registered to the host, in registration order.
type List struct {
	tasks []Task
}

func (l *List) Register(t Task) error {
	if t.Name == "" {
		return errors.New("task name is empty")
	}
	if t.Main == nil {
		return errors.Errorf("task %s has no main function", t.Name)
	}
	for _, registered := range l.tasks {
		if registered.Name == t.Name {
			return errors.Wrap(ErrDuplicateTask, t.Name)
		}
	}
	if t.RestartInterval < 0 && t.RestartInterval != NeverRestart {
		return errors.Errorf("task %s has a negative restart interval", t.Name)
	}
	if t.RestartInterval == 0 {
		t.RestartInterval = DefaultRestartInterval
	}
	if t.Type == "" {
		t.Type = t.Name
	}
	l.tasks = append(l.tasks, t)
	return nil
}

// Remove unregisters the first task with the given name.
// It reports whether a task was removed.
func (l *List) Remove(name string) bool {
	for i, t := range l.tasks {
		if t.Name == name {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Tasks returns a copy of the registered tasks.
func (l *List) Tasks() []Task {
	tasks := make([]Task, len(l.tasks))
	copy(tasks, l.tasks)
	return tasks
}

func (l *List) Names() []string {
	return lo.Map(l.tasks, func(t Task, _ int) string {
		return t.Name
	})
}

func (l *List) Len() int {
	return len(l.tasks)
}
