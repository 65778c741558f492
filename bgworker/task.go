// Package bgworker is the contract with the host process supervisor: a list of
// named background tasks, each started once the host reaches its start phase
// and restarted according to its restart policy.
package bgworker

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Role is the role of the host process in the cluster.
type Role int

const (
	// RoleUtility is a standalone process outside of the cluster.
	RoleUtility Role = iota

	// RoleDispatch is the coordinator.
	RoleDispatch

	// RoleExecute is a segment.
	RoleExecute
)

func (r Role) String() string {
	switch r {
	case RoleDispatch:
		return "dispatch"
	case RoleExecute:
		return "execute"
	default:
		return "utility"
	}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "utility":
		return RoleUtility, nil
	case "dispatch", "coordinator":
		return RoleDispatch, nil
	case "execute", "segment":
		return RoleExecute, nil
	}
	return RoleUtility, errors.Errorf("unknown role %q", s)
}

// StartPhase is the point of host startup after which a task may start.
type StartPhase int

const (
	PostmasterStart StartPhase = iota

	// ConsistentState is reached once the host has a consistent internal state.
	ConsistentState

	RecoveryFinished
)

// NeverRestart is the restart interval of tasks that must run at most once.
const NeverRestart time.Duration = -1

// DefaultRestartInterval is used for tasks registered without a restart interval.
const DefaultRestartInterval = time.Second

// Task is a named background task.
type Task struct {
	Name string
	Type string

	StartAt StartPhase

	// RestartInterval is the delay before a failed task is restarted.
	// NeverRestart disables restarting, zero means DefaultRestartInterval.
	// A task returning nil is never restarted.
	RestartInterval time.Duration

	Main func(ctx context.Context) error
}
