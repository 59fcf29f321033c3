// Package lifecycle holds the task state machine.
//
// TODO ──start_progress──▶ IN_PROGRESS ──mark_as_done──▶ DONE
//
// DONE is terminal. Administrative overwrites bypass this package entirely.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/employeest/employeest-api/internal/models"
)

// ErrInvalidTransition is returned when the current status does not allow
// the requested transition.
var ErrInvalidTransition = errors.New("invalid status transition")

type Transition string

const (
	StartProgress Transition = "start_progress"
	MarkAsDone    Transition = "mark_as_done"
)

type rule struct {
	from models.TaskStatus
	to   models.TaskStatus
}

var rules = map[Transition]rule{
	StartProgress: {from: models.TaskStatusTodo, to: models.TaskStatusInProgress},
	MarkAsDone:    {from: models.TaskStatusInProgress, to: models.TaskStatusDone},
}

// Change is the set of column values a successful transition writes.
type Change struct {
	From        models.TaskStatus
	To          models.TaskStatus
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// Plan validates t against current and returns the change to apply.
func Plan(current models.TaskStatus, t Transition, now time.Time) (Change, error) {
	r, ok := rules[t]
	if !ok {
		return Change{}, fmt.Errorf("unknown transition %q", t)
	}
	if current != r.from {
		return Change{}, fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, t, current)
	}

	change := Change{From: r.from, To: r.to}
	switch t {
	case StartProgress:
		change.StartedAt = &now
	case MarkAsDone:
		change.CompletedAt = &now
	}
	return change, nil
}

// Terminal reports whether no transition leaves s.
func Terminal(s models.TaskStatus) bool {
	for _, r := range rules {
		if r.from == s {
			return false
		}
	}
	return true
}

// Message is the human readable outcome reported to API callers.
func Message(t Transition, ok bool) string {
	switch {
	case t == StartProgress && ok:
		return "Task moved to In Progress"
	case t == StartProgress:
		return "Task cannot be moved to In Progress from current state"
	case t == MarkAsDone && ok:
		return "Task marked as Done"
	default:
		return "Task cannot be marked as Done from current state"
	}
}
