package experiment

import (
	"context"
	"maps"
	"time"
)

// Work is the unit of work a task runs.
//
// The context carries the caller's values but is never cancelled by the
// experiment: cancellation stops new dispatch and leaves running work alone.
type Work func(ctx context.Context) (any, error)

// Task pairs a unique id with the work to run for it.
// A Task is treated as immutable once handed to an experiment.
type Task struct {
	// ID identifies the task in the ledger and report
	ID string

	// Work is the function to run for this task
	Work Work

	// Metadata holds the parameters the work was built from (copied at seed time)
	Metadata map[string]any
}

func (t Task) clone() Task {
	t.Metadata = maps.Clone(t.Metadata)
	return t
}

// State is the execution state of a single task
type State string

const (
	// StatePending means the task is queued and not yet claimed
	StatePending State = "pending"
	// StateRunning means a worker claimed the task and is running its work
	StateRunning State = "running"
	// StateSucceeded means the work returned without error
	StateSucceeded State = "succeeded"
	// StateFailed means the work returned an error or panicked
	StateFailed State = "failed"
	// StateCancelled means the experiment stopped before the task finished
	StateCancelled State = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s
func (s State) IsTerminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// String returns the state name
func (s State) String() string {
	return string(s)
}

// Outcome is the ledger entry for one task
type Outcome struct {
	// State is the current (or, in a report, final) state
	State State

	// Value is what the work returned when it succeeded
	Value any

	// Err is the failure captured from the work (nil unless Failed)
	Err error

	// Metadata is the task's own metadata
	Metadata map[string]any

	// Start is when a worker claimed the task (zero if never claimed)
	Start time.Time

	// End is when the terminal state was recorded
	End time.Time
}

// Duration is the time between claim and record, zero if the task never ran
func (o Outcome) Duration() time.Duration {
	if o.Start.IsZero() || o.End.IsZero() {
		return 0
	}
	return o.End.Sub(o.Start)
}
