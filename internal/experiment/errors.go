package experiment

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Configuration errors, returned before any task runs.
var (
	// ErrDuplicateTaskID indicates two tasks share an id
	ErrDuplicateTaskID = errors.New("duplicate task id")

	// ErrInvalidParallelism indicates max parallelism below 1
	ErrInvalidParallelism = errors.New("invalid parallelism")

	// ErrInvalidTask indicates a task without an id or work function
	ErrInvalidTask = errors.New("invalid task")
)

// Engine invariant violations. These indicate a programming error and are
// not expected during correct operation.
var (
	// ErrAlreadyClaimed indicates a task was claimed more than once
	ErrAlreadyClaimed = errors.New("task already claimed")

	// ErrDoubleRecord indicates an outcome was recorded for a terminal task
	ErrDoubleRecord = errors.New("outcome already recorded")

	// ErrNotRunning indicates an outcome was recorded for a task nobody claimed
	ErrNotRunning = errors.New("task is not running")

	// ErrUnknownTask indicates an id that was never seeded
	ErrUnknownTask = errors.New("unknown task")

	// ErrAlreadyRun indicates Run or Start was called twice on one experiment
	ErrAlreadyRun = errors.New("experiment already run")
)

// errHalted is returned by claim once the ledger stopped dispatching.
var errHalted = errors.New("dispatch halted")

// TaskError wraps an error with the id of the task it concerns
type TaskError struct {
	TaskID string
	Err    error
}

// Error implements the error interface
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q: %v", e.TaskID, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *TaskError) Unwrap() error {
	return e.Err
}

func taskError(id string, err error) error {
	return &TaskError{TaskID: id, Err: err}
}

// PanicError is recorded as the failure of a task whose work panicked
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}
