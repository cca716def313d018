package experiment

import (
	"fmt"
	"maps"
	"sync"
	"time"
)

// ledger is the single source of truth for per-task state.
//
// Every operation takes the mutex for a bounded critical section; no lock is
// held while a task's work runs. The key set is fixed by seed.
type ledger struct {
	mu        sync.Mutex
	tasks     map[string]Task
	entries   map[string]*Outcome
	order     []string
	completed int

	// haltOnFailure makes recording a failure and halting one atomic step
	haltOnFailure bool
	halted        bool
	haltReason    string
	haltCh        chan struct{}

	now func() time.Time
}

func newLedger(haltOnFailure bool) *ledger {
	return &ledger{
		tasks:         make(map[string]Task),
		entries:       make(map[string]*Outcome),
		haltOnFailure: haltOnFailure,
		haltCh:        make(chan struct{}),
		now:           time.Now,
	}
}

// seed inserts every task as pending. It fails before inserting anything if
// an id repeats.
func (l *ledger) seed(tasks []Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return taskError(t.ID, ErrDuplicateTaskID)
		}
		seen[t.ID] = struct{}{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) > 0 {
		return fmt.Errorf("ledger already seeded with %d tasks", len(l.entries))
	}

	l.order = make([]string, 0, len(tasks))
	for _, t := range tasks {
		t = t.clone()
		l.tasks[t.ID] = t
		l.entries[t.ID] = &Outcome{State: StatePending, Metadata: t.Metadata}
		l.order = append(l.order, t.ID)
	}
	return nil
}

// claim moves a pending task to running and hands it to the caller.
// It returns errHalted once dispatch stopped; the task stays pending.
func (l *ledger) claim(id string) (Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		return Task{}, taskError(id, ErrUnknownTask)
	}
	if e.State != StatePending {
		return Task{}, taskError(id, ErrAlreadyClaimed)
	}
	if l.halted {
		return Task{}, errHalted
	}

	e.State = StateRunning
	e.Start = l.now()
	return l.tasks[id], nil
}

// record stores the terminal outcome of a running task and returns it with
// the number of terminal tasks so far. Recording for a task that is not
// running panics.
func (l *ledger) record(id string, state State, value any, err error) (Outcome, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		panic(taskError(id, ErrUnknownTask))
	}
	if e.State.IsTerminal() {
		panic(taskError(id, ErrDoubleRecord))
	}
	if e.State != StateRunning {
		panic(taskError(id, ErrNotRunning))
	}
	if !state.IsTerminal() {
		panic(fmt.Errorf("task %q: cannot record non-terminal state %s", id, state))
	}

	e.State = state
	e.Value = value
	e.Err = err
	e.End = l.now()
	l.completed++

	if state == StateFailed && l.haltOnFailure {
		l.haltLocked(fmt.Sprintf("task %q failed", id))
	}
	return *e, l.completed
}

// cancel moves a task that never started to cancelled.
func (l *ledger) cancel(id string) (Outcome, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		return Outcome{}, l.completed, taskError(id, ErrUnknownTask)
	}
	if e.State != StatePending {
		return Outcome{}, l.completed, taskError(id, ErrAlreadyClaimed)
	}

	e.State = StateCancelled
	e.End = l.now()
	l.completed++
	return *e, l.completed, nil
}

// halt stops further claims. Only the first call has an effect.
func (l *ledger) halt(reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.haltLocked(reason)
}

func (l *ledger) haltLocked(reason string) {
	if l.halted {
		return
	}
	l.halted = true
	l.haltReason = reason
	close(l.haltCh)
}

// haltedC is closed when dispatch halts.
func (l *ledger) haltedC() <-chan struct{} {
	return l.haltCh
}

func (l *ledger) reason() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.haltReason
}

// snapshot returns a copy of every entry.
func (l *ledger) snapshot() map[string]Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := make(map[string]Outcome, len(l.entries))
	for id, e := range l.entries {
		o := *e
		o.Metadata = maps.Clone(e.Metadata)
		snap[id] = o
	}
	return snap
}

// ids returns the seeded ids in configuration order.
func (l *ledger) ids() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

func (l *ledger) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
