package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Phase is the lifecycle state of an experiment as a whole
type Phase int32

const (
	// PhaseNotStarted is the state before Run or Start
	PhaseNotStarted Phase = iota
	// PhaseRunning means tasks are being dispatched
	PhaseRunning
	// PhaseDraining means dispatch stopped and running tasks are finishing
	PhaseDraining
	// PhaseDone means every task is terminal and the report exists
	PhaseDone
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseRunning:
		return "running"
	case PhaseDraining:
		return "draining"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// ResultHandler receives every terminal outcome. Calls are serialized on a
// single goroutine, so a handler may update shared state without locking.
type ResultHandler func(id string, outcome Outcome)

// Config describes an experiment
type Config struct {
	// Tasks are dispatched in this order; ids must be unique
	Tasks []Task

	// MaxParallelism bounds how many tasks run at once (>= 1)
	MaxParallelism int

	// FailFast stops dispatching new tasks after the first failure
	FailFast bool

	// Timeout, when positive, drains the experiment after this wall-clock time
	Timeout time.Duration

	// Reporter is notified on every terminal transition (optional)
	Reporter Reporter

	// OnResult is called serially with every outcome (optional)
	OnResult ResultHandler

	// Logger for structured logging (defaults to slog.Default())
	Logger *slog.Logger
}

// Validate checks the configuration without running anything
func (c Config) Validate() error {
	if c.MaxParallelism < 1 {
		return fmt.Errorf("%w: max parallelism must be at least 1, got %d", ErrInvalidParallelism, c.MaxParallelism)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	seen := make(map[string]struct{}, len(c.Tasks))
	for i, t := range c.Tasks {
		if t.ID == "" {
			return fmt.Errorf("%w: task at position %d has no id", ErrInvalidTask, i)
		}
		if t.Work == nil {
			return taskError(t.ID, fmt.Errorf("%w: no work function", ErrInvalidTask))
		}
		if _, dup := seen[t.ID]; dup {
			return taskError(t.ID, ErrDuplicateTaskID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// Experiment runs a fixed set of independent tasks concurrently.
// An Experiment runs at most once.
type Experiment struct {
	tasks          []Task
	maxParallelism int
	failFast       bool
	timeout        time.Duration
	reporter       Reporter
	onResult       ResultHandler
	logger         *slog.Logger

	started atomic.Bool
	phase   atomic.Int32
}

// New validates cfg and creates an experiment
func New(cfg Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tasks := make([]Task, len(cfg.Tasks))
	for i, t := range cfg.Tasks {
		tasks[i] = t.clone()
	}

	reporter := cfg.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Experiment{
		tasks:          tasks,
		maxParallelism: cfg.MaxParallelism,
		failFast:       cfg.FailFast,
		timeout:        cfg.Timeout,
		reporter:       reporter,
		onResult:       cfg.OnResult,
		logger:         logger,
	}, nil
}

// Run creates an experiment from cfg and runs it to completion
func Run(ctx context.Context, cfg Config) (*Report, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}

// Run executes every task and blocks until all of them are terminal.
//
// Cancelling ctx stops new dispatch; tasks already running finish normally
// and Run still returns a complete report.
func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	h, err := e.Start(ctx)
	if err != nil {
		return nil, err
	}
	return h.Wait(), nil
}

// Start begins executing the experiment and returns immediately with a
// handle for the eventual report
func (e *Experiment) Start(ctx context.Context) (*Handle, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !e.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}

	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)

	l := newLedger(e.failFast)
	if err := l.seed(e.tasks); err != nil {
		e.phase.Store(int32(PhaseDone))
		return nil, err
	}
	e.phase.Store(int32(PhaseRunning))

	h := &Handle{
		exp:    e,
		ledger: l,
		done:   make(chan struct{}),
		cancel: make(chan struct{}),
	}
	go e.dispatch(ctx, h, runID, logger)

	return h, nil
}

// Phase returns the current lifecycle phase
func (e *Experiment) Phase() Phase {
	return Phase(e.phase.Load())
}

// dispatch drives one run from Running to Done
func (e *Experiment) dispatch(ctx context.Context, h *Handle, runID string, logger *slog.Logger) {
	l := h.ledger
	ids := l.ids()
	workers := min(e.maxParallelism, len(ids))

	logger.Info("experiment started",
		"tasks", len(ids),
		"workers", workers,
		"fail_fast", e.failFast,
		"timeout", e.timeout)

	var results chan TaskResult
	collected := make(chan struct{})
	if e.onResult != nil {
		// Sized so that workers never block on the handler
		results = make(chan TaskResult, len(ids))
		go func() {
			defer close(collected)
			for r := range results {
				e.onResult(r.ID, r.Outcome)
			}
		}()
	} else {
		close(collected)
	}

	var deadline time.Time
	if e.timeout > 0 {
		deadline = time.Now().Add(e.timeout)
	}

	// interrupt halts dispatch if a stop was requested. Workers call it
	// before each claim so no task starts after the request.
	interrupt := func() {
		select {
		case <-ctx.Done():
			l.halt(fmt.Sprintf("context done: %v", context.Cause(ctx)))
		case <-h.cancel:
			l.halt("cancelled by caller")
		default:
			if !deadline.IsZero() && !time.Now().Before(deadline) {
				l.halt(fmt.Sprintf("timeout after %s", e.timeout))
			}
		}
	}
	interrupt()

	p := &pool{
		workers:   workers,
		ledger:    l,
		queue:     newQueue(ids),
		reporter:  e.reporter,
		results:   results,
		interrupt: interrupt,
		logger:    logger,
	}

	poolDone := make(chan struct{})
	go func() {
		defer close(poolDone)
		p.run(context.WithoutCancel(ctx))
	}()

	var timeout <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		timeout = timer.C
	}

	halted := l.haltedC()
	ctxDone := ctx.Done()
	cancelled := (<-chan struct{})(h.cancel)

loop:
	for {
		select {
		case <-poolDone:
			break loop
		case <-halted:
			halted = nil
			e.phase.Store(int32(PhaseDraining))
			logger.Warn("experiment draining", "reason", l.reason())
		case <-ctxDone:
			ctxDone = nil
			l.halt(fmt.Sprintf("context done: %v", context.Cause(ctx)))
		case <-cancelled:
			cancelled = nil
			l.halt("cancelled by caller")
		case <-timeout:
			timeout = nil
			l.halt(fmt.Sprintf("timeout after %s", e.timeout))
		}
	}

	if results != nil {
		close(results)
	}
	<-collected

	h.report = buildReport(runID, ids, l.snapshot(), l.reason())
	e.phase.Store(int32(PhaseDone))

	counts := h.report.Counts()
	logger.Info("experiment completed",
		"total", h.report.Total(),
		"succeeded", counts.Succeeded,
		"failed", counts.Failed,
		"cancelled", counts.Cancelled,
		"duration", h.report.Duration())

	close(h.done)
}

// Handle tracks an experiment started with Start
type Handle struct {
	exp    *Experiment
	ledger *ledger

	done   chan struct{}
	report *Report

	cancel     chan struct{}
	cancelOnce sync.Once
}

// Done is closed once the report is available
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the experiment is done and returns its report
func (h *Handle) Wait() *Report {
	<-h.done
	return h.report
}

// WaitContext is Wait bounded by ctx. The experiment keeps running if ctx
// ends first.
func (h *Handle) WaitContext(ctx context.Context) (*Report, error) {
	select {
	case <-h.done:
		return h.report, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Report returns the report if the experiment is done
func (h *Handle) Report() (*Report, bool) {
	select {
	case <-h.done:
		return h.report, true
	default:
		return nil, false
	}
}

// Cancel stops dispatching new tasks; running tasks are left to finish.
// It is safe to call more than once.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		close(h.cancel)
	})
}

// Snapshot returns a consistent copy of the live ledger
func (h *Handle) Snapshot() map[string]Outcome {
	return h.ledger.snapshot()
}

// Phase returns the experiment's current phase
func (h *Handle) Phase() Phase {
	return h.exp.Phase()
}
