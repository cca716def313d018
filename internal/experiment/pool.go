package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// queue is the FIFO of task ids to dispatch. It is filled once, in
// configuration order, and closed before any worker starts.
type queue struct {
	ids chan string
}

func newQueue(ids []string) *queue {
	ch := make(chan string, len(ids))
	for _, id := range ids {
		ch <- id
	}
	close(ch)
	return &queue{ids: ch}
}

// next returns the next queued id, or false once the queue is drained
func (q *queue) next() (string, bool) {
	id, ok := <-q.ids
	return id, ok
}

// pool runs queued tasks on a bounded number of worker goroutines
type pool struct {
	// workers is the number of concurrent workers
	workers int

	ledger   *ledger
	queue    *queue
	reporter Reporter

	// results receives every terminal outcome when a result handler is set
	results chan<- TaskResult

	// interrupt, when set, runs before every claim
	interrupt func()

	logger *slog.Logger

	// active and peak count tasks currently inside their work function
	active atomic.Int32
	peak   atomic.Int32
}

// run starts the workers and blocks until the queue is drained and every
// claimed task has been recorded
func (p *pool) run(ctx context.Context) {
	var wg sync.WaitGroup

	p.logger.Debug("starting workers", "count", p.workers)

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go p.worker(ctx, i, &wg)
	}
	wg.Wait()

	p.logger.Debug("all workers finished", "peak_running", p.peak.Load())
}

// worker claims ids from the queue until it is empty. A claim refused
// because dispatch halted turns the task into a cancellation.
func (p *pool) worker(ctx context.Context, workerID int, wg *sync.WaitGroup) {
	defer wg.Done()

	p.logger.Debug("worker started", "worker_id", workerID)

	for {
		id, ok := p.queue.next()
		if !ok {
			p.logger.Debug("worker finished (no more tasks)", "worker_id", workerID)
			return
		}

		if p.interrupt != nil {
			p.interrupt()
		}
		task, err := p.ledger.claim(id)
		if errors.Is(err, errHalted) {
			outcome, completed, err := p.ledger.cancel(id)
			if err != nil {
				panic(err)
			}
			p.logger.Debug("task cancelled before start", "worker_id", workerID, "task", id)
			p.finish(id, outcome, completed)
			continue
		}
		if err != nil {
			panic(err)
		}

		state, value, taskErr := p.execute(ctx, task)
		outcome, completed := p.ledger.record(id, state, value, taskErr)

		p.logger.Debug("task completed",
			"worker_id", workerID,
			"task", id,
			"state", state,
			"duration", outcome.Duration(),
			"progress", fmt.Sprintf("%d/%d", completed, p.ledger.total()))

		p.finish(id, outcome, completed)
	}
}

// execute runs a task's work and converts whatever it does, including a
// panic, into a terminal state
func (p *pool) execute(ctx context.Context, task Task) (state State, value any, err error) {
	startTime := time.Now()

	running := p.active.Add(1)
	defer p.active.Add(-1)
	for {
		peak := p.peak.Load()
		if running <= peak || p.peak.CompareAndSwap(peak, running) {
			break
		}
	}

	defer func() {
		if r := recover(); r != nil {
			state, value, err = StateFailed, nil, newPanicError(r)
			p.logger.Error("task panicked",
				"task", task.ID,
				"panic", r,
				"duration", time.Since(startTime))
		}
	}()

	p.logger.Debug("executing task", "task", task.ID)

	value, err = task.Work(ctx)
	if err != nil {
		p.logger.Warn("task failed",
			"task", task.ID,
			"error", err,
			"duration", time.Since(startTime))
		return StateFailed, nil, err
	}

	p.logger.Debug("task succeeded",
		"task", task.ID,
		"duration", time.Since(startTime))
	return StateSucceeded, value, nil
}

// finish publishes one terminal transition
func (p *pool) finish(id string, outcome Outcome, completed int) {
	if p.results != nil {
		p.results <- TaskResult{ID: id, Outcome: outcome}
	}
	p.reporter.Progress(completed, p.ledger.total(), id, outcome.State)
}
