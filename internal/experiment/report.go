package experiment

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// TaskResult pairs a task id with its outcome
type TaskResult struct {
	ID      string
	Outcome Outcome
}

// Counts holds the number of tasks per terminal state
type Counts struct {
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
	Cancelled int `json:"cancelled" yaml:"cancelled"`
}

// Total is the sum of all counts
func (c Counts) Total() int {
	return c.Succeeded + c.Failed + c.Cancelled
}

// Report is the immutable result of a finished experiment.
// Every submitted task id has exactly one terminal entry.
type Report struct {
	runID      string
	order      []string
	entries    map[string]Outcome
	counts     Counts
	started    time.Time
	finished   time.Time
	haltReason string
}

// buildReport freezes a ledger snapshot. It is pure: the same inputs always
// produce the same report.
func buildReport(runID string, order []string, snap map[string]Outcome, haltReason string) *Report {
	r := &Report{
		runID:      runID,
		order:      append([]string(nil), order...),
		entries:    make(map[string]Outcome, len(snap)),
		haltReason: haltReason,
	}

	for id, o := range snap {
		o.Metadata = maps.Clone(o.Metadata)
		r.entries[id] = o

		switch o.State {
		case StateSucceeded:
			r.counts.Succeeded++
		case StateFailed:
			r.counts.Failed++
		case StateCancelled:
			r.counts.Cancelled++
		}

		// Duration runs from the first claim to the last record
		if !o.Start.IsZero() && (r.started.IsZero() || o.Start.Before(r.started)) {
			r.started = o.Start
		}
		if o.End.After(r.finished) {
			r.finished = o.End
		}
	}

	return r
}

// RunID returns the unique id of the run that produced the report
func (r *Report) RunID() string {
	return r.runID
}

// Get returns the outcome for a task id
func (r *Report) Get(id string) (Outcome, bool) {
	o, ok := r.entries[id]
	if ok {
		o.Metadata = maps.Clone(o.Metadata)
	}
	return o, ok
}

// IDs returns every task id in configuration order
func (r *Report) IDs() []string {
	return append([]string(nil), r.order...)
}

// Results returns every outcome in configuration order
func (r *Report) Results() []TaskResult {
	results := make([]TaskResult, 0, len(r.order))
	for _, id := range r.order {
		o, _ := r.Get(id)
		results = append(results, TaskResult{ID: id, Outcome: o})
	}
	return results
}

// Filter returns the outcomes in any of the given states, in configuration order
func (r *Report) Filter(states ...State) []TaskResult {
	filtered := make([]TaskResult, 0)
	for _, res := range r.Results() {
		for _, s := range states {
			if res.Outcome.State == s {
				filtered = append(filtered, res)
				break
			}
		}
	}
	return filtered
}

// Errors returns the failure of every failed task, wrapped with its id
func (r *Report) Errors() []error {
	errs := make([]error, 0, r.counts.Failed)
	for _, res := range r.Filter(StateFailed) {
		errs = append(errs, taskError(res.ID, res.Outcome.Err))
	}
	return errs
}

// Counts returns the number of tasks per terminal state
func (r *Report) Counts() Counts {
	return r.counts
}

// Total returns the number of tasks in the report
func (r *Report) Total() int {
	return len(r.order)
}

// StartedAt is the first claim time (zero if nothing ran)
func (r *Report) StartedAt() time.Time {
	return r.started
}

// FinishedAt is the last record time
func (r *Report) FinishedAt() time.Time {
	return r.finished
}

// Duration is the wall-clock time from the first claim to the last record
func (r *Report) Duration() time.Duration {
	if r.started.IsZero() {
		return 0
	}
	return r.finished.Sub(r.started)
}

// HaltReason explains why dispatch stopped early, empty if it did not
func (r *Report) HaltReason() string {
	return r.haltReason
}

// AllSucceeded reports whether every task succeeded
func (r *Report) AllSucceeded() bool {
	return r.counts.Succeeded == len(r.order)
}

// ExitCode is 0 when every task succeeded and 1 otherwise
func (r *Report) ExitCode() int {
	if r.AllSucceeded() {
		return 0
	}
	return 1
}

// Summary provides a summary of a report
type Summary struct {
	Total       int
	Counts      Counts
	Duration    time.Duration
	AvgDuration time.Duration
	MaxDuration time.Duration
	MinDuration time.Duration
}

// Summarize computes task duration statistics over the tasks that ran
func (r *Report) Summarize() Summary {
	s := Summary{
		Total:    len(r.order),
		Counts:   r.counts,
		Duration: r.Duration(),
	}

	ran := 0
	var total time.Duration
	for _, o := range r.entries {
		if o.Start.IsZero() {
			continue
		}
		d := o.Duration()
		if ran == 0 || d < s.MinDuration {
			s.MinDuration = d
		}
		if d > s.MaxDuration {
			s.MaxDuration = d
		}
		total += d
		ran++
	}
	if ran > 0 {
		s.AvgDuration = total / time.Duration(ran)
	}
	return s
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Succeeded: %d, ", s.Counts.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed: %d, ", s.Counts.Failed))
	sb.WriteString(fmt.Sprintf("Cancelled: %d", s.Counts.Cancelled))

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Wall: %s", s.Duration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Min: %s", s.MinDuration.Round(time.Millisecond)))
	}

	return sb.String()
}
