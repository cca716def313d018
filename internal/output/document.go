package output

import (
	"fmt"
	"time"

	"github.com/aryankumar/sweep/internal/experiment"
)

// ReportDocument is the serializable form of an experiment report
type ReportDocument struct {
	RunID      string            `json:"runId" yaml:"runId"`
	StartedAt  *time.Time        `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
	FinishedAt *time.Time        `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
	Duration   string            `json:"duration" yaml:"duration"`
	Total      int               `json:"total" yaml:"total"`
	Counts     experiment.Counts `json:"counts" yaml:"counts"`
	HaltReason string            `json:"haltReason,omitempty" yaml:"haltReason,omitempty"`
	Tasks      []TaskDocument    `json:"tasks" yaml:"tasks"`
}

// TaskDocument is the serializable form of one task outcome
type TaskDocument struct {
	ID       string         `json:"id" yaml:"id"`
	State    string         `json:"state" yaml:"state"`
	Duration string         `json:"duration,omitempty" yaml:"duration,omitempty"`
	Value    interface{}    `json:"value,omitempty" yaml:"value,omitempty"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewReportDocument converts a report into its serializable form, tasks in
// configuration order
func NewReportDocument(report *experiment.Report) ReportDocument {
	doc := ReportDocument{
		RunID:      report.RunID(),
		Duration:   report.Duration().String(),
		Total:      report.Total(),
		Counts:     report.Counts(),
		HaltReason: report.HaltReason(),
		Tasks:      make([]TaskDocument, 0, report.Total()),
	}
	if t := report.StartedAt(); !t.IsZero() {
		doc.StartedAt = &t
	}
	if t := report.FinishedAt(); !t.IsZero() {
		doc.FinishedAt = &t
	}

	for _, r := range report.Results() {
		doc.Tasks = append(doc.Tasks, newTaskDocument(r))
	}
	return doc
}

func newTaskDocument(r experiment.TaskResult) TaskDocument {
	td := TaskDocument{
		ID:       r.ID,
		State:    r.Outcome.State.String(),
		Value:    r.Outcome.Value,
		Metadata: r.Outcome.Metadata,
	}
	if d := r.Outcome.Duration(); d > 0 {
		td.Duration = d.String()
	}
	if r.Outcome.Err != nil {
		td.Error = r.Outcome.Err.Error()
	}
	return td
}

// valueString renders a value or error for the wide table column
func valueString(o experiment.Outcome, max int) string {
	var s string
	switch {
	case o.Err != nil:
		s = o.Err.Error()
	case o.Value != nil:
		s = fmt.Sprintf("%v", o.Value)
	}
	if max <= 0 {
		max = 50
	}
	if len(s) > max {
		s = s[:max-3] + "..."
	}
	return s
}
