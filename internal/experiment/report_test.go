package experiment

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBuildReport(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	boom := errors.New("boom")

	snap := map[string]Outcome{
		"a": {State: StateSucceeded, Value: 1, Start: base, End: base.Add(100 * time.Millisecond)},
		"b": {State: StateFailed, Err: boom, Start: base.Add(50 * time.Millisecond), End: base.Add(400 * time.Millisecond)},
		"c": {State: StateCancelled, End: base.Add(500 * time.Millisecond)},
		"d": {State: StateSucceeded, Value: 4, Start: base.Add(10 * time.Millisecond), End: base.Add(210 * time.Millisecond)},
	}
	order := []string{"d", "a", "b", "c"}

	report := buildReport("run-1", order, snap, "task \"b\" failed")

	if report.RunID() != "run-1" {
		t.Errorf("unexpected run id %q", report.RunID())
	}
	if got := report.Counts(); got != (Counts{Succeeded: 2, Failed: 1, Cancelled: 1}) {
		t.Errorf("unexpected counts: %+v", got)
	}
	if report.Counts().Total() != 4 || report.Total() != 4 {
		t.Errorf("expected total 4, got %d/%d", report.Counts().Total(), report.Total())
	}
	if !report.StartedAt().Equal(base) {
		t.Errorf("expected start at first claim, got %s", report.StartedAt())
	}
	if report.Duration() != 500*time.Millisecond {
		t.Errorf("expected 500ms wall time, got %s", report.Duration())
	}
	if report.AllSucceeded() || report.ExitCode() != 1 {
		t.Error("report with failures must not count as success")
	}

	results := report.Results()
	for i, id := range order {
		if results[i].ID != id {
			t.Errorf("result %d: expected %s, got %s", i, id, results[i].ID)
		}
	}

	errs := report.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Fatalf("expected the boom error, got %v", errs)
	}
	var te *TaskError
	if !errors.As(errs[0], &te) || te.TaskID != "b" {
		t.Errorf("expected error wrapped with task id b, got %v", errs[0])
	}

	// The report is frozen: mutating the snapshot afterwards changes nothing
	snap["a"] = Outcome{State: StateFailed}
	if o, _ := report.Get("a"); o.State != StateSucceeded {
		t.Error("report changed after snapshot mutation")
	}

	ids := report.IDs()
	ids[0] = "zzz"
	if report.IDs()[0] != "d" {
		t.Error("IDs returned shared slice")
	}
}

func TestReport_Filter(t *testing.T) {
	snap := map[string]Outcome{
		"a": {State: StateSucceeded},
		"b": {State: StateFailed},
		"c": {State: StateCancelled},
		"d": {State: StateFailed},
	}
	report := buildReport("", []string{"a", "b", "c", "d"}, snap, "")

	tests := []struct {
		name   string
		states []State
		want   []string
	}{
		{name: "failed", states: []State{StateFailed}, want: []string{"b", "d"}},
		{name: "not succeeded", states: []State{StateFailed, StateCancelled}, want: []string{"b", "c", "d"}},
		{name: "none", states: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.Filter(tt.states...)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d results, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("result %d: expected %s, got %s", i, tt.want[i], got[i].ID)
				}
			}
		})
	}
}

func TestReport_Summarize(t *testing.T) {
	base := time.Now()
	snap := map[string]Outcome{
		"a": {State: StateSucceeded, Start: base, End: base.Add(100 * time.Millisecond)},
		"b": {State: StateSucceeded, Start: base, End: base.Add(300 * time.Millisecond)},
		"c": {State: StateCancelled, End: base.Add(time.Second)},
	}
	s := buildReport("", []string{"a", "b", "c"}, snap, "").Summarize()

	if s.AvgDuration != 200*time.Millisecond {
		t.Errorf("expected avg 200ms, got %s", s.AvgDuration)
	}
	if s.MinDuration != 100*time.Millisecond || s.MaxDuration != 300*time.Millisecond {
		t.Errorf("unexpected min/max: %s/%s", s.MinDuration, s.MaxDuration)
	}

	str := s.String()
	for _, want := range []string{"Total: 3", "Succeeded: 2", "Failed: 0", "Cancelled: 1", "Avg: 200ms"} {
		if !strings.Contains(str, want) {
			t.Errorf("expected %q in %q", want, str)
		}
	}
}

func TestSummary_StringEmpty(t *testing.T) {
	s := buildReport("", nil, nil, "").Summarize()
	if got := s.String(); got != "Total: 0, Succeeded: 0, Failed: 0, Cancelled: 0" {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestOutcome_Duration(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		o    Outcome
		want time.Duration
	}{
		{name: "ran", o: Outcome{Start: now, End: now.Add(time.Second)}, want: time.Second},
		{name: "never started", o: Outcome{End: now}, want: 0},
		{name: "still running", o: Outcome{Start: now}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.o.Duration(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
