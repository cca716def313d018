package output

import (
	"context"
	"errors"
	"testing"

	"github.com/aryankumar/sweep/internal/experiment"
)

// mixedReport runs three tasks serially with fail-fast so the outcome is
// one of each terminal state.
func mixedReport(t testing.TB) *experiment.Report {
	t.Helper()
	report, err := experiment.Run(context.Background(), experiment.Config{
		MaxParallelism: 1,
		FailFast:       true,
		Tasks: []experiment.Task{
			{ID: "alpha", Work: func(context.Context) (any, error) { return "42", nil }, Metadata: map[string]any{"x": 1}},
			{ID: "beta", Work: func(context.Context) (any, error) { return nil, errors.New("exit status 3") }},
			{ID: "gamma", Work: func(context.Context) (any, error) { return "never", nil }},
		},
	})
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	return report
}

func emptyReport(t testing.TB) *experiment.Report {
	t.Helper()
	report, err := experiment.Run(context.Background(), experiment.Config{MaxParallelism: 1})
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	return report
}
