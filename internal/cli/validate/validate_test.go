package validate

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aryankumar/sweep/internal/config"
	"github.com/aryankumar/sweep/internal/experiment"
	"github.com/aryankumar/sweep/internal/util"
)

func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write plan: %v", err)
	}
	return path
}

const gridPlan = `
tasks:
  - id: warmup
    command: "true"
matrix:
  params:
    - name: lr
      values: ["0.1", "0.5"]
    - name: seed
      values: ["1", "2"]
  task:
    command: train
    args: ["--lr", "{{.lr}}", "--seed", "{{.seed}}"]
`

func TestNewValidateCmd(t *testing.T) {
	cmd := NewValidateCmd()

	if cmd.Use != "validate PLAN" {
		t.Errorf("expected use 'validate PLAN', got %q", cmd.Use)
	}
	if cmd.Flags().Lookup("list") == nil {
		t.Error("expected --list flag")
	}
	if err := cmd.Args(cmd, []string{}); err == nil {
		t.Error("expected error without a plan argument")
	}
}

func TestRunValidate(t *testing.T) {
	path := writePlan(t, "sweep.yaml", gridPlan)

	var buf bytes.Buffer
	if err := runValidate(&buf, path, false, config.Defaults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "valid, 5 tasks") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunValidate_List(t *testing.T) {
	path := writePlan(t, "sweep.yaml", gridPlan)

	settings := config.Defaults()
	settings.NoColor = true

	var buf bytes.Buffer
	if err := runValidate(&buf, path, true, settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	ids := []string{"warmup", "lr=0.1,seed=1", "lr=0.1,seed=2", "lr=0.5,seed=1", "lr=0.5,seed=2"}
	last := -1
	for _, id := range ids {
		i := strings.Index(out, id)
		if i < 0 {
			t.Fatalf("listing missing %q:\n%s", id, out)
		}
		if i < last {
			t.Errorf("%q listed out of order:\n%s", id, out)
		}
		last = i
	}
	if !strings.Contains(out, "train --lr 0.5 --seed 2") {
		t.Errorf("listing missing rendered command:\n%s", out)
	}
}

func TestRunValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "missing command",
			file:    "a.yaml",
			content: "tasks:\n  - id: a\n",
		},
		{
			name:    "unknown key",
			file:    "a.yaml",
			content: "tasks:\n  - id: a\n    command: x\n    retries: 3\n",
		},
		{
			name: "duplicate across tasks and matrix",
			file: "a.yaml",
			content: `
tasks:
  - id: n=1
    command: x
matrix:
  params:
    - name: n
      values: ["1"]
  task:
    command: x
`,
		},
		{
			name:    "unsupported extension",
			file:    "a.json",
			content: "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePlan(t, tt.file, tt.content)
			err := runValidate(&bytes.Buffer{}, path, false, config.Defaults())
			if !util.IsConfigError(err) {
				t.Errorf("expected config error, got %v", err)
			}
		})
	}
}

func TestRunValidate_DuplicateIDMatchesEngine(t *testing.T) {
	path := writePlan(t, "sweep.yaml", `
tasks:
  - id: n=1
    command: x
matrix:
  params:
    - name: n
      values: ["1"]
  task:
    command: x
`)

	err := runValidate(&bytes.Buffer{}, path, false, config.Defaults())
	if !errors.Is(err, experiment.ErrDuplicateTaskID) {
		t.Fatalf("expected ErrDuplicateTaskID, got %v", err)
	}
	if got, want := err.Error(), `task "n=1": duplicate task id`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
