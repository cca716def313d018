package command

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestWork(t *testing.T) {
	requireSh(t)

	tests := []struct {
		name         string
		spec         Spec
		wantValue    string
		wantExitCode int
		wantStderr   string
		wantErr      bool
	}{
		{
			name:      "stdout is trimmed",
			spec:      Spec{Command: "sh", Args: []string{"-c", "echo '  hello  '"}},
			wantValue: "hello",
		},
		{
			name:      "env is passed",
			spec:      Spec{Command: "sh", Args: []string{"-c", "echo $SWEEP_TEST_VALUE"}, Env: map[string]string{"SWEEP_TEST_VALUE": "42"}},
			wantValue: "42",
		},
		{
			name:      "dir is used",
			spec:      Spec{Command: "sh", Args: []string{"-c", "pwd"}, Dir: "/"},
			wantValue: "/",
		},
		{
			name:         "non-zero exit",
			spec:         Spec{Command: "sh", Args: []string{"-c", "echo oops >&2; exit 3"}},
			wantErr:      true,
			wantExitCode: 3,
			wantStderr:   "oops",
		},
		{
			name:         "missing program",
			spec:         Spec{Command: "sweep-definitely-not-a-program"},
			wantErr:      true,
			wantExitCode: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Work(tt.spec, nil)(context.Background())

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if value != tt.wantValue {
					t.Errorf("expected %q, got %q", tt.wantValue, value)
				}
				return
			}

			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("expected ExitError, got %v", err)
			}
			if exitErr.ExitCode != tt.wantExitCode {
				t.Errorf("expected exit code %d, got %d", tt.wantExitCode, exitErr.ExitCode)
			}
			if exitErr.Stderr != tt.wantStderr {
				t.Errorf("expected stderr %q, got %q", tt.wantStderr, exitErr.Stderr)
			}
			if !strings.Contains(err.Error(), tt.spec.Command) {
				t.Errorf("expected command in error message, got %q", err.Error())
			}
		})
	}
}

func TestSpec_String(t *testing.T) {
	if got := (Spec{Command: "echo", Args: []string{"a", "b"}}).String(); got != "echo a b" {
		t.Errorf("unexpected %q", got)
	}
	if got := (Spec{Command: "true"}).String(); got != "true" {
		t.Errorf("unexpected %q", got)
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "cut", in: "abcdef", n: 3, want: "...def"},
		{name: "fits", in: "abc", n: 3, want: "abc"},
		{name: "cut inside rune moves forward", in: "h\u00e9llo", n: 4, want: "...llo"},
		{name: "cut on rune start", in: "h\u00e9llo", n: 5, want: "...\u00e9llo"},
		{name: "multi-byte only", in: "\u65e5\u672c\u8a9e", n: 4, want: "...\u8a9e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tail(tt.in, tt.n); got != tt.want {
				t.Errorf("tail(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
