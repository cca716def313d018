// Package command builds experiment work units that run an external program.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aryankumar/sweep/internal/experiment"
)

// maxStderr bounds how much stderr is kept in an ExitError
const maxStderr = 2048

// Spec describes a command to run
type Spec struct {
	// Command is the program name or path
	Command string

	// Args are passed to the program as-is (no shell expansion)
	Args []string

	// Env holds extra environment variables on top of the current process env
	Env map[string]string

	// Dir is the working directory (empty means the current directory)
	Dir string
}

// String renders the command line for logs
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Command
	}
	return s.Command + " " + strings.Join(s.Args, " ")
}

// ExitError is the failure of a command that could not start or exited non-zero
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
	if e.ExitCode < 0 {
		msg = fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns the underlying exec error
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Work returns an experiment work unit running spec. On success the task
// value is the command's stdout with surrounding whitespace trimmed.
func Work(spec Spec, logger *slog.Logger) experiment.Work {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context) (any, error) {
		cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
		cmd.Dir = spec.Dir
		if len(spec.Env) > 0 {
			cmd.Env = append(os.Environ(), envList(spec.Env)...)
		}

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		logger.Debug("running command", "command", spec.String(), "dir", spec.Dir)

		if err := cmd.Run(); err != nil {
			exitErr := &ExitError{
				Command:  spec.String(),
				ExitCode: -1,
				Stderr:   tail(strings.TrimSpace(stderr.String()), maxStderr),
				Err:      err,
			}
			var ee *exec.ExitError
			if errors.As(err, &ee) {
				exitErr.ExitCode = ee.ExitCode()
			}
			return nil, exitErr
		}

		return strings.TrimSpace(stdout.String()), nil
	}
}

// envList renders env in a stable KEY=VALUE order
func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}

// tail keeps at most the last n bytes of s, starting on a rune boundary
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return "..." + s[i:]
}
