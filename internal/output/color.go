package output

import (
	"fmt"
	"io"
	"os"

	"github.com/aryankumar/sweep/internal/experiment"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// TaskID colors task identifiers
	TaskID func(format string, a ...interface{}) string

	// Success colors succeeded status
	Success func(format string, a ...interface{}) string

	// Error colors failed status and error messages
	Error func(format string, a ...interface{}) string

	// Warning colors cancelled status and halt reasons
	Warning func(format string, a ...interface{}) string

	// Header colors table headers
	Header func(format string, a ...interface{}) string

	// Duration colors duration values
	Duration func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme
// Colors are automatically disabled for non-TTY outputs or when noColor is true
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	useColor := !noColor && isTTY(w)

	if !useColor {
		plain := fmt.Sprintf
		return &ColorScheme{
			TaskID:   plain,
			Success:  plain,
			Error:    plain,
			Warning:  plain,
			Header:   plain,
			Duration: plain,
			Disabled: true,
		}
	}

	return &ColorScheme{
		TaskID:   color.New(color.FgCyan, color.Bold).Sprintf,
		Success:  color.New(color.FgGreen).Sprintf,
		Error:    color.New(color.FgRed, color.Bold).Sprintf,
		Warning:  color.New(color.FgYellow).Sprintf,
		Header:   color.New(color.FgWhite, color.Bold).Sprintf,
		Duration: color.New(color.FgBlue).Sprintf,
		Disabled: false,
	}
}

// isTTY checks if the writer is a TTY
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StateColor returns the color function for a task state
func (cs *ColorScheme) StateColor(state experiment.State) func(format string, a ...interface{}) string {
	switch state {
	case experiment.StateSucceeded:
		return cs.Success
	case experiment.StateFailed:
		return cs.Error
	case experiment.StateCancelled:
		return cs.Warning
	default:
		return fmt.Sprintf
	}
}
