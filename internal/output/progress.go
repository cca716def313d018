package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aryankumar/sweep/internal/experiment"
)

// Progress modes
const (
	ProgressBar     = "bar"
	ProgressCounter = "counter"
	ProgressSilent  = "silent"
)

const defaultBarWidth = 80

// NewReporter returns the progress reporter for mode writing to w.
func NewReporter(mode string, w io.Writer) (experiment.Reporter, error) {
	switch mode {
	case ProgressSilent:
		return experiment.NopReporter{}, nil
	case ProgressCounter:
		return NewCounterReporter(w), nil
	case "", ProgressBar:
		if !isTTY(w) {
			return NewCounterReporter(w), nil
		}
		return NewBarReporter(w, defaultBarWidth), nil
	default:
		return nil, fmt.Errorf("unknown progress mode %q (want bar, counter or silent)", mode)
	}
}

// CounterReporter prints one "Completed N/M." line per finished task
type CounterReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewCounterReporter creates a counter reporter
func NewCounterReporter(w io.Writer) *CounterReporter {
	return &CounterReporter{w: w}
}

// Progress implements experiment.Reporter
func (r *CounterReporter) Progress(completed, total int, _ string, _ experiment.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "Completed %d/%d.\n", completed, total)
}

// BarReporter redraws a single-line "NN% [###   ]" bar in place
type BarReporter struct {
	mu      sync.Mutex
	w       io.Writer
	width   int
	percent int
}

// NewBarReporter creates a bar reporter for a console width
func NewBarReporter(w io.Writer, width int) *BarReporter {
	if width <= 0 {
		width = defaultBarWidth
	}
	return &BarReporter{w: w, width: width, percent: -1}
}

// Progress implements experiment.Reporter. Notifications may arrive out of
// order from concurrent workers, so the bar never moves backwards.
func (r *BarReporter) Progress(completed, total int, _ string, _ experiment.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if total <= 0 {
		return
	}
	percent := completed * 100 / total
	if percent <= r.percent {
		return
	}
	r.percent = percent

	prefix := fmt.Sprintf("%3d%% [", percent)
	suffix := fmt.Sprintf("] %d/%d", completed, total)
	available := r.width - len(prefix) - len(suffix)
	if available < 0 {
		available = 0
	}
	blocks := completed * available / total

	fmt.Fprintf(r.w, "\r%s%s%s%s", prefix, strings.Repeat("#", blocks), strings.Repeat(" ", available-blocks), suffix)

	if completed >= total {
		fmt.Fprintln(r.w)
	}
}
