package experiment

// Reporter receives one notification per terminal transition.
//
// Progress is called synchronously by whichever worker recorded the outcome,
// possibly from several goroutines at once. Implementations must be safe for
// concurrent use and must not block for long; the engine does not buffer.
type Reporter interface {
	Progress(completed, total int, taskID string, state State)
}

// ReporterFunc adapts a plain function to the Reporter interface
type ReporterFunc func(completed, total int, taskID string, state State)

// Progress calls f
func (f ReporterFunc) Progress(completed, total int, taskID string, state State) {
	f(completed, total, taskID, state)
}

// NopReporter discards every notification
type NopReporter struct{}

// Progress does nothing
func (NopReporter) Progress(int, int, string, State) {}

// MultiReporter fans a notification out to several reporters in order
type MultiReporter []Reporter

// Progress forwards to every non-nil reporter
func (m MultiReporter) Progress(completed, total int, taskID string, state State) {
	for _, r := range m {
		if r != nil {
			r.Progress(completed, total, taskID, state)
		}
	}
}
