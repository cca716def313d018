// Package output renders experiment reports and live progress for the sweep CLI.
//
// Reports can be printed as an aligned table, as JSON or as YAML through
// a single Formatter interface. Progress reporters plug into the experiment
// engine and draw a bar, print counter lines, or stay silent.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatTable)
//	formatter.FormatReport(os.Stdout, report)
//
// Single values such as resolved settings or a task listing go through Format:
//
//	formatter.Format(os.Stdout, map[string]interface{}{"parallel": 4})
//
// # Options
//
//	formatter := output.NewFormatter(
//	    output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithWide(true),
//	)
//
// FormatWide is shorthand for a table with WithWide(true); the extra RESULT
// column holds the task value, or its error for failed tasks.
//
// # Progress
//
//	reporter, err := output.NewReporter(output.ProgressBar, os.Stderr)
//
// The bar is only drawn when the writer is a terminal; on pipes and files it
// degrades to "Completed N/M." lines. Reporters serialize their own writes and
// are safe to call from every worker.
//
// # Color Support
//
// Colors are enabled for TTY outputs only and can be turned off with
// WithNoColor(true). Task ids are cyan, succeeded tasks green, failed tasks
// red, cancelled tasks yellow.
package output
