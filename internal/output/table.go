package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aryankumar/sweep/internal/experiment"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats output as a table with aligned columns
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(table, v)
	case []map[string]interface{}:
		return f.formatMapSlice(table, v)
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatReport outputs an experiment report as a table followed by a
// summary line, one row per task in configuration order
func (f *TableFormatter) FormatReport(w io.Writer, report *experiment.Report) error {
	if report.Total() == 0 {
		fmt.Fprintln(w, "No tasks")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"TASK", "STATUS", "DURATION"}
	if f.options.Wide {
		headers = append(headers, "RESULT")
	}

	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			coloredHeaders := make([]string, len(headers))
			for i, h := range headers {
				coloredHeaders[i] = colors.Header(h)
			}
			table.SetHeader(coloredHeaders)
		}
	}

	for _, result := range report.Results() {
		table.Append(f.formatResultRow(result, colors))
	}

	table.Render()

	f.printSummary(w, report, colors)

	return nil
}

// formatResultRow formats a single task outcome as a table row
func (f *TableFormatter) formatResultRow(result experiment.TaskResult, colors *ColorScheme) []string {
	id := result.ID
	if !colors.Disabled {
		id = colors.TaskID("%s", id)
	}

	status := stateLabel(result.Outcome.State)
	if !colors.Disabled {
		status = colors.StateColor(result.Outcome.State)("%s", status)
	}

	duration := "-"
	if !result.Outcome.Start.IsZero() {
		duration = result.Outcome.Duration().Round(time.Millisecond).String()
	}
	if !colors.Disabled {
		duration = colors.Duration("%s", duration)
	}

	row := []string{id, status, duration}

	if f.options.Wide {
		row = append(row, valueString(result.Outcome, f.options.MaxValueWidth))
	}

	return row
}

func stateLabel(s experiment.State) string {
	label := s.String()
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// formatMap formats a map as a two-column table (key-value pairs)
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// formatMapSlice formats a slice of maps as a table, columns sorted by key
func (f *TableFormatter) formatMapSlice(table *tablewriter.Table, data []map[string]interface{}) error {
	if len(data) == 0 {
		return nil
	}

	var keys []string
	for k := range data[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if !f.options.NoHeaders {
		headers := make([]string, len(keys))
		for i, k := range keys {
			headers[i] = strings.ToUpper(k)
		}
		table.SetHeader(headers)
	}

	for _, item := range data {
		row := make([]string, 0, len(keys))
		for _, k := range keys {
			row = append(row, fmt.Sprintf("%v", item[k]))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

// createTable creates a new table with borderless, tab-padded columns
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t") // tab-separated columns
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints the counts and timing of the report
func (f *TableFormatter) printSummary(w io.Writer, report *experiment.Report, colors *ColorScheme) {
	summary := report.Summarize()

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := fmt.Sprintf("%d succeeded", summary.Counts.Succeeded)
	if !colors.Disabled {
		successText = colors.Success("%s", successText)
	}

	failedText := fmt.Sprintf("%d failed", summary.Counts.Failed)
	if !colors.Disabled && summary.Counts.Failed > 0 {
		failedText = colors.Error("%s", failedText)
	}

	cancelledText := fmt.Sprintf("%d cancelled", summary.Counts.Cancelled)
	if !colors.Disabled && summary.Counts.Cancelled > 0 {
		cancelledText = colors.Warning("%s", cancelledText)
	}

	durationText := fmt.Sprintf("wall=%s avg=%s",
		summary.Duration.Round(time.Millisecond), summary.AvgDuration.Round(time.Millisecond))
	if !colors.Disabled {
		durationText = colors.Duration("%s", durationText)
	}

	fmt.Fprintf(w, "%s, %s, %s, %s\n", successText, failedText, cancelledText, durationText)

	if reason := report.HaltReason(); reason != "" {
		halted := "Halted: " + reason
		if !colors.Disabled {
			halted = colors.Warning("%s", halted)
		}
		fmt.Fprintln(w, halted)
	}
}
