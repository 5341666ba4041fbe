package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/cli/go-gh/v2/pkg/term"

	"github.com/yahsan2/gh-csv-issues/pkg/issue"
)

// FormatType represents the output format type
type FormatType int

const (
	// FormatTable outputs as a formatted table
	FormatTable FormatType = iota
	// FormatJSON outputs as JSON
	FormatJSON
	// FormatCSV outputs as CSV
	FormatCSV
	// FormatQuiet outputs minimal information
	FormatQuiet
)

// ParseFormat maps an --output value to a FormatType
func ParseFormat(s string) (FormatType, error) {
	switch strings.ToLower(s) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "quiet":
		return FormatQuiet, nil
	default:
		return FormatTable, fmt.Errorf("unknown output format '%s': use table, json, csv or quiet", s)
	}
}

// Formatter handles output formatting
type Formatter struct {
	format    FormatType
	writer    io.Writer
	errWriter io.Writer
	isTTY     bool
	width     int
}

// NewFormatter creates a new formatter writing to the terminal
func NewFormatter(format FormatType) *Formatter {
	t := term.FromEnv()
	width, _, err := t.Size()
	if err != nil || width <= 0 {
		width = 80
	}
	f := NewFormatterWithWriters(format, t.Out(), t.ErrOut())
	f.isTTY = t.IsTerminalOutput()
	f.width = width
	return f
}

// NewFormatterWithWriters creates a formatter with separate output and error writers
func NewFormatterWithWriters(format FormatType, writer, errWriter io.Writer) *Formatter {
	if errWriter == nil {
		errWriter = os.Stderr
	}
	return &Formatter{
		format:    format,
		writer:    writer,
		errWriter: errWriter,
		width:     80,
	}
}

// ReportStart prints the command about to be executed
func (f *Formatter) ReportStart(index int, draft *issue.Draft) {
	if f.format != FormatTable {
		return
	}
	fmt.Fprintf(f.writer, "Executing: %s\n", draft.String())
}

// ReportResult prints the outcome of one record as soon as it is known
func (f *Formatter) ReportResult(r *issue.RecordResult) {
	switch f.format {
	case FormatTable:
		f.reportResultTable(r)
	case FormatQuiet:
		f.reportResultQuiet(r)
	}
}

func (f *Formatter) reportResultTable(r *issue.RecordResult) {
	switch r.Status {
	case issue.StatusCreated:
		fmt.Fprintf(f.writer, "Issue created successfully. Output:\n%s", r.Stdout)
		if !strings.HasSuffix(r.Stdout, "\n") {
			fmt.Fprintln(f.writer)
		}
	case issue.StatusSkipped:
		fmt.Fprintf(f.writer, "Dry run: issue not created (row %d)\n", r.Index)
	case issue.StatusFailed:
		switch r.ErrorType {
		case issue.ErrorTypeCommandFailed:
			fmt.Fprintf(f.errWriter, "Error creating issue. Command failed with exit code %d:\n", r.ExitCode)
			fmt.Fprintf(f.errWriter, "Command: %s\n", issue.CommandLine(r.Command))
			fmt.Fprintf(f.errWriter, "Error Output:\n%s\n", r.Stderr)
		case issue.ErrorTypeToolNotFound:
			fmt.Fprintln(f.errWriter, "Error: gh CLI tool not found. Make sure it's installed and in your PATH.")
		default:
			fmt.Fprintf(f.errWriter, "An unexpected error occurred during gh CLI execution: %s\n", r.Error)
		}
	}
}

func (f *Formatter) reportResultQuiet(r *issue.RecordResult) {
	switch r.Status {
	case issue.StatusCreated:
		if r.URL != "" {
			fmt.Fprintln(f.writer, r.URL)
		}
	case issue.StatusSkipped:
		fmt.Fprintln(f.writer, issue.CommandLine(r.Command))
	case issue.StatusFailed:
		msg := firstLine(r.Error)
		if stderr := firstLine(r.Stderr); stderr != "" {
			msg += ": " + stderr
		}
		fmt.Fprintf(f.errWriter, "row %d: %s\n", r.Index, msg)
	}
}

// FormatBatchResult formats batch processing results
func (f *Formatter) FormatBatchResult(result *issue.BatchResult) error {
	switch f.format {
	case FormatJSON:
		return f.formatBatchResultJSON(result)
	case FormatCSV:
		return f.formatBatchResultCSV(result)
	case FormatQuiet:
		return nil
	default:
		return f.formatBatchResultTable(result)
	}
}

// formatBatchResultTable formats batch results as a table
func (f *Formatter) formatBatchResultTable(result *issue.BatchResult) error {
	fmt.Fprintf(f.writer, "\nBatch Processing Complete\n\n")
	fmt.Fprintf(f.writer, "Repository: %s\n", result.Repository)
	fmt.Fprintf(f.writer, "Total:      %d\n", result.Total)
	fmt.Fprintf(f.writer, "Succeeded:  %d\n", result.Succeeded)
	fmt.Fprintf(f.writer, "Failed:     %d\n", result.Failed)
	fmt.Fprintf(f.writer, "Duration:   %s\n", result.Duration().Round(time.Millisecond))
	if result.DryRun {
		fmt.Fprintf(f.writer, "Skipped:    %d (dry run)\n", result.Skipped)
	}

	if len(result.Records) == 0 {
		return nil
	}

	fmt.Fprintln(f.writer)
	tp := tableprinter.New(f.writer, f.isTTY, f.width)
	tp.AddHeader([]string{"ROW", "LINE", "STATUS", "TITLE", "RESULT"})
	for _, r := range result.Records {
		tp.AddField(strconv.Itoa(r.Index))
		tp.AddField(strconv.Itoa(r.Line))
		tp.AddField(string(r.Status))
		tp.AddField(r.Title)
		tp.AddField(recordDetail(r))
		tp.EndRow()
	}
	return tp.Render()
}

// formatBatchResultJSON formats batch results as JSON
func (f *Formatter) formatBatchResultJSON(result *issue.BatchResult) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// formatBatchResultCSV formats batch results as CSV, one row per record
func (f *Formatter) formatBatchResultCSV(result *issue.BatchResult) error {
	w := csv.NewWriter(f.writer)

	if err := w.Write([]string{"Row", "Line", "Status", "Title", "URL", "ExitCode", "Error"}); err != nil {
		return err
	}
	for _, r := range result.Records {
		record := []string{
			strconv.Itoa(r.Index),
			strconv.Itoa(r.Line),
			string(r.Status),
			r.Title,
			r.URL,
			strconv.Itoa(r.ExitCode),
			firstLine(r.Error),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// FormatError formats an error for output
func (f *Formatter) FormatError(err error) error {
	if f.format == FormatJSON {
		errorData := map[string]string{
			"error": err.Error(),
		}

		// If it's an IssueError, include more details
		var issueErr *issue.IssueError
		if errors.As(err, &issueErr) {
			errorData["type"] = issueErr.Type.String()
			if issueErr.Suggestion != "" {
				errorData["suggestion"] = issueErr.Suggestion
			}
		}

		encoder := json.NewEncoder(f.errWriter)
		encoder.SetIndent("", "  ")
		return encoder.Encode(errorData)
	}

	_, printErr := fmt.Fprintln(f.errWriter, err.Error())
	return printErr
}

func recordDetail(r issue.RecordResult) string {
	switch r.Status {
	case issue.StatusCreated:
		if r.URL != "" {
			return r.URL
		}
		return firstLine(r.Stdout)
	case issue.StatusFailed:
		if r.ErrorType == issue.ErrorTypeCommandFailed {
			return fmt.Sprintf("exit %d: %s", r.ExitCode, firstLine(r.Stderr))
		}
		return firstLine(r.Error)
	default:
		return "dry run"
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
