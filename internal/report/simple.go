package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/seantchan/cik-parser/internal/model"
)

// SimpleWriter outputs human-readable text for the terminal.
type SimpleWriter struct {
	baseWriter

	// showColumns lists every column with its missing count.
	showColumns bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColumns configures the writer to list the schema columns.
func WithColumns(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showColumns = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single run in human-readable format.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Identifier: %s\n", run.Identifier)
	fmt.Fprintf(&sb, "Output:     %s\n", run.OutputPath)
	fmt.Fprintf(&sb, "Filing:     %s\n", orDash(run.FilingURL))
	fmt.Fprintf(&sb, "Document:   %s\n", orDash(run.DocumentURL))
	fmt.Fprintf(&sb, "Rows:       %d\n", run.RowCount)
	fmt.Fprintf(&sb, "Columns:    %d\n", len(run.Columns))
	fmt.Fprintf(&sb, "Missing:    %d\n", run.TotalMissing())

	if statusText(run) == "ok" {
		sb.WriteString("Status:     Complete\n")
	} else {
		fmt.Fprintf(&sb, "Status:     ERROR - %s\n", run.ErrorMessage)
	}

	if w.showColumns && len(run.Columns) > 0 {
		sb.WriteString("\n")
		for i, col := range run.Columns {
			fmt.Fprintf(&sb, "  %3d  %-30s %d\n", i+1, col, run.MissingFields[col])
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory outputs one line per run.
func (w *SimpleWriter) WriteHistory(runs []*model.Run) (int, error) {
	var sb strings.Builder

	if len(runs) == 0 {
		sb.WriteString("No runs recorded.\n")
		return w.output.Write([]byte(sb.String()))
	}

	fmt.Fprintf(&sb, "%-23s  %-12s  %6s  %7s  %-6s  %s\n",
		"STARTED", "IDENTIFIER", "ROWS", "COLUMNS", "STATUS", "OUTPUT")
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, run := range runs {
		fmt.Fprintf(&sb, "%-23s  %-12s  %6d  %7d  %-6s  %s\n",
			formatTime(run.StartedAt),
			truncateString(run.Identifier, 12),
			run.RowCount,
			len(run.Columns),
			statusText(run),
			run.OutputPath,
		)
	}

	return w.output.Write([]byte(sb.String()))
}
