package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/seantchan/cik-parser/internal/model"
)

// MarkdownWriter outputs runs in Markdown format.
// The single-run form is the --summary document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeColumns(md, run)
	w.writeAlert(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run properties table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("13F Holdings: " + run.Identifier)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Identifier", "`" + run.Identifier + "`"},
			{"Output", "`" + run.OutputPath + "`"},
			{"Filing Index", orDash(run.IndexURL)},
			{"Filing", orDash(run.FilingURL)},
			{"Holdings Document", orDash(run.DocumentURL)},
			{"Rows", strconv.Itoa(run.RowCount)},
			{"Columns", strconv.Itoa(len(run.Columns))},
			{"Started", formatTime(run.StartedAt)},
			{"Duration", run.Duration().String()},
			{"Status", w.getStatusText(run)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on run state.
func (w *MarkdownWriter) getStatusText(run *model.Run) string {
	if statusText(run) != "ok" {
		return "❌ Failed - " + run.ErrorMessage
	}
	return "✅ Complete"
}

// writeColumns writes the per-column missing field table and its chart.
func (w *MarkdownWriter) writeColumns(md *markdown.Markdown, run *model.Run) {
	md.H2("Columns")
	md.PlainText("")

	if len(run.Columns) == 0 {
		md.PlainText("No schema was inferred.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(run.Columns))
	for i, col := range run.Columns {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			col,
			strconv.Itoa(run.MissingFields[col]),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Column", "Missing"},
		Rows:   rows,
	})
	md.PlainText("")

	if run.TotalMissing() > 0 {
		w.writePieChart(md, run)
	}
}

// writePieChart writes a mermaid pie chart of missing fields per column.
// Headers can repeat, so each column is charted once.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, run *model.Run) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Missing Fields by Column"),
		piechart.WithShowData(true),
	)

	seen := make(map[string]bool, len(run.Columns))
	for _, col := range run.Columns {
		if seen[col] {
			continue
		}
		seen[col] = true
		if n := run.MissingFields[col]; n > 0 {
			chart.LabelAndIntValue(col, uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert describing the outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, run *model.Run) {
	switch {
	case statusText(run) != "ok":
		md.Cautionf("Conversion failed: %s", run.ErrorMessage)
	case run.RowCount == 0:
		md.Warningf("The holdings document %s produced no rows.", run.DocumentURL)
	case run.TotalMissing() > 0:
		md.Note(fmt.Sprintf("%d field(s) were absent and written as placeholders.", run.TotalMissing()))
	default:
		md.Tip("Every record carried every column.")
	}
	md.PlainText("")
}

// WriteHistory outputs a table of past runs.
func (w *MarkdownWriter) WriteHistory(runs []*model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Conversion History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			formatTime(run.StartedAt),
			"`" + run.Identifier + "`",
			strconv.Itoa(run.RowCount),
			strconv.Itoa(len(run.Columns)),
			statusText(run),
			truncateString(run.OutputPath, 50),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Started", "Identifier", "Rows", "Columns", "Status", "Output"},
		Rows:   rows,
	})
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeFooter writes the document footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [cikparser](https://github.com/seantchan/cik-parser)*")
}
