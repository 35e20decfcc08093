package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/seantchan/cik-parser/internal/model"
)

// WriteSummaryFile writes the summary of run to path in format, replacing any
// existing file. Nothing is written for an unknown format.
func WriteSummaryFile(path string, run *model.Run, format Format) error {
	var buf bytes.Buffer
	w, err := summaryWriter(format, &buf)
	if err != nil {
		return err
	}
	if _, err := w.Write(run); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Clean(path), buf.Bytes(), 0o644); err != nil { //nolint:gosec // summaries are meant to be shared
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	return nil
}

// summaryWriter is NewWriter, except that simple summaries list every column.
func summaryWriter(format Format, output io.Writer) (Writer, error) {
	if format == FormatSimple {
		return NewSimpleWriter(output, WithColumns(true)), nil
	}
	return NewWriter(format, output)
}
