package holdings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	fieldSeparator = "\t"
	lineTerminator = "\n"
)

// Writer writes a Table as tab-separated text.
//
// The header row is tab-joined. Data rows carry a tab after every value
// including the last unless WithTrailingSeparator(false) is given.
type Writer struct {
	output io.Writer

	// trailingSeparator writes a tab after the last value of each data row.
	trailingSeparator bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithTrailingSeparator controls the tab after the last value of data rows.
func WithTrailingSeparator(trailing bool) WriterOption {
	return func(w *Writer) {
		w.trailingSeparator = trailing
	}
}

// NewWriter creates a Writer that outputs to the given writer.
func NewWriter(output io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		output:            output,
		trailingSeparator: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the header row and every data row.
// Returns the number of bytes written.
func (w *Writer) Write(t *Table) (int, error) {
	bw := bufio.NewWriter(w.output)
	total := 0

	n, err := bw.WriteString(strings.Join(t.Schema.Headers(), fieldSeparator) + lineTerminator)
	total += n
	if err != nil {
		return total, err
	}

	var line strings.Builder
	for _, row := range t.Rows {
		line.Reset()
		for i, value := range row {
			line.WriteString(value)
			if i < len(row)-1 || w.trailingSeparator {
				line.WriteString(fieldSeparator)
			}
		}
		line.WriteString(lineTerminator)

		n, err := bw.WriteString(line.String())
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, bw.Flush()
}

// WriteFile writes t to path, creating parent directories and truncating
// any existing file. The file is closed on every path; a failure part-way
// leaves it incomplete.
func WriteFile(path string, t *Table, opts ...WriterOption) (err error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // output tables are meant to be shared
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err := NewWriter(f, opts...).Write(t); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
