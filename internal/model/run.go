package model

import (
	"time"
)

// Run records a single conversion of an identifier's most recent filing.
// Each pipeline step fills in the fields it is responsible for, so a failed
// run still shows how far it got.
type Run struct {
	// Identifier is the ticker or CIK supplied by the caller.
	Identifier string `json:"identifier"`

	// OutputPath is the file the table is written to.
	OutputPath string `json:"output_path"`

	// IndexURL is the filing list URL built by the index resolver.
	IndexURL string `json:"index_url,omitempty"`

	// FilingURL is the most recent filing detail page.
	FilingURL string `json:"filing_url,omitempty"`

	// DocumentURL is the holdings XML document.
	DocumentURL string `json:"document_url,omitempty"`

	// Columns are the header names of the inferred schema, in order.
	Columns []string `json:"columns,omitempty"`

	// RowCount is the number of data rows written (header excluded).
	RowCount int `json:"row_count"`

	// MissingFields counts placeholder cells per column header.
	MissingFields map[string]int `json:"missing_fields,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run ended, successfully or not.
	FinishedAt time.Time `json:"finished_at"`

	// Steps lists the pipeline steps that completed.
	Steps []string `json:"steps,omitempty"`

	// Error is the error that stopped the run, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRun creates a Run for the given identifier and output path.
func NewRun(identifier, outputPath string) *Run {
	return &Run{
		Identifier:    identifier,
		OutputPath:    outputPath,
		MissingFields: make(map[string]int),
		StartedAt:     time.Now(),
	}
}

// Succeeded reports whether the run finished without an error.
func (r *Run) Succeeded() bool {
	return r.Error == nil
}

// Duration returns the wall time of the run.
// It is zero until FinishedAt is set.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// TotalMissing returns the number of placeholder cells across all columns.
func (r *Run) TotalMissing() int {
	total := 0
	for _, n := range r.MissingFields {
		total += n
	}
	return total
}
