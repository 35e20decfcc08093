package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every stage failure wraps exactly one of these so the CLI can
// pick a message and exit status with errors.Is.
var (
	// ErrTransport is a network failure or a non-2xx response while fetching a page.
	ErrTransport = errors.New("transport failure")

	// ErrInvalidIdentifier is returned when EDGAR reports no matching filer.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrUnexpectedPageStructure is returned when an expected link is missing
	// from an index or filing detail page.
	ErrUnexpectedPageStructure = errors.New("unexpected page structure")

	// ErrInvalidDocument is returned for malformed or empty holdings XML.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrCannotWriteOutput is returned when the output table cannot be written.
	ErrCannotWriteOutput = errors.New("cannot write output")
)

// StageError is the error returned by pipeline stages.
// It carries the stage name and URL being processed, the kind (one of the
// Err* sentinels above) and the underlying cause.
type StageError struct {
	// Stage is the name of the failing step (e.g. "select_filing").
	Stage string

	// URL is the page or document being processed, if any.
	URL string

	// Kind is one of the package sentinel errors.
	Kind error

	// Err is the underlying cause. May be nil.
	Err error
}

// NewStageError creates a StageError.
func NewStageError(stage, url string, kind, err error) *StageError {
	return &StageError{Stage: stage, URL: url, Kind: kind, Err: err}
}

// Error implements error.
func (e *StageError) Error() string {
	msg := e.Stage + ": " + e.Kind.Error()
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// MissingLinkError describes a link that could not be found on a page.
// It is used as the cause of an ErrUnexpectedPageStructure StageError.
type MissingLinkError struct {
	// Link names the lookup, e.g. "filing detail link".
	Link string

	// Want is the number of matching anchors needed.
	Want int

	// Found is the number of matching anchors present.
	Found int
}

// Error implements error.
func (e *MissingLinkError) Error() string {
	return fmt.Sprintf("%s not found: need %d matching anchor(s), page has %d", e.Link, e.Want, e.Found)
}
