package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/seantchan/cik-parser/internal/edgar"
	"github.com/seantchan/cik-parser/internal/holdings"
	"github.com/seantchan/cik-parser/internal/model"
)

// FilingLocator finds the filing and holdings document URLs on EDGAR.
// *edgar.Client implements it.
type FilingLocator interface {
	LatestFiling(ctx context.Context, indexURL string) (string, error)
	HoldingsDocument(ctx context.Context, filingURL string) (string, error)
}

// Fetcher retrieves a document. *edgar.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*edgar.Response, error)
}

// ResolveIndexStep builds the filing index URL for the run's identifier.
type ResolveIndexStep struct {
	baseURL     string
	filingType  string
	filingCount int
}

// NewResolveIndexStep creates a ResolveIndexStep.
func NewResolveIndexStep(baseURL, filingType string, filingCount int) *ResolveIndexStep {
	return &ResolveIndexStep{
		baseURL:     baseURL,
		filingType:  filingType,
		filingCount: filingCount,
	}
}

// Name returns the step name.
func (s *ResolveIndexStep) Name() string {
	return model.StageResolveIndex
}

// Do executes the step. It cannot fail.
func (s *ResolveIndexStep) Do(_ context.Context, run *model.Run) error {
	run.IndexURL = edgar.IndexURL(s.baseURL, run.Identifier, s.filingType, s.filingCount)
	return nil
}

// SelectFilingStep picks the most recent filing from the index page.
type SelectFilingStep struct {
	locator FilingLocator
}

// NewSelectFilingStep creates a SelectFilingStep.
func NewSelectFilingStep(locator FilingLocator) *SelectFilingStep {
	return &SelectFilingStep{locator: locator}
}

// Name returns the step name.
func (s *SelectFilingStep) Name() string {
	return model.StageSelectFiling
}

// Do executes the step.
func (s *SelectFilingStep) Do(ctx context.Context, run *model.Run) error {
	filingURL, err := s.locator.LatestFiling(ctx, run.IndexURL)
	if err != nil {
		return err
	}
	run.FilingURL = filingURL
	return nil
}

// LocateDocumentStep picks the holdings XML from the filing detail page.
type LocateDocumentStep struct {
	locator FilingLocator
}

// NewLocateDocumentStep creates a LocateDocumentStep.
func NewLocateDocumentStep(locator FilingLocator) *LocateDocumentStep {
	return &LocateDocumentStep{locator: locator}
}

// Name returns the step name.
func (s *LocateDocumentStep) Name() string {
	return model.StageLocateDocument
}

// Do executes the step.
func (s *LocateDocumentStep) Do(ctx context.Context, run *model.Run) error {
	documentURL, err := s.locator.HoldingsDocument(ctx, run.FilingURL)
	if err != nil {
		return err
	}
	run.DocumentURL = documentURL
	return nil
}

// FlattenStep fetches the holdings document and writes it as a table to the
// run's output path.
type FlattenStep struct {
	fetcher           Fetcher
	placeholder       string
	trailingSeparator bool

	// notice receives the "Writing to ..." progress line.
	notice io.Writer

	logger *slog.Logger
}

// FlattenStepOption configures a FlattenStep.
type FlattenStepOption func(*FlattenStep)

// WithPlaceholder sets the text written for absent fields.
func WithPlaceholder(placeholder string) FlattenStepOption {
	return func(s *FlattenStep) {
		s.placeholder = placeholder
	}
}

// WithTrailingSeparator controls the tab after the last value of each row.
func WithTrailingSeparator(trailing bool) FlattenStepOption {
	return func(s *FlattenStep) {
		s.trailingSeparator = trailing
	}
}

// WithNotice sets where the progress line is printed.
func WithNotice(w io.Writer) FlattenStepOption {
	return func(s *FlattenStep) {
		s.notice = w
	}
}

// WithFlattenLogger sets a custom logger for the flatten step.
func WithFlattenLogger(logger *slog.Logger) FlattenStepOption {
	return func(s *FlattenStep) {
		s.logger = logger
	}
}

// NewFlattenStep creates a FlattenStep.
func NewFlattenStep(fetcher Fetcher, opts ...FlattenStepOption) *FlattenStep {
	s := &FlattenStep{
		fetcher:           fetcher,
		placeholder:       "N/A ",
		trailingSeparator: true,
		notice:            io.Discard,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *FlattenStep) Name() string {
	return model.StageFlatten
}

// Do executes the step. The output file is only created once the document
// has been parsed and flattened; the progress line follows a successful write.
func (s *FlattenStep) Do(ctx context.Context, run *model.Run) error {
	resp, err := s.fetcher.Fetch(ctx, run.DocumentURL)
	if err != nil {
		return model.NewStageError(s.Name(), run.DocumentURL, model.ErrTransport, err)
	}

	root, err := holdings.Parse(resp.Reader())
	if err != nil {
		return model.NewStageError(s.Name(), run.DocumentURL, model.ErrInvalidDocument, err)
	}

	table, err := holdings.Flatten(root, s.placeholder)
	if err != nil {
		return model.NewStageError(s.Name(), run.DocumentURL, model.ErrInvalidDocument, err)
	}

	s.logger.Debug("inferred schema",
		"url", resp.URL,
		"columns", len(table.Schema),
		"rows", len(table.Rows),
	)
	if table.Dropped > 0 {
		s.logger.Debug("dropped repeated fields beyond the schema",
			"url", resp.URL,
			"values", table.Dropped,
		)
	}

	err = holdings.WriteFile(run.OutputPath, table, holdings.WithTrailingSeparator(s.trailingSeparator))
	if err != nil {
		return model.NewStageError(s.Name(), run.OutputPath, model.ErrCannotWriteOutput, err)
	}

	fmt.Fprintln(s.notice, "Writing to", run.OutputPath, "...")

	run.Columns = table.Schema.Headers()
	run.RowCount = len(table.Rows)
	run.MissingFields = table.MissingByHeader()
	return nil
}

// Settings holds what DefaultPipeline needs beyond the EDGAR client.
type Settings struct {
	BaseURL           string
	FilingType        string
	FilingCount       int
	Placeholder       string
	TrailingSeparator bool
	Notice            io.Writer
}

// DefaultPipeline creates the full conversion pipeline around client.
func DefaultPipeline(client *edgar.Client, settings Settings, opts ...Option) *Pipeline {
	p := New(opts...)

	notice := settings.Notice
	if notice == nil {
		notice = io.Discard
	}

	p.AddSteps(
		NewResolveIndexStep(settings.BaseURL, settings.FilingType, settings.FilingCount),
		NewSelectFilingStep(client),
		NewLocateDocumentStep(client),
		NewFlattenStep(client,
			WithPlaceholder(settings.Placeholder),
			WithTrailingSeparator(settings.TrailingSeparator),
			WithNotice(notice),
			WithFlattenLogger(p.logger),
		),
	)
	return p
}
