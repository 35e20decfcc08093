package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/seantchan/cik-parser/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Do executes the step against run.
	// It returns a *model.StageError when the step fails.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order and stops at the first failure.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence.
// The first failing step's error is recorded in run and returned. A
// cancelled context stops the pipeline before the next step starts and is
// reported as a transport failure of that step.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) (err error) {
	defer func() {
		run.FinishedAt = time.Now()
		if err != nil {
			run.Error = err
			run.ErrorMessage = err.Error()
		}
	}()

	for _, step := range p.steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			p.logger.Debug("pipeline cancelled",
				"step", step.Name(),
				"reason", ctxErr,
			)
			return model.NewStageError(step.Name(), "", model.ErrTransport, ctxErr)
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"identifier", run.Identifier,
		)

		if err := step.Do(ctx, run); err != nil {
			// The caller reports the failure to the user.
			p.logger.Debug("step failed",
				"step", step.Name(),
				"identifier", run.Identifier,
				"error", err,
			)
			var stageErr *model.StageError
			if !errors.As(err, &stageErr) {
				err = model.NewStageError(step.Name(), "", model.ErrTransport, err)
			}
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"identifier", run.Identifier,
		)
		run.Steps = append(run.Steps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
