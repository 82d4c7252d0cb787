package batch

import (
	"context"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/labbot/internal/executor"
	"github.com/povarna/generative-ai-agents/labbot/internal/interpreter"
	"github.com/povarna/generative-ai-agents/labbot/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

// Pipeline is the part of the executor the processor drives.
type Pipeline interface {
	Execute(ctx context.Context, body []byte) executor.Outcome
	Screen(ctx context.Context, body []byte) executor.Outcome
}

// Result is one output record. Exactly one of Response, PIITypes or Error is set.
type Result struct {
	ID         string                         `json:"id"`
	LineNumber int                            `json:"line"`
	State      executor.State                 `json:"state"`
	Response   *models.InterpretationResponse `json:"response,omitempty"`
	PIITypes   []string                       `json:"pii_types,omitempty"`
	ErrorKind  string                         `json:"error_kind,omitempty"`
	Error      string                         `json:"error,omitempty"`
}

type Processor struct {
	pipeline Pipeline
	workers  int
	dryRun   bool
	logger   *zerolog.Logger
}

func NewProcessor(pipeline Pipeline, workers int, logger *zerolog.Logger) *Processor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Processor{
		pipeline: pipeline,
		workers:  workers,
		logger:   logger,
	}
}

// WithDryRun stops every record after the PII gate, so no model calls are made.
func (p *Processor) WithDryRun(dryRun bool) *Processor {
	p.dryRun = dryRun
	return p
}

// Process runs records through the pipeline with at most p.workers in flight. Results arrive
// in completion order; the channel closes when all records are done or ctx is cancelled.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	results := make(chan Result, p.workers)

	go func() {
		defer close(results)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)

		for _, record := range records {
			if gctx.Err() != nil {
				p.logger.Warn().Int("line", record.LineNumber).Msg("processing cancelled")
				break
			}

			g.Go(func() error {
				result := p.processOne(gctx, record)
				select {
				case results <- result:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}

		if err := g.Wait(); err != nil {
			p.logger.Warn().Err(err).Msg("batch processing stopped early")
		}
	}()

	return results
}

func (p *Processor) processOne(ctx context.Context, record InputRecord) Result {
	id := uuid.NewString()

	if record.Error != nil {
		return Result{
			ID:         id,
			LineNumber: record.LineNumber,
			State:      executor.StateRejectedInvalid,
			Error:      record.Error.Error(),
		}
	}

	ctx = executor.WithRequestID(ctx, id)

	var outcome executor.Outcome
	if p.dryRun {
		outcome = p.pipeline.Screen(ctx, record.Body)
	} else {
		outcome = p.pipeline.Execute(ctx, record.Body)
	}

	result := Result{
		ID:         outcome.RequestID,
		LineNumber: record.LineNumber,
		State:      outcome.State,
		Response:   outcome.Response,
		PIITypes:   outcome.PIITypes,
	}

	switch outcome.State {
	case executor.StateRejectedInvalid:
		result.Error = outcome.Err.Error()
	case executor.StateFailedUpstream:
		// Upstream detail stays in the logs; the record only carries the category.
		kind, _ := interpreter.KindOf(outcome.Err)
		result.ErrorKind = string(kind)
		result.Error = "interpretation service unavailable"
	}

	return result
}
