package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/labbot/internal/interpreter"
	"github.com/povarna/generative-ai-agents/labbot/internal/models"
	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// WithRequestID attaches a request id that Execute reports in its Outcome and logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type Executor struct {
	scanner     PIIScanner
	interpreter Interpreter
	logger      *zerolog.Logger
}

func NewExecutor(scanner PIIScanner, interpreter Interpreter, logger *zerolog.Logger) *Executor {
	return &Executor{
		scanner:     scanner,
		interpreter: interpreter,
		logger:      logger,
	}
}

// Execute runs validation, the PII gate and interpretation strictly in that order. The
// interpreter is never reached for a request that fails validation or carries PII.
func (e *Executor) Execute(ctx context.Context, body []byte) Outcome {
	now := time.Now()

	outcome, input := e.screen(ctx, body)
	if outcome.State.Terminal() {
		return outcome
	}

	response, err := e.interpreter.Interpret(ctx, input)
	if err != nil {
		kind, _ := interpreter.KindOf(err)
		e.logger.Warn().
			Str("requestID", outcome.RequestID).
			Str("errorKind", string(kind)).
			Dur("duration", time.Since(now)).
			Msg("interpretation failed")
		outcome.Err = err
		outcome.advance(StateFailedUpstream)
		return outcome
	}
	outcome.advance(StateInterpreted)

	outcome.Response = response
	outcome.advance(StateResponded)

	e.logger.Info().
		Str("requestID", outcome.RequestID).
		Int("labValues", len(input.LabValues)).
		Dur("duration", time.Since(now)).
		Msg("interpretation complete")

	return outcome
}

// Screen runs validation and the PII gate only. A request that passes ends in PII_CHECKED.
func (e *Executor) Screen(ctx context.Context, body []byte) Outcome {
	outcome, _ := e.screen(ctx, body)
	return outcome
}

func (e *Executor) screen(ctx context.Context, body []byte) (Outcome, models.LabResultsInput) {
	id := RequestIDFrom(ctx)
	if id == "" {
		id = uuid.NewString()
	}

	outcome := Outcome{RequestID: id}
	outcome.advance(StateReceived)

	input, err := models.ParseLabResultsInput(body)
	if err != nil {
		e.logger.Info().
			Str("requestID", id).
			Err(err).
			Msg("request rejected: invalid input")
		outcome.Err = err
		outcome.advance(StateRejectedInvalid)
		return outcome, input
	}
	outcome.advance(StateValidated)

	// The gate scans the raw document, so fields outside the schema are covered too.
	var tree any
	if err := json.Unmarshal(body, &tree); err != nil {
		outcome.Err = &models.ValidationError{Err: fmt.Errorf("%w: %v", models.ErrMalformedBody, err)}
		outcome.advance(StateRejectedInvalid)
		return outcome, input
	}

	if findings := e.scanner.Scan(tree); !findings.Empty() {
		outcome.PIITypes = findings.Types()
		e.logger.Warn().
			Str("requestID", id).
			Strs("piiTypes", outcome.PIITypes).
			Msg("request rejected: PII detected")
		outcome.advance(StateRejectedPII)
		return outcome, input
	}
	outcome.advance(StatePIIChecked)

	return outcome, input
}
