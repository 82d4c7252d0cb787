package executor

import (
	"github.com/povarna/generative-ai-agents/labbot/internal/models"
)

// State is a step of the per-request pipeline.
type State string

const (
	StateReceived    State = "RECEIVED"
	StateValidated   State = "VALIDATED"
	StatePIIChecked  State = "PII_CHECKED"
	StateInterpreted State = "INTERPRETED"
	StateResponded   State = "RESPONDED"

	StateRejectedInvalid State = "REJECTED_INVALID"
	StateRejectedPII     State = "REJECTED_PII"
	StateFailedUpstream  State = "FAILED_UPSTREAM"
)

func (s State) Terminal() bool {
	switch s {
	case StateResponded, StateRejectedInvalid, StateRejectedPII, StateFailedUpstream:
		return true
	}
	return false
}

// Outcome is the result of one pipeline run. Exactly one of Response, PIITypes or Err is set,
// matching State.
type Outcome struct {
	RequestID string
	State     State
	// Path lists every state the request passed through, ending with State.
	Path     []State
	Response *models.InterpretationResponse
	PIITypes []string
	Err      error
}

func (o *Outcome) advance(state State) {
	o.State = state
	o.Path = append(o.Path, state)
}
