package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a provider cannot be built because its credentials are missing.
var ErrNotConfigured = errors.New("llm provider is not configured")

// LLMClient is an interface for invoking LLM models
// This allows mocking in tests without making real API calls
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}
