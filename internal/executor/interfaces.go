package executor

import (
	"context"

	"github.com/povarna/generative-ai-agents/labbot/internal/models"
	"github.com/povarna/generative-ai-agents/labbot/internal/pii"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// PIIScanner reports the PII categories found in a decoded JSON tree
type PIIScanner interface {
	Scan(data any) pii.Findings
}

// Interpreter produces an interpretation for validated lab values
type Interpreter interface {
	Interpret(ctx context.Context, input models.LabResultsInput) (*models.InterpretationResponse, error)
}
