package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/labbot/internal/citations"
	"github.com/povarna/generative-ai-agents/labbot/internal/executor"
	"github.com/povarna/generative-ai-agents/labbot/internal/models"
)

const (
	InterpretToolName = "interpret_lab_values"
	CitationToolName  = "lookup_lab_test_citation"
)

var errUnavailable = errors.New("lab interpretation service is temporarily unavailable, please try again later")

// CitationInput is the MCP tool input schema for citation lookup.
type CitationInput struct {
	TestName string `json:"test_name" jsonschema:"lab test name, e.g. Hemoglobin or TSH"`
}

type CitationOutput struct {
	Known      bool                  `json:"known" jsonschema:"true when the test has a specific mapping"`
	References []citations.Reference `json:"references" jsonschema:"references in priority order"`
}

// NewServer builds an MCP server exposing the interpretation pipeline and the citation catalog.
func NewServer(exec *executor.Executor, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "labbot",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        InterpretToolName,
		Description: "Interpret lab values in plain language with severity and citations. Requests containing personal information (names, SSN, phone, email, dates of birth) are rejected.",
	}, NewInterpretHandler(exec))

	mcp.AddTool(server, &mcp.Tool{
		Name:        CitationToolName,
		Description: "Look up authoritative references for a lab test by name.",
	}, LookupCitation)

	return server
}

// NewInterpretHandler returns a tool handler that uses the given executor.
// Pass the returned function to mcp.AddTool.
func NewInterpretHandler(exec *executor.Executor) func(context.Context, *mcp.CallToolRequest, models.LabResultsInput) (*mcp.CallToolResult, models.InterpretationResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input models.LabResultsInput) (*mcp.CallToolResult, models.InterpretationResponse, error) {
		return Interpret(ctx, exec, req, input)
	}
}

// Interpret runs the same pipeline as the HTTP API. Rejections and upstream failures are
// returned as tool errors naming only the PII categories or a generic message.
func Interpret(
	ctx context.Context,
	exec *executor.Executor,
	req *mcp.CallToolRequest,
	input models.LabResultsInput,
) (*mcp.CallToolResult, models.InterpretationResponse, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, models.InterpretationResponse{}, fmt.Errorf("failed to encode lab values: %w", err)
	}

	outcome := exec.Execute(ctx, body)

	switch outcome.State {
	case executor.StateResponded:
		return nil, *outcome.Response, nil
	case executor.StateRejectedInvalid:
		return nil, models.InterpretationResponse{}, fmt.Errorf("invalid lab values: %w", outcome.Err)
	case executor.StateRejectedPII:
		return nil, models.InterpretationResponse{}, fmt.Errorf("PII detected: %s", strings.Join(outcome.PIITypes, ", "))
	default:
		return nil, models.InterpretationResponse{}, errUnavailable
	}
}

func LookupCitation(ctx context.Context, req *mcp.CallToolRequest, input CitationInput) (*mcp.CallToolResult, CitationOutput, error) {
	if strings.TrimSpace(input.TestName) == "" {
		return nil, CitationOutput{}, errors.New("test_name is required")
	}

	return nil, CitationOutput{
		Known:      citations.IsKnown(input.TestName),
		References: citations.LookupAll(input.TestName),
	}, nil
}
