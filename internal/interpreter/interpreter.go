// Package interpreter turns validated lab values into an interpretation by making a single
// call to a language model and checking that the reply has the expected shape.
package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/povarna/generative-ai-agents/labbot/internal/citations"
	"github.com/povarna/generative-ai-agents/labbot/internal/config"
	"github.com/povarna/generative-ai-agents/labbot/internal/llm"
	"github.com/povarna/generative-ai-agents/labbot/internal/models"
	"github.com/rs/zerolog"
)

type Interpreter struct {
	llmClient      llm.LLMClient
	promptTemplate *template.Template
	modelConfig    config.ModelConfig
	timeout        time.Duration
	logger         *zerolog.Logger
}

// NewInterpreter accepts a nil client; Interpret then reports KindNotConfigured.
func NewInterpreter(
	llmClient llm.LLMClient,
	cfg *config.InterpreterConfig,
	timeout time.Duration,
	logger *zerolog.Logger,
) (*Interpreter, error) {
	tmpl, err := cfg.PromptTemplate()
	if err != nil {
		return nil, err
	}

	return &Interpreter{
		llmClient:      llmClient,
		promptTemplate: tmpl,
		modelConfig:    cfg.Interpreter.Model,
		timeout:        timeout,
		logger:         logger,
	}, nil
}

// promptValue is the per-value shape embedded in the prompt. Missing reference bounds are
// rendered as null.
type promptValue struct {
	Name         string   `json:"name"`
	Value        float64  `json:"value"`
	Unit         string   `json:"unit"`
	ReferenceMin *float64 `json:"reference_min"`
	ReferenceMax *float64 `json:"reference_max"`
}

func (i *Interpreter) BuildPrompt(values []models.LabValue) (string, error) {
	embedded := make([]promptValue, 0, len(values))
	for _, v := range values {
		embedded = append(embedded, promptValue{
			Name:         v.Name,
			Value:        valueOf(v.Value),
			Unit:         v.Unit,
			ReferenceMin: v.ReferenceMin,
			ReferenceMax: v.ReferenceMax,
		})
	}

	valuesJSON, err := json.MarshalIndent(embedded, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode lab values: %w", err)
	}

	var buf bytes.Buffer
	if err := i.promptTemplate.Execute(&buf, config.PromptData{
		Count:         len(values),
		LabValuesJSON: string(valuesJSON),
	}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	return buf.String(), nil
}

type modelReply struct {
	Results    []modelResult `json:"results"`
	Disclaimer string        `json:"disclaimer"`
	Summary    string        `json:"summary"`
}

type modelResult struct {
	Name        string `json:"name"`
	Severity    string `json:"severity"`
	Explanation string `json:"explanation"`
	Citation    string `json:"citation"`
}

// Interpret performs exactly one model call. Every failure is a *ServiceError.
func (i *Interpreter) Interpret(ctx context.Context, input models.LabResultsInput) (*models.InterpretationResponse, error) {
	if i.llmClient == nil {
		return nil, notConfigured("no language model credentials configured")
	}

	prompt, err := i.BuildPrompt(input.LabValues)
	if err != nil {
		return nil, malformed("failed to build prompt", err)
	}

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	now := time.Now()
	resp, err := i.llmClient.InvokeModel(ctx, llm.LLMRequest{
		Prompt:      prompt,
		MaxTokens:   i.modelConfig.MaxTokens,
		Temperature: i.modelConfig.Temperature,
	})
	if err != nil {
		i.logger.Error().
			Err(err).
			Dur("duration", time.Since(now)).
			Msg("LLM call failed")
		return nil, transport(err)
	}
	if resp == nil {
		return nil, transport(fmt.Errorf("empty response from model"))
	}

	i.logger.Debug().
		Int("reply_bytes", len(resp.Content)).
		Str("stop_reason", resp.StopReason).
		Dur("duration", time.Since(now)).
		Msg("LLM call completed")

	if resp.Truncated() {
		i.logger.Warn().
			Int("max_tokens", i.modelConfig.MaxTokens).
			Int("lab_values", len(input.LabValues)).
			Msg("LLM reply cut off at max_tokens")
	}

	return i.parseReply(resp.Content, input.LabValues)
}

func (i *Interpreter) parseReply(content string, values []models.LabValue) (*models.InterpretationResponse, error) {
	var reply modelReply
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &reply); err != nil {
		return nil, malformed("model reply is not valid JSON", err)
	}

	if len(reply.Results) != len(values) {
		return nil, malformed(fmt.Sprintf("expected %d results, got %d", len(values), len(reply.Results)), nil)
	}

	disclaimer := strings.TrimSpace(reply.Disclaimer)
	if disclaimer == "" {
		return nil, malformed("model reply has no disclaimer", nil)
	}

	results := make([]models.InterpretedValue, 0, len(values))
	for idx, result := range reply.Results {
		severity, ok := models.ParseSeverity(result.Severity)
		if !ok {
			return nil, malformed(fmt.Sprintf("result %d has unknown severity", idx), nil)
		}

		explanation := strings.TrimSpace(result.Explanation)
		if explanation == "" {
			return nil, malformed(fmt.Sprintf("result %d has no explanation", idx), nil)
		}

		// Name, value and unit always come from the input so the response lines up with it.
		input := values[idx]
		results = append(results, models.InterpretedValue{
			Name:        input.Name,
			Value:       valueOf(input.Value),
			Unit:        input.Unit,
			Severity:    severity,
			Explanation: explanation,
			Citation:    citationFor(input.Name, result.Citation),
		})
	}

	return &models.InterpretationResponse{
		Results:    results,
		Disclaimer: disclaimer,
		Summary:    strings.TrimSpace(reply.Summary),
	}, nil
}

// citationFor keeps the model's citation when it carries a link and otherwise falls back to the
// catalog entry for the test.
func citationFor(name, citation string) string {
	citation = strings.TrimSpace(citation)
	if citation != "" && strings.Contains(citation, "http") {
		return citation
	}
	return citations.LookupPreferred(name).String()
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// stripCodeFence unwraps a reply sent as a single ``` or ```json fenced block. Fences tagged
// with another language, or left unclosed, are returned as is so they fail JSON parsing.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)

	opening, body, found := strings.Cut(content, "\n")
	if !found || !strings.HasPrefix(opening, "```") {
		return content
	}
	if lang := strings.TrimSpace(strings.TrimPrefix(opening, "```")); lang != "" && !strings.EqualFold(lang, "json") {
		return content
	}

	body, closed := strings.CutSuffix(strings.TrimSpace(body), "```")
	if !closed {
		return content
	}
	return strings.TrimSpace(body)
}
