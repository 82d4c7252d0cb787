package gpt

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/povarna/generative-ai-agents/labbot/internal/llm"
)

type Client struct {
	Client  openai.Client
	ModelID string
}

func NewClient(apiKey string, model string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required: %w", llm.ErrNotConfigured)
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model ID is required: %w", llm.ErrNotConfigured)
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	openaiClient := openai.NewClient(opts...)

	return &Client{
		Client:  openaiClient,
		ModelID: model,
	}, nil
}
