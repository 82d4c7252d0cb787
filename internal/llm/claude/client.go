// Package claude talks to the Anthropic Messages API directly.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/povarna/generative-ai-agents/labbot/internal/llm"
)

const DefaultModelID = "claude-3-haiku-20240307"

type Client struct {
	Client  anthropic.Client
	ModelID string
}

func NewClient(apiKey string, model string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required: %w", llm.ErrNotConfigured)
	}
	if model == "" {
		model = DefaultModelID
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &Client{
		Client:  anthropic.NewClient(opts...),
		ModelID: model,
	}, nil
}

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	message, err := c.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.ModelID),
		MaxTokens:   int64(request.MaxTokens),
		Temperature: anthropic.Float(request.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to invoke anthropic model: %w", err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return &llm.LLMResponse{
		Content:    content.String(),
		StopReason: string(message.StopReason),
	}, nil
}
