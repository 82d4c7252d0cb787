package llm

type LLMRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type LLMResponse struct {
	Content    string
	StopReason string
}

// Truncated reports whether the model stopped because it ran out of output tokens. Anthropic
// and Bedrock report "max_tokens", OpenAI reports "length".
func (r *LLMResponse) Truncated() bool {
	return r.StopReason == "max_tokens" || r.StopReason == "length"
}

const (
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
	ProviderOpenAI    = "openai"
)
