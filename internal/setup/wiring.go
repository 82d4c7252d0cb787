package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/labbot/internal/config"
	"github.com/povarna/generative-ai-agents/labbot/internal/executor"
	"github.com/povarna/generative-ai-agents/labbot/internal/interpreter"
	"github.com/povarna/generative-ai-agents/labbot/internal/llm"
	"github.com/povarna/generative-ai-agents/labbot/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/labbot/internal/llm/claude"
	"github.com/povarna/generative-ai-agents/labbot/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/labbot/internal/pii"
	"github.com/rs/zerolog"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8000",
	"http://localhost",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8000",
}

type Config struct {
	LLMProvider           string
	AnthropicAPIKey       string
	AnthropicModelID      string
	AWSRegion             string
	ClaudeModelID         string
	OpenAIKey             string
	OpenAIModelID         string
	LLMTimeout            time.Duration
	LogLevel              string
	APIPort               string
	CORSOrigins           []string
	InterpreterConfigPath string
}

type Dependencies struct {
	Executor          *executor.Executor
	InterpreterConfig *config.InterpreterConfig
	Logger            *zerolog.Logger
}

// LoadConfig reads the process configuration from the environment once at start-up.
func LoadConfig() *Config {
	return &Config{
		LLMProvider:           strings.ToLower(getEnv("LLM_PROVIDER", llm.ProviderAnthropic)),
		AnthropicAPIKey:       getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModelID:      getEnv("ANTHROPIC_MODEL_ID", claude.DefaultModelID),
		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:         getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:             getEnv("OPENAI_API_KEY", ""),
		OpenAIModelID:         getEnv("OPENAI_MODEL_ID", ""),
		LLMTimeout:            getEnvDuration("LLM_TIMEOUT", 30*time.Second),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		APIPort:               getEnv("LABBOT_API_PORT", "8000"),
		CORSOrigins:           getEnvList("CORS_ORIGINS", defaultCORSOrigins),
		InterpreterConfigPath: getEnv("INTERPRETER_CONFIG_PATH", ""),
	}
}

// Wire builds the interpretation pipeline. Missing model credentials are not fatal: the
// pipeline is still built and every interpretation reports a not-configured failure.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	interpreterConfig, err := config.LoadInterpreterConfig(cfg.InterpreterConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load interpreter config: %w", err)
	}

	llmClient, err := createLLMClient(ctx, cfg)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLMProvider, err)
		}
		logger.Warn().
			Str("provider", cfg.LLMProvider).
			Msg("LLM provider not configured; interpretation requests will fail with 503")
		llmClient = nil
	}

	interp, err := interpreter.NewInterpreter(llmClient, interpreterConfig, cfg.LLMTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter: %w", err)
	}

	exec := executor.NewExecutor(pii.Scanner{}, interp, logger)

	return &Dependencies{
		Executor:          exec,
		InterpreterConfig: interpreterConfig,
		Logger:            logger,
	}, nil
}

// createLLMClient returns an untyped nil interface on failure so callers can compare against nil.
func createLLMClient(ctx context.Context, cfg *Config) (llm.LLMClient, error) {
	switch cfg.LLMProvider {
	case llm.ProviderBedrock:
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
		if err != nil {
			return nil, err
		}
		return client, nil
	case llm.ProviderOpenAI:
		client, err := gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
		if err != nil {
			return nil, err
		}
		return client, nil
	case llm.ProviderAnthropic, "":
		client, err := claude.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModelID)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		value = defaultValue
	}

	return value
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	var values []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}

	return values
}
