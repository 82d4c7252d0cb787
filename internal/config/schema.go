package config

// InterpreterConfig holds the prompt and model parameters used for lab value interpretation.
type InterpreterConfig struct {
	Interpreter InterpreterSettings `yaml:"interpreter"`
}

type InterpreterSettings struct {
	// Prompt is a text/template rendered with PromptData.
	Prompt     string      `yaml:"prompt"`
	Disclaimer string      `yaml:"disclaimer"`
	Model      ModelConfig `yaml:"model"`
}

type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// PromptData is the value the prompt template is executed against.
type PromptData struct {
	Count         int
	LabValuesJSON string
}
