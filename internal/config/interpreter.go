package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"go.yaml.in/yaml/v3"
)

const DefaultMaxTokens = 4096

//go:embed interpreter.yaml
var defaultInterpreterYAML []byte

// LoadInterpreterConfig reads the YAML file at path, or the embedded default when path is empty.
func LoadInterpreterConfig(path string) (*InterpreterConfig, error) {
	data := defaultInterpreterYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read interpreter config %s: %w", path, err)
		}
	}

	return ParseInterpreterConfig(data)
}

func ParseInterpreterConfig(data []byte) (*InterpreterConfig, error) {
	var cfg InterpreterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse interpreter config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *InterpreterConfig) {
	if cfg.Interpreter.Model.MaxTokens == 0 {
		cfg.Interpreter.Model.MaxTokens = DefaultMaxTokens
	}
	cfg.Interpreter.Disclaimer = strings.TrimSpace(cfg.Interpreter.Disclaimer)
}

func (c *InterpreterConfig) Validate() error {
	if strings.TrimSpace(c.Interpreter.Prompt) == "" {
		return errors.New("interpreter prompt must not be empty")
	}

	tmpl, err := c.PromptTemplate()
	if err != nil {
		return err
	}

	// The rendered prompt must actually embed the lab values.
	var probe bytes.Buffer
	marker := "\x00lab-values\x00"
	if err := tmpl.Execute(&probe, PromptData{Count: 1, LabValuesJSON: marker}); err != nil {
		return fmt.Errorf("interpreter prompt cannot be rendered: %w", err)
	}
	if !strings.Contains(probe.String(), marker) {
		return errors.New("interpreter prompt must reference {{.LabValuesJSON}}")
	}

	if c.Interpreter.Model.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.Interpreter.Model.MaxTokens)
	}
	if c.Interpreter.Model.Temperature < 0 || c.Interpreter.Model.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", c.Interpreter.Model.Temperature)
	}

	return nil
}

func (c *InterpreterConfig) PromptTemplate() (*template.Template, error) {
	tmpl, err := template.New("interpreter").Option("missingkey=error").Parse(c.Interpreter.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse interpreter prompt template: %w", err)
	}
	return tmpl, nil
}
