// Package config loads and validates the weave.yaml project file.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config describes one documentation project.
type Config struct {
	// Input is the directory scanned for *.md documents.
	Input string `yaml:"input" validate:"required"`

	// OutputDir receives the rendered files.
	OutputDir string `yaml:"output" validate:"required"`

	// Format selects the renderer.
	Format string `yaml:"format" validate:"omitempty,oneof=html latex"`

	// Template is an optional custom page template path.
	Template string `yaml:"template"`

	// Engine selects the interpreter backend for embedded snippets.
	Engine string `yaml:"engine" validate:"omitempty,oneof=goja tengo"`

	// Startup snippets run once when the evaluation session is created.
	Startup []string `yaml:"startup"`

	// Eval disables snippet evaluation entirely when false.
	Eval *bool `yaml:"eval"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// EvalEnabled reports whether snippet evaluation is on. It defaults to true
// when the field is omitted.
func (c *Config) EvalEnabled() bool {
	return c.Eval == nil || *c.Eval
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Load reads, unmarshals and validates a config file, applying defaults for
// omitted fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validatorInstance().Struct(&cfg); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
			fe := ves[0]
			return nil, fmt.Errorf("invalid config: field %q failed rule %q", fe.Field(), fe.Tag())
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no weave.yaml exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Input == "" {
		cfg.Input = "docs"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.Format == "" {
		cfg.Format = "html"
	}
	if cfg.Engine == "" {
		cfg.Engine = "goja"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
