// Package config loads and validates tqshacl configuration from YAML,
// with environment variable overrides layered on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all tqshacl configuration.
type Config struct {
	// External engine settings
	Engine EngineConfig `yaml:"engine"`

	// Inference loop settings
	Inference InferenceConfig `yaml:"inference"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig configures the external TopQuadrant engine invocation.
type EngineConfig struct {
	// Java binary to probe and hand to the launcher scripts.
	Java string `yaml:"java"`

	// Engine installation root; its bin/ holds the launcher scripts.
	Home string `yaml:"home"`

	// Explicit launcher paths. When set they win over Home and PATH lookup.
	InferCommand    string `yaml:"infer_command"`
	ValidateCommand string `yaml:"validate_command"`

	// Pass -noImports so the engine never resolves owl:imports itself.
	NoImports bool `yaml:"no_imports"`

	// Engine-side inference iteration cap (-maxiterations). Zero leaves the
	// engine's own default in place.
	MaxIterations int `yaml:"max_iterations"`
}

// InferenceConfig bounds the fixed-point inference loop.
type InferenceConfig struct {
	MinIterations       int  `yaml:"min_iterations"`
	MaxIterations       int  `yaml:"max_iterations"`
	EarlyIsomorphicExit bool `yaml:"early_isomorphic_exit"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Java:      "java",
			NoImports: true,
		},

		Inference: InferenceConfig{
			MinIterations: 1,
			MaxIterations: 10,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".tqshacl", "config.yaml")
	}
	return filepath.Join(cwd, ".tqshacl", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file is not an
// error; defaults apply. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if java := os.Getenv("TQSHACL_JAVA"); java != "" {
		c.Engine.Java = java
	}
	if home := os.Getenv("SHACL_HOME"); home != "" {
		c.Engine.Home = home
	}
	if level := os.Getenv("TQSHACL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// ValidLogLevels lists all supported logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists all supported logging formats.
var ValidLogFormats = []string{"json", "console"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	validFormat := false
	for _, f := range ValidLogFormats {
		if c.Logging.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidLogFormats)
	}

	if c.Inference.MinIterations < 0 {
		return fmt.Errorf("inference.min_iterations must not be negative: %d", c.Inference.MinIterations)
	}
	if c.Inference.MaxIterations < 0 {
		return fmt.Errorf("inference.max_iterations must not be negative: %d", c.Inference.MaxIterations)
	}
	// Zero max_iterations means "use the default cap", so the floor is only
	// checked against an explicit cap.
	if c.Inference.MaxIterations > 0 && c.Inference.MinIterations > c.Inference.MaxIterations {
		return fmt.Errorf("inference.min_iterations (%d) exceeds inference.max_iterations (%d)",
			c.Inference.MinIterations, c.Inference.MaxIterations)
	}
	if c.Engine.MaxIterations < 0 {
		return fmt.Errorf("engine.max_iterations must not be negative: %d", c.Engine.MaxIterations)
	}
	if c.Engine.Java == "" {
		return fmt.Errorf("engine.java must not be empty")
	}

	return nil
}
