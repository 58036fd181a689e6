package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vampirenirmal/codesmith/internal/core"
)

type Config struct {
	AI       AIConfig       `yaml:"ai" validate:"required"`
	Pipeline PipelineConfig `yaml:"pipeline" validate:"required"`
	Paths    PathsConfig    `yaml:"paths"`
	Limits   Limits         `yaml:"limits" validate:"required"`
}

type AIConfig struct {
	APIKey  string `yaml:"api_key" validate:"required,min=20"`
	Model   string `yaml:"model" validate:"required"`
	BaseURL string `yaml:"base_url" validate:"required,url"`
	Timeout int    `yaml:"timeout" validate:"required,min=10,max=3600"`
}

type PipelineConfig struct {
	MaxIterations  int      `yaml:"max_iterations" validate:"required,min=1,max=10"`
	RetryAttempts  int      `yaml:"retry_attempts" validate:"required,min=1,max=10"`
	RetryBaseDelay Duration `yaml:"retry_base_delay" validate:"min=0"`
}

type PathsConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// Load reads the config file, fills gaps from the environment, and
// validates the result. A missing file yields the defaults; the API key
// then must come from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configPath := DefaultPath()

	cfg := Default()
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Defaults only; the environment supplies the key below.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if cfg.AI.APIKey == "" || strings.HasPrefix(cfg.AI.APIKey, "${") {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.AI.APIKey = key
		} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			cfg.AI.APIKey = key
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration, pointed at OpenAI.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			Model:   "gpt-4o-mini",
			BaseURL: "https://api.openai.com/v1",
			Timeout: 300,
		},
		Pipeline: PipelineConfig{
			MaxIterations:  3,
			RetryAttempts:  3,
			RetryBaseDelay: Duration(time.Second),
		},
		Limits: DefaultLimits(),
	}
}

// DefaultPath returns the config file location: CODESMITH_CONFIG if set,
// otherwise the XDG config directory.
func DefaultPath() string {
	if path := os.Getenv("CODESMITH_CONFIG"); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "codesmith", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "codesmith", "config.yaml")
}

// expandTilde expands a leading ~/ to the user's home directory.
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) validate() error {
	if c.Paths.OutputDir == "" {
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			c.Paths.OutputDir = filepath.Join(xdgData, "codesmith", "output")
		} else {
			home, _ := os.UserHomeDir()
			c.Paths.OutputDir = filepath.Join(home, ".local", "share", "codesmith", "output")
		}
	} else {
		c.Paths.OutputDir = expandTilde(c.Paths.OutputDir)
	}

	if c.Limits.MaxConcurrentRuns == 0 {
		c.Limits = DefaultLimits()
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// CoreConfig maps the pipeline settings onto the orchestrator's config.
func (c *Config) CoreConfig() core.Config {
	retry := core.DefaultRetryPolicy()
	retry.MaxAttempts = c.Pipeline.RetryAttempts
	if c.Pipeline.RetryBaseDelay > 0 {
		retry.BaseDelay = c.Pipeline.RetryBaseDelay.Std()
	}

	return core.Config{
		MaxIterations: c.Pipeline.MaxIterations,
		Retry:         retry,
		StageTimeouts: map[string]time.Duration{
			core.StageRequirementAnalysis: c.Limits.StageTimeouts.Analysis.Std(),
			core.StageCodeGeneration:      c.Limits.StageTimeouts.Generation.Std(),
			core.StageCodeReview:          c.Limits.StageTimeouts.Review.Std(),
			core.StageDocumentation:       c.Limits.StageTimeouts.Documentation.Std(),
			core.StageTestGeneration:      c.Limits.StageTimeouts.Testing.Std(),
			core.StageDeployment:          c.Limits.StageTimeouts.Deployment.Std(),
		},
	}
}

// Save writes the config with the API key replaced by an environment
// placeholder, so the key never lands on disk.
func Save(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	cfgToSave := *cfg
	cfgToSave.AI.APIKey = "${OPENAI_API_KEY}"

	data, err := yaml.Marshal(&cfgToSave)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}
