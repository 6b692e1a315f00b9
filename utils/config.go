package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"book-companion/llm"
)

// Config represents the application configuration. Every field has a
// documented default; a missing or unreadable config file degrades to those
// defaults instead of failing.
type Config struct {
	APIKey               string            `json:"api_key" toml:"api_key"`
	Model                string            `json:"model" toml:"model"`
	BaseURL              string            `json:"base_url" toml:"base_url"`
	Temperature          *float64          `json:"temperature,omitempty" toml:"temperature,omitempty"`
	MaxTokens            int               `json:"max_tokens" toml:"max_tokens"`
	AdditionalParameters map[string]any    `json:"additional_parameters,omitempty" toml:"additional_parameters"`
	Prompts              map[string]string `json:"prompts,omitempty" toml:"prompts"`
	Features             FeatureConfig     `json:"features" toml:"features"`
	DataDir              string            `json:"data_dir" toml:"data_dir"`
}

// FeatureConfig holds the feature toggles
type FeatureConfig struct {
	SaveHistory bool `json:"save_history" toml:"save_history"`
	Diagnostics bool `json:"diagnostics" toml:"diagnostics"`
}

// DefaultConfig returns the configuration used when nothing is on disk.
func DefaultConfig() *Config {
	return &Config{
		Model:     llm.DefaultModel,
		BaseURL:   llm.DefaultEndpoint,
		MaxTokens: llm.DefaultMaxTokens,
		Prompts: map[string]string{
			"explain":   "You are a reading companion. Explain the highlighted passage clearly and concisely.",
			"summarize": "You are a reading companion. Summarize the highlighted passage in a few sentences.",
			"translate": "You are a translator. Translate the highlighted passage into English.",
		},
		Features: FeatureConfig{SaveHistory: true, Diagnostics: true},
		DataDir:  "./data",
	}
}

// LoadConfig loads configuration from a JSON or TOML file, selected by
// extension. A missing file yields the defaults with a nil error; a file
// that exists but cannot be parsed also yields the defaults, with the parse
// error returned so the caller can log a warning.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		err = toml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	if config.DataDir != "" {
		config.DataDir = expandPath(config.DataDir)
	}

	return config, nil
}

// applyDefaults fills any field the file left empty.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaults.MaxTokens
	}
	if c.DataDir == "" {
		c.DataDir = defaults.DataDir
	}
	if len(c.Prompts) == 0 {
		c.Prompts = defaults.Prompts
	}
}

// RequestOptions converts the configuration into the per-call options handed
// to the engine.
func (c *Config) RequestOptions() llm.RequestOptions {
	return llm.RequestOptions{
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		EndpointURL: c.BaseURL,
		APIKey:      c.APIKey,
		ExtraParams: c.AdditionalParameters,
	}
}

// SaveConfig saves configuration to file, JSON or TOML by extension
func SaveConfig(configPath string, config *Config) error {
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		var buf strings.Builder
		err = toml.NewEncoder(&buf).Encode(config)
		data = []byte(buf.String())
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config path
func GetConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to current directory
		return "./config/config.json"
	}

	return filepath.Join(configDir, "book-companion", "config.json")
}

// EnsureDefaultConfig creates a default config file if it doesn't exist
func EnsureDefaultConfig() (string, error) {
	configPath := GetConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	if err := SaveConfig(configPath, DefaultConfig()); err != nil {
		return "", err
	}

	return configPath, nil
}

// expandPath expands ~ and relative paths
func expandPath(path string) string {
	if len(path) == 0 {
		return path
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	absPath, err := filepath.Abs(path)
	if err == nil {
		return absPath
	}

	return path
}
