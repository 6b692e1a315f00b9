package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-companion/llm"
)

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", config.Model)
	assert.Equal(t, llm.DefaultEndpoint, config.BaseURL)
	assert.Nil(t, config.Temperature)
	assert.Equal(t, llm.DefaultMaxTokens, config.MaxTokens)
	assert.True(t, config.Features.SaveHistory)
	assert.NotEmpty(t, config.Prompts)
}

func TestLoadConfigCorruptFileYieldsDefaultsWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	config, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Equal(t, "gpt-4o-mini", config.Model)
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"api_key": "sk-test",
		"model": "o1-mini",
		"temperature": 0.3,
		"additional_parameters": {"top_p": 0.9},
		"prompts": {"vocab": "Define the highlighted word."}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", config.APIKey)
	assert.Equal(t, "o1-mini", config.Model)
	require.NotNil(t, config.Temperature)
	assert.Equal(t, 0.3, *config.Temperature)
	assert.Equal(t, 0.9, config.AdditionalParameters["top_p"])
	assert.Equal(t, "Define the highlighted word.", config.Prompts["vocab"])
	// unset fields fall back to the defaults
	assert.Equal(t, llm.DefaultEndpoint, config.BaseURL)
	assert.Equal(t, llm.DefaultMaxTokens, config.MaxTokens)
}

func TestLoadConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
api_key = "sk-toml"
model = "gpt-4o"
max_tokens = 2048

[prompts]
explain = "Explain it simply."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-toml", config.APIKey)
	assert.Equal(t, "gpt-4o", config.Model)
	assert.Equal(t, 2048, config.MaxTokens)
	assert.Equal(t, "Explain it simply.", config.Prompts["explain"])
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	original := DefaultConfig()
	original.APIKey = "sk-round"

	require.NoError(t, SaveConfig(path, original))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-round", loaded.APIKey)
	assert.Equal(t, original.Model, loaded.Model)
}

func TestRequestOptions(t *testing.T) {
	config := DefaultConfig()
	config.APIKey = "sk-test"

	opts := config.RequestOptions()
	assert.Equal(t, config.Model, opts.Model)
	assert.Equal(t, config.BaseURL, opts.EndpointURL)
	assert.Equal(t, "sk-test", opts.APIKey)
	assert.Equal(t, config.MaxTokens, opts.MaxTokens)
}
