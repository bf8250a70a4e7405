package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
llm:
  base_url: "http://localhost:8080/v1"
  model: "gpt-4"
  max_tokens: 1000
  temperature: 0.5

search:
  count: 4
  timeout_seconds: 8

extract:
  max_chars: 2000
  top_urls: 2

prompt:
  persona: "You are a terse research assistant."
  language: "Japanese"
  max_chars: 6000

bot:
  always_augment: true
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/v1", config.LLM.BaseURL)
	assert.Equal(t, "gpt-4", config.LLM.Model)
	assert.Equal(t, 1000, config.LLM.MaxTokens)
	assert.Equal(t, 0.5, config.LLM.Temperature)
	assert.Equal(t, 4, config.Search.Count)
	assert.Equal(t, 2000, config.Extract.MaxChars)
	assert.Equal(t, "Japanese", config.Prompt.Language)
	assert.True(t, config.Bot.AlwaysAugment)

	// Values the file leaves unset still get defaults.
	assert.Equal(t, 30, config.LLM.TimeoutSeconds)
	assert.Equal(t, "https://api.search.brave.com/res/v1", config.Search.BaseURL)
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing-dir", "none.yaml"))
	assert.Error(t, err)
	assert.Nil(t, config)

	config, err = getDefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, config.Search.Count)
	assert.Equal(t, 2, config.Extract.TopURLs)
	assert.Equal(t, 3000, config.Extract.MaxChars)
	assert.Equal(t, 7000, config.Prompt.MaxChars)
	assert.Equal(t, "English", config.Prompt.Language)
	assert.False(t, config.Bot.AlwaysAugment)
}

func TestMergeWithEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "dtoken")
	t.Setenv("BRAVE_API_KEY", "bkey")
	t.Setenv("LLM_API_KEY", "lkey")
	t.Setenv("ALLOWED_CHANNEL", "12345")

	config, err := getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "dtoken", config.DiscordToken)
	assert.Equal(t, "bkey", config.BraveAPIKey)
	assert.Equal(t, "lkey", config.LLMAPIKey)
	assert.Equal(t, "12345", config.Bot.AllowedChannel)
}

func TestConfigValidation(t *testing.T) {
	valid := Config{
		LLM:     LLMConfig{MaxTokens: 1000, Temperature: 0.7, TimeoutSeconds: 30},
		Search:  SearchConfig{BaseURL: "https://api.search.brave.com/res/v1", Count: 3, TimeoutSeconds: 10},
		Extract: ExtractConfig{TimeoutSeconds: 5, MaxChars: 3000, RateLimit: 2.0, TopURLs: 2},
		Prompt:  PromptConfig{Language: "English", MaxChars: 7000},

		DiscordToken: "d",
		BraveAPIKey:  "b",
		LLMAPIKey:    "l",
	}

	tests := []struct {
		name         string
		mutate       func(c *Config)
		expectedErrs int
		field        string
	}{
		{
			name:         "valid config",
			mutate:       func(c *Config) {},
			expectedErrs: 0,
		},
		{
			name:         "missing discord token",
			mutate:       func(c *Config) { c.DiscordToken = "" },
			expectedErrs: 1,
			field:        "DISCORD_TOKEN",
		},
		{
			name:         "missing search key",
			mutate:       func(c *Config) { c.BraveAPIKey = "" },
			expectedErrs: 1,
			field:        "BRAVE_API_KEY",
		},
		{
			name:         "search count out of range",
			mutate:       func(c *Config) { c.Search.Count = 10 },
			expectedErrs: 1,
			field:        "search.count",
		},
		{
			name: "top_urls above count",
			mutate: func(c *Config) {
				c.Search.Count = 3
				c.Extract.TopURLs = 4
			},
			expectedErrs: 1,
			field:        "extract.top_urls",
		},
		{
			name:         "temperature out of range",
			mutate:       func(c *Config) { c.LLM.Temperature = 3.0 },
			expectedErrs: 1,
			field:        "llm.temperature",
		},
		{
			name:         "prompt ceiling below excerpt cap",
			mutate:       func(c *Config) { c.Prompt.MaxChars = 100 },
			expectedErrs: 1,
			field:        "prompt.max_chars",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)

			errs := config.Validate()
			assert.Len(t, errs, tt.expectedErrs)
			if tt.expectedErrs > 0 {
				assert.Equal(t, tt.field, errs[0].Field)
				assert.NotEmpty(t, errs[0].Error())
			}
		})
	}
}
