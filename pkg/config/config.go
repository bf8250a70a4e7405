package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type LLMConfig struct {
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

type SearchConfig struct {
	BaseURL        string `yaml:"base_url"`
	Count          int    `yaml:"count"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ExtractConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxChars       int     `yaml:"max_chars"`
	RateLimit      float64 `yaml:"rate_limit"`
	TopURLs        int     `yaml:"top_urls"`
}

type PromptConfig struct {
	Persona  string `yaml:"persona"`
	Language string `yaml:"language"`
	MaxChars int    `yaml:"max_chars"`
}

type BotConfig struct {
	AllowedChannel string `yaml:"allowed_channel"`
	AlwaysAugment  bool   `yaml:"always_augment"`
}

type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Search  SearchConfig  `yaml:"search"`
	Extract ExtractConfig `yaml:"extract"`
	Prompt  PromptConfig  `yaml:"prompt"`
	Bot     BotConfig     `yaml:"bot"`

	// Credentials come from the environment only, never from the file.
	DiscordToken string `yaml:"-"`
	BraveAPIKey  string `yaml:"-"`
	LLMAPIKey    string `yaml:"-"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/ragbot/config.yaml"),
			"/etc/ragbot/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "gpt-4o-mini"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 1024
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}
	if config.LLM.TimeoutSeconds == 0 {
		config.LLM.TimeoutSeconds = 30
	}

	if config.Search.BaseURL == "" {
		config.Search.BaseURL = "https://api.search.brave.com/res/v1"
	}
	if config.Search.Count == 0 {
		config.Search.Count = 3
	}
	if config.Search.TimeoutSeconds == 0 {
		config.Search.TimeoutSeconds = 10
	}

	if config.Extract.TimeoutSeconds == 0 {
		config.Extract.TimeoutSeconds = 5
	}
	if config.Extract.MaxChars == 0 {
		config.Extract.MaxChars = 3000
	}
	if config.Extract.RateLimit == 0 {
		config.Extract.RateLimit = 2.0
	}
	if config.Extract.TopURLs == 0 {
		config.Extract.TopURLs = 2
	}

	if config.Prompt.Language == "" {
		config.Prompt.Language = "English"
	}
	if config.Prompt.MaxChars == 0 {
		config.Prompt.MaxChars = 7000
	}
}

func mergeWithEnv(config *Config) {
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		config.DiscordToken = token
	}
	if key := os.Getenv("BRAVE_API_KEY"); key != "" {
		config.BraveAPIKey = key
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		config.LLMAPIKey = key
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if channel := os.Getenv("ALLOWED_CHANNEL"); channel != "" {
		config.Bot.AllowedChannel = channel
	}
}
