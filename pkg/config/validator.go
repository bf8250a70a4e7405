package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Missing credentials keep the process from starting at all.
	if c.DiscordToken == "" {
		errors = append(errors, ValidationError{
			Field:   "DISCORD_TOKEN",
			Message: "Discord bot token is required",
		})
	}

	if c.BraveAPIKey == "" {
		errors = append(errors, ValidationError{
			Field:   "BRAVE_API_KEY",
			Message: "Brave Search API key is required",
		})
	}

	if c.LLMAPIKey == "" {
		errors = append(errors, ValidationError{
			Field:   "LLM_API_KEY",
			Message: "generation backend API key is required",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.BaseURL != "" {
		if _, err := url.Parse(c.LLM.BaseURL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "invalid generation backend URL",
			})
		}
	}

	if _, err := url.Parse(c.Search.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "search.base_url",
			Message: "invalid search backend URL",
		})
	}

	if c.Search.Count < 1 || c.Search.Count > 5 {
		errors = append(errors, ValidationError{
			Field:   "search.count",
			Message: "count must be between 1 and 5",
		})
	}

	if c.Extract.TopURLs < 0 || c.Extract.TopURLs > c.Search.Count {
		errors = append(errors, ValidationError{
			Field:   "extract.top_urls",
			Message: "top_urls must be non-negative and at most search.count",
		})
	}

	if c.Extract.MaxChars < 1 {
		errors = append(errors, ValidationError{
			Field:   "extract.max_chars",
			Message: "max_chars must be positive",
		})
	}

	if c.Extract.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "extract.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Prompt.MaxChars < c.Extract.MaxChars {
		errors = append(errors, ValidationError{
			Field:   "prompt.max_chars",
			Message: "prompt ceiling must be at least the page excerpt cap",
		})
	}

	return errors
}
