package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// ErrRateLimited marks a 429 from the generation backend. Callers may
// surface it distinctly from other generation failures; there is no retry.
var ErrRateLimited = errors.New("generation backend rate limited")

// ChatConfig represents the configuration for a chat engine.
type ChatConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	BaseURL     string // OpenAI-compatible endpoint; empty means the default
	Timeout     time.Duration
}

// ChatEngine is an engine that uses an LLM to generate chat responses.
type ChatEngine struct {
	config ChatConfig
	llm    llms.Model
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config: config,
		llm:    llm,
	}, nil
}

// Generate sends one system/user message pair to the backend and returns
// the completion text. A single attempt, bounded by the configured timeout.
func (ce *ChatEngine) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ce.config.Timeout)
	defer cancel()

	content := []llms.MessageContent{}
	if system != "" {
		content = append(content, llms.TextParts(schema.ChatMessageTypeSystem, system))
	}
	content = append(content, llms.TextParts(schema.ChatMessageTypeHuman, user))

	response, err := ce.llm.GenerateContent(ctx, content,
		llms.WithTemperature(ce.config.Temperature),
		llms.WithMaxTokens(ce.config.MaxTokens),
	)
	if err != nil {
		if isRateLimited(err) {
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", fmt.Errorf("generation failed: %w", err)
	}

	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("generation failed: no completion choices returned")
	}

	text := response.Choices[0].Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("generation failed: empty completion")
	}
	return text, nil
}

// The provider reports HTTP failures as error text; status 429 is the only
// code we branch on.
func isRateLimited(err error) bool {
	return strings.Contains(err.Error(), "429")
}
