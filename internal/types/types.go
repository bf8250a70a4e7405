package types

import (
	"context"

	"github.com/yukifw/ragbot/internal/models"
)

// Core interfaces
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]models.SearchResult, error)
}

type Extractor interface {
	Extract(ctx context.Context, url string) models.ExtractedPage
}

type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Sender is the outbound half of the chat platform.
type Sender interface {
	Send(channelID, text string) error
	Typing(channelID string) error
}
