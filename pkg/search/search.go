package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yukifw/ragbot/internal/models"
)

// SearchUnavailable reports a failed call to the search backend: transport
// errors and any status >= 400. An empty result set is not an error.
type SearchUnavailable struct {
	StatusCode int
	Reason     string
}

func (e *SearchUnavailable) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("search backend unreachable: %s", e.Reason)
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client queries the Brave Search web endpoint.
type Client struct {
	config ClientConfig
	http   *resty.Client
}

type webSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.search.brave.com/res/v1"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("search API key is required")
	}

	http := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("X-Subscription-Token", config.APIKey)

	return &Client{
		config: config,
		http:   http,
	}, nil
}

// Search returns at most count results in backend relevance order.
func (c *Client) Search(ctx context.Context, query string, count int) ([]models.SearchResult, error) {
	if count < 1 {
		count = 1
	}

	var body webSearchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("count", strconv.Itoa(count)).
		SetResult(&body).
		Get("/web/search")
	if err != nil {
		return nil, &SearchUnavailable{Reason: err.Error()}
	}
	if resp.IsError() {
		return nil, &SearchUnavailable{StatusCode: resp.StatusCode()}
	}

	results := make([]models.SearchResult, 0, count)
	for _, r := range body.Web.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, models.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Description,
		})
		if len(results) == count {
			break
		}
	}
	return results, nil
}
