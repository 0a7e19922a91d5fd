// Package news queries an external news search provider for recent articles
// about a disease in a region. The provider is a collaborator: its failures
// never affect statistics endpoints.
package news

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"epiwatch/internal/platform/metrics"
)

const (
	requestTimeout = 10 * time.Second
	pageSize       = 10
)

// Article is one news item. Title and URL are required; items missing
// either are dropped before they reach a caller.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary"`
}

type searchResponse struct {
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
		Description string    `json:"description"`
	} `json:"articles"`
}

// Client talks to a NewsAPI-compatible search endpoint.
type Client struct {
	http    *resty.Client
	apiKey  string
	metrics *metrics.Metrics
}

// NewClient builds a client for the provider at baseURL. metrics may be nil.
func NewClient(baseURL, apiKey string, m *metrics.Metrics) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    httpClient,
		apiKey:  apiKey,
		metrics: m,
	}
}

// Search returns recent articles matching a topic in a place, most recent
// first per the provider's ordering. Items missing a title or URL are
// silently dropped.
func (c *Client) Search(ctx context.Context, topic, place string) ([]Article, error) {
	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", topic+" "+place).
		SetQueryParam("pageSize", fmt.Sprint(pageSize)).
		SetHeader("X-Api-Key", c.apiKey).
		SetResult(&out).
		Get("/v2/everything")
	if err != nil {
		c.fail()
		return nil, fmt.Errorf("news search: %w", err)
	}
	if resp.IsError() {
		c.fail()
		return nil, fmt.Errorf("news search: provider returned %s", resp.Status())
	}

	articles := make([]Article, 0, len(out.Articles))
	for _, a := range out.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Summary:     a.Description,
		})
	}
	return articles, nil
}

func (c *Client) fail() {
	if c.metrics != nil {
		c.metrics.IncUpstreamFailure("news")
	}
}
