// Package search discovers candidate videos through the YouTube Data API.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ContentHarvester/internal/domain"
	"ContentHarvester/internal/ports"
)

// DefaultEndpoint is the YouTube Data API v3 search endpoint.
const DefaultEndpoint = "https://www.googleapis.com/youtube/v3/search"

// Client queries the Data API for long-form videos matching a topic query.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ ports.VideoSearch = (*Client)(nil)

// NewClient wires credentials and an HTTP client; endpoint defaults to the
// public API.
func NewClient(endpoint, apiKey string, client *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{endpoint: endpoint, apiKey: apiKey, client: client}
}

// Search returns up to maxResults discovery hits for the query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.VideoResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("youtube search misconfigured: missing api key")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("videoDuration", "long")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.Transient(fmt.Errorf("search request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return nil, domain.Transient(fmt.Errorf("search returned %s", resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %s", resp.Status)
	}

	var parsed struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]domain.VideoResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, domain.VideoResult{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
		})
	}

	return results, nil
}
