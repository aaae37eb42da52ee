package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Tavily calls the Tavily search API.
type Tavily struct {
	APIKey string
	client *http.Client
	// Depth controls Tavily's depth parameter (basic or advanced).
	Depth string
}

// NewTavily constructs a Tavily search provider.
func NewTavily(apiKey string, timeout time.Duration) *Tavily {
	return &Tavily{
		APIKey: apiKey,
		Depth:  "basic",
		client: &http.Client{Timeout: timeout},
	}
}

// NewTavilyWithClient constructs a Tavily search provider using the supplied
// HTTP client. Useful for testing against a local server.
func NewTavilyWithClient(apiKey string, client *http.Client) *Tavily {
	return &Tavily{APIKey: apiKey, Depth: "basic", client: client}
}

// Ensure Tavily implements Provider.
var _ Provider = (*Tavily)(nil)

// endpoint is overridable for tests.
var tavilyEndpoint = "https://api.tavily.com/search"

// Search posts a query to Tavily.
func (t *Tavily) Search(ctx context.Context, query string, maxResults int) ([]Snippet, error) {
	if strings.TrimSpace(t.APIKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}
	if maxResults <= 0 {
		return []Snippet{}, nil
	}

	body := map[string]any{
		"query":       query,
		"api_key":     t.APIKey,
		"depth":       t.Depth,
		"max_results": maxResults,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily http %d", resp.StatusCode)
	}

	var response struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	results := make([]Snippet, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, Snippet{Title: r.Title, URL: r.URL, Excerpt: r.Content})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}
