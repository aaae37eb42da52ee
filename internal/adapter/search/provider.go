// Package search provides search providers used to augment prompts with
// reference snippets.
//
// Available providers:
//
//   - Tavily: requires an API key, posts JSON queries
//   - DuckDuckGo: free, no API key required (scrapes lite.duckduckgo.com)
//
// Providers return honest errors; the caller decides whether a failure is
// fatal. The turn pipeline treats every provider failure as an empty result.
package search

import "context"

// Snippet is one search result used as reference material in a prompt.
type Snippet struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Excerpt string `json:"excerpt"`
}

// Provider executes a query and returns up to maxResults snippets.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Snippet, error)
}
