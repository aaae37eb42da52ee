package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DuckDuckGo implements a provider using DuckDuckGo's HTML lite interface.
// No API key required.
type DuckDuckGo struct {
	client *http.Client
}

// NewDuckDuckGo creates a DuckDuckGo provider with the given timeout.
func NewDuckDuckGo(timeout time.Duration) *DuckDuckGo {
	return &DuckDuckGo{client: &http.Client{Timeout: timeout}}
}

// NewDuckDuckGoWithClient creates a DuckDuckGo provider using the supplied
// HTTP client.
func NewDuckDuckGoWithClient(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{client: client}
}

// Ensure DuckDuckGo implements Provider.
var _ Provider = (*DuckDuckGo)(nil)

// Search scrapes the DuckDuckGo lite HTML page for results.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Snippet, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}
	if maxResults <= 0 {
		return []Snippet{}, nil
	}

	// The lite HTML version is more stable for scraping.
	endpoint := "https://lite.duckduckgo.com/lite/"

	formData := url.Values{}
	formData.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseHTMLResults(string(body), maxResults), nil
}

var (
	// Result links: <a rel="nofollow" href="URL" class='result-link'>TITLE</a>
	ddgLinkPattern = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	// Alternative pattern if class comes before href.
	ddgLinkPattern2 = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>([^<]+)</a>`)
	// Snippets live in a <td> with class "result-snippet".
	ddgSnippetPattern = regexp.MustCompile(`<td[^>]*class=['"]result-snippet['"][^>]*>([^<]+(?:<[^>]+>[^<]*</[^>]+>)*[^<]*)</td>`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
)

// parseHTMLResults extracts search results from the DuckDuckGo lite HTML.
// Snippets are paired with their link positionally: a snippet row belongs to
// the link it follows in the document, so a result without a snippet never
// steals the next result's excerpt.
func parseHTMLResults(html string, maxResults int) []Snippet {
	var results []Snippet

	links := ddgLinkPattern.FindAllStringSubmatchIndex(html, -1)
	if len(links) == 0 {
		links = ddgLinkPattern2.FindAllStringSubmatchIndex(html, -1)
	}

	snips := ddgSnippetPattern.FindAllStringSubmatchIndex(html, -1)

	j := 0
	for i, loc := range links {
		urlStr := strings.TrimSpace(html[loc[2]:loc[3]])
		title := cleanHTML(strings.TrimSpace(html[loc[4]:loc[5]]))

		nextStart := len(html)
		if i+1 < len(links) {
			nextStart = links[i+1][0]
		}
		for j < len(snips) && snips[j][0] < loc[1] {
			j++
		}
		excerpt := ""
		if j < len(snips) && snips[j][0] < nextStart {
			excerpt = cleanHTML(html[snips[j][2]:snips[j][3]])
			j++
		}

		// Skip ad results or empty results.
		if urlStr == "" || title == "" {
			continue
		}

		results = append(results, Snippet{
			Title:   title,
			URL:     urlStr,
			Excerpt: excerpt,
		})

		if len(results) >= maxResults {
			break
		}
	}

	return results
}

// cleanHTML removes HTML tags and decodes common entities.
func cleanHTML(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", "\"")
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&nbsp;", " ")

	return strings.TrimSpace(s)
}
