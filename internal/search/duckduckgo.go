package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"golang.org/x/net/html"
)

const liteURL = "https://lite.duckduckgo.com/lite/"

// ddgRateLimit enforces a global rate limit of 1 query per second across all
// DuckDuckGo instances and goroutines. The lite endpoint bans eager scrapers.
var ddgRateLimit struct {
	mu   sync.Mutex
	last time.Time
}

// DuckDuckGo implements Provider using DuckDuckGo's HTML lite interface.
type DuckDuckGo struct {
	MaxResults int
	client     *http.Client
	debug      bool
}

// NewDuckDuckGo creates a DuckDuckGo searcher with a modest timeout. At most
// maxResults results are returned per query.
func NewDuckDuckGo(maxResults int) *DuckDuckGo {
	return NewDuckDuckGoWithClient(maxResults, &http.Client{Timeout: 15 * time.Second})
}

// NewDuckDuckGoWithClient creates a DuckDuckGo searcher using the supplied
// HTTP client. Useful for overriding the default timeout, or for tests.
func NewDuckDuckGoWithClient(maxResults int, client *http.Client) *DuckDuckGo {
	if maxResults <= 0 {
		maxResults = 4
	}
	return &DuckDuckGo{
		MaxResults: maxResults,
		client:     client,
		debug:      misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv("DEBUG_SEARCH")),
	}
}

// Search posts the query to the DuckDuckGo lite page and parses the result
// table. Retries with exponential backoff on 429.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}

	ddgRateLimit.mu.Lock()
	if wait := time.Until(ddgRateLimit.last.Add(time.Second)); wait > 0 {
		ddgRateLimit.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		ddgRateLimit.mu.Lock()
	}
	ddgRateLimit.last = time.Now()
	ddgRateLimit.mu.Unlock()

	formData := url.Values{}
	formData.Set("q", query)

	var resp *http.Response
	delay := time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, liteURL, strings.NewReader(formData.Encode()))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err = d.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		if d.debug {
			ancli.PrintWarn(fmt.Sprintf("duckduckgo 429, backing off %v\n", delay))
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	results, err := parseLiteResults(resp.Body, d.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	if d.debug {
		ancli.Okf("duckduckgo returned %v results for query: '%v'\n", len(results), query)
	}
	return results, nil
}

// parseLiteResults tokenizes the lite HTML page. Result links carry the
// 'result-link' class and snippets sit in 'result-snippet' table cells.
func parseLiteResults(body io.Reader, maxResults int) ([]Result, error) {
	var results []Result
	var current *Result

	tokenizer := html.NewTokenizer(body)
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if errors.Is(tokenizer.Err(), io.EOF) {
				break
			}
			return nil, fmt.Errorf("tokenizer error: %w", tokenizer.Err())
		}
		switch tt {
		case html.StartTagToken:
			tok := tokenizer.Token()
			switch tok.Data {
			case "a":
				if !hasClass(tok, "result-link") {
					continue
				}
				if current != nil {
					results = append(results, *current)
				}
				current = &Result{URL: attr(tok, "href")}
				// Link text is the title, possibly nested in child tags
				current.Title = collectText(tokenizer, "a")
			case "td":
				if current == nil || !hasClass(tok, "result-snippet") {
					continue
				}
				current.Snippet = collectText(tokenizer, "td")
			}
		}
		if current != nil && len(results) >= maxResults {
			current = nil
			break
		}
	}
	if current != nil {
		results = append(results, *current)
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// collectText drains text tokens until the named closing tag.
func collectText(tokenizer *html.Tokenizer, until string) string {
	var b strings.Builder
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == until {
				return strings.TrimSpace(b.String())
			}
		}
	}
}

func hasClass(tok html.Token, class string) bool {
	for _, a := range tok.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
