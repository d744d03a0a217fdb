// Package search provides web search providers used to ground product
// recommendations in current market offerings.
package search

import "context"

// Result is a single item returned by a Provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider executes a query and returns results.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
