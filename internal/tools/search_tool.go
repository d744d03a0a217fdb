package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/martinkhristi/sambanova-product-recomodation/internal/models"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/search"
)

// searchCallTimeout bounds a single search tool invocation. The agent loop
// retries with a new query on failure, so there is no point waiting longer.
const searchCallTimeout = 30 * time.Second

// SearchTool lets the model look up product information and reviews on the
// web. Failures are reported as tool output rather than errors so the model
// can re-plan instead of aborting the rollout.
type SearchTool struct {
	searcher search.Provider
}

func NewSearchTool(searcher search.Provider) SearchTool {
	return SearchTool{searcher: searcher}
}

func (s SearchTool) Call(input models.Input) (string, error) {
	query, ok := input["query"].(string)
	if !ok {
		return "", fmt.Errorf("query must be a string")
	}
	ctx, cancel := context.WithTimeout(context.Background(), searchCallTimeout)
	defer cancel()

	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		return fmt.Sprintf("Search failed: %v", err), nil
	}
	if len(results) == 0 {
		return fmt.Sprintf("No results found for query: '%v'. Try a broader query.", query), nil
	}

	var b strings.Builder
	for i, r := range results {
		b.WriteString(fmt.Sprintf("%d. %s | %s | %s\n", i+1, strings.TrimSpace(r.Title), strings.TrimSpace(r.URL), strings.TrimSpace(r.Snippet)))
	}
	return b.String(), nil
}

func (s SearchTool) Specification() models.Specification {
	return models.Specification{
		Name:        "search",
		Description: "Search for product information and reviews",
		Inputs: &models.InputSchema{
			Type: "object",
			Properties: map[string]models.ParameterObject{
				"query": {
					Type:        "string",
					Description: "The search query to look up product information with.",
				},
			},
			Required: []string{"query"},
		},
	}
}
