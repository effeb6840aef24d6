package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sanjoy-Chattopadhay/researchagent/search"
)

// WebSearch issues a query to an external search provider. Domain restriction
// (e.g. academic sources) lives in the provider configuration, not here.
type WebSearch struct {
	provider search.Provider
}

// NewWebSearch constructs the web_search tool over a search provider.
func NewWebSearch(provider search.Provider) *WebSearch {
	return &WebSearch{provider: provider}
}

// Name implements Tool.
func (t *WebSearch) Name() string { return "web_search" }

// Description implements Tool.
func (t *WebSearch) Description() string {
	return "Search the web for recent information. Useful for finding papers, articles, and current research. Input should be a search query."
}

// Invoke implements Tool. Provider and network failures are transient.
func (t *WebSearch) Invoke(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return "", NewEvaluationError(t.Name(), "empty search query")
	}

	results, err := t.provider.Search(ctx, query)
	if err != nil {
		return "", NewUnavailableError(t.Name(), err.Error())
	}
	if len(results) == 0 {
		return "No results found for: " + query, nil
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
