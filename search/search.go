// Package search provides web search providers used by the web_search tool.
// Providers return a small bounded result set; ranking internals belong to
// the provider, not to this module.
package search

import "context"

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider executes a web search query. Implementations must respect context
// cancellation and bound the number of returned results.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
