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

const defaultTavilyEndpoint = "https://api.tavily.com/search"

// maxResults bounds the result set handed back to the reasoning loop.
const maxResults = 5

// Tavily calls the Tavily search API. IncludeDomains restricts results to an
// allow-list of domains; academic prioritization is purely configuration.
type Tavily struct {
	APIKey string
	// Depth controls Tavily's depth parameter (basic or advanced).
	Depth string
	// IncludeDomains restricts results to the given domains when non-empty.
	IncludeDomains []string

	endpoint string
	client   *http.Client
}

// TavilyOptions configures a Tavily provider.
type TavilyOptions struct {
	Depth          string
	IncludeDomains []string
	Endpoint       string
	HTTPClient     *http.Client
}

// NewTavily constructs a Tavily search provider.
func NewTavily(apiKey string, optFns ...func(o *TavilyOptions)) *Tavily {
	opts := TavilyOptions{
		Depth:    "basic",
		Endpoint: defaultTavilyEndpoint,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Tavily{
		APIKey:         apiKey,
		Depth:          opts.Depth,
		IncludeDomains: opts.IncludeDomains,
		endpoint:       opts.Endpoint,
		client:         opts.HTTPClient,
	}
}

// Search posts a query to Tavily. Rate-limit responses (429) are retried with
// doubling backoff up to 30s; all other non-200 statuses fail immediately.
func (t *Tavily) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(t.APIKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}

	body := map[string]any{
		"query":   query,
		"api_key": t.APIKey,
		"depth":   t.Depth,
	}
	if len(t.IncludeDomains) > 0 {
		body["include_domains"] = t.IncludeDomains
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	delay := 1 * time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = t.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

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

	results := make([]Result, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Content})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}
