package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultLookupEndpoint = "https://en.wikipedia.org/api/rest_v1/page/summary/"

// defaultLookupMaxChars bounds the background summary returned to the loop.
const defaultLookupMaxChars = 5000

// Lookup returns a bounded-length encyclopedic background summary for a
// topic, backed by the Wikipedia REST summary API.
type Lookup struct {
	endpoint string
	maxChars int
	client   *http.Client
}

// LookupOptions configures the lookup tool.
type LookupOptions struct {
	Endpoint   string
	MaxChars   int
	HTTPClient *http.Client
}

// NewLookup constructs the lookup tool.
func NewLookup(optFns ...func(o *LookupOptions)) *Lookup {
	opts := LookupOptions{
		Endpoint: defaultLookupEndpoint,
		MaxChars: defaultLookupMaxChars,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Lookup{endpoint: opts.Endpoint, maxChars: opts.MaxChars, client: opts.HTTPClient}
}

// Name implements Tool.
func (t *Lookup) Name() string { return "lookup" }

// Description implements Tool.
func (t *Lookup) Description() string {
	return "Get comprehensive background information on a topic. Good for foundational knowledge and definitions. Input should be the topic name."
}

// Invoke implements Tool. A missing entry is a permanent not_found error;
// provider failures are transient.
func (t *Lookup) Invoke(ctx context.Context, input string) (string, error) {
	topic := strings.TrimSpace(input)
	if topic == "" {
		return "", NewEvaluationError(t.Name(), "empty lookup topic")
	}

	// Wikipedia titles use underscores for spaces.
	title := url.PathEscape(strings.ReplaceAll(topic, " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+title, nil)
	if err != nil {
		return "", NewUnavailableError(t.Name(), err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", NewUnavailableError(t.Name(), err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", NewNotFoundError(t.Name(), "no entry found for "+topic)
	case resp.StatusCode != http.StatusOK:
		return "", NewUnavailableError(t.Name(), "lookup provider returned http "+resp.Status)
	}

	var summary struct {
		Title   string `json:"title"`
		Extract string `json:"extract"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return "", NewUnavailableError(t.Name(), err.Error())
	}
	if strings.TrimSpace(summary.Extract) == "" {
		return "", NewNotFoundError(t.Name(), "no entry found for "+topic)
	}

	text := summary.Title + ": " + summary.Extract
	if len(text) > t.maxChars {
		text = truncateRunes(text, t.maxChars)
	}
	return text, nil
}
