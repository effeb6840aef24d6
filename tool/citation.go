package tool

import (
	"context"
	"strings"
)

// CitationGenerator produces a formatted citation string from a source
// descriptor. Deterministic given identical input: no timestamps, no I/O.
//
// The input is a descriptor of `|`-separated fields, either positional
// (title | authors | year | url) or tagged (title: ... | year: ...).
type CitationGenerator struct{}

// NewCitationGenerator constructs the citation tool.
func NewCitationGenerator() *CitationGenerator { return &CitationGenerator{} }

// Name implements Tool.
func (t *CitationGenerator) Name() string { return "citation_generator" }

// Description implements Tool.
func (t *CitationGenerator) Description() string {
	return "Generate an academic-style citation from source details. Input should be 'title | authors | year | url' or tagged fields like 'title: ... | year: ...'."
}

// Invoke implements Tool.
func (t *CitationGenerator) Invoke(_ context.Context, input string) (string, error) {
	descriptor := strings.TrimSpace(input)
	if descriptor == "" {
		return "", NewEvaluationError(t.Name(), "empty source descriptor")
	}

	title, authors, year, url := parseSourceDescriptor(descriptor)
	if title == "" {
		return "", NewEvaluationError(t.Name(), "source descriptor has no title")
	}

	var b strings.Builder
	if authors != "" {
		b.WriteString(authors)
		if year != "" {
			b.WriteString(" (" + year + ")")
		}
		b.WriteString(". ")
	} else if year != "" {
		b.WriteString("(" + year + "). ")
	}
	b.WriteString(title + ".")
	if url != "" {
		b.WriteString(" Available at: " + url)
	}
	b.WriteString("\nNote: verify source credibility and publication date.")
	return b.String(), nil
}

func parseSourceDescriptor(descriptor string) (title, authors, year, url string) {
	fields := strings.Split(descriptor, "|")

	tagged := false
	for _, f := range fields {
		key, value, found := strings.Cut(f, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			title, tagged = value, true
		case "authors", "author":
			authors, tagged = value, true
		case "year":
			year, tagged = value, true
		case "url", "link":
			url, tagged = value, true
		}
	}
	if tagged {
		return title, authors, year, url
	}

	// Positional fallback: title | authors | year | url.
	get := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	return get(0), get(1), get(2), get(3)
}
