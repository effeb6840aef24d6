// Package export renders a session's conversation history to portable
// formats. Rendering is pure: it reads an ordered turn sequence and writes
// text, with no knowledge of how the turns were produced or stored.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Sanjoy-Chattopadhay/researchagent/core"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat maps a user-supplied format name to a Format. Common aliases
// ("md", "txt") are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "plain":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// History renders turns in the given format. An empty history is valid and
// renders an empty document of the requested kind.
func History(turns []core.Turn, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return asJSON(turns)
	case FormatMarkdown:
		return asMarkdown(turns), nil
	case FormatText:
		return asText(turns), nil
	default:
		return "", fmt.Errorf("unknown export format %q", string(format))
	}
}

type jsonTurn struct {
	ID        string                `json:"id"`
	Question  string                `json:"question"`
	Answer    string                `json:"answer"`
	AskedAt   time.Time             `json:"asked_at"`
	Tokens    int                   `json:"tokens"`
	Cost      string                `json:"cost"`
	LatencyMS int64                 `json:"latency_ms"`
	Trace     []core.ToolInvocation `json:"tool_trace,omitempty"`
}

func asJSON(turns []core.Turn) (string, error) {
	out := make([]jsonTurn, 0, len(turns))
	for _, t := range turns {
		out = append(out, jsonTurn{
			ID:        t.ID,
			Question:  t.Query.Text,
			Answer:    t.Answer,
			AskedAt:   t.Query.SubmittedAt,
			Tokens:    t.Tokens.Total(),
			Cost:      t.Cost.String(),
			LatencyMS: t.Latency.Milliseconds(),
			Trace:     t.Trace,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	return string(data), nil
}

func asMarkdown(turns []core.Turn) string {
	var b strings.Builder
	b.WriteString("# Research Session\n")
	for i, t := range turns {
		fmt.Fprintf(&b, "\n## Q%d: %s\n\n", i+1, t.Query.Text)
		b.WriteString(t.Answer)
		b.WriteString("\n")
		if len(t.Trace) > 0 {
			b.WriteString("\n**Tools used:**\n\n")
			for _, inv := range t.Trace {
				if inv.Failed() {
					fmt.Fprintf(&b, "- `%s(%s)` — failed: %s\n", inv.Tool, inv.Input, inv.Err.Message)
					continue
				}
				fmt.Fprintf(&b, "- `%s(%s)`\n", inv.Tool, inv.Input)
			}
		}
	}
	return b.String()
}

func asText(turns []core.Turn) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q: %s\n", t.Query.Text)
		fmt.Fprintf(&b, "A: %s\n", t.Answer)
	}
	return b.String()
}
