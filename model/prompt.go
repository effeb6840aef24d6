package model

import (
	"fmt"
	"strings"
)

// DefaultInstructions is the baseline system framing used when a Request
// carries none. The exact wording is not part of any contract; callers may
// replace it wholesale.
const DefaultInstructions = `You are an AI research assistant. Use the available tools to gather
information before answering. Cite sources where you can, keep answers
structured, and state explicitly when a sub-question could not be resolved
with the tools at hand.`

// Message is a provider-neutral chat message derived from a Request.
// Providers map these onto their SDK's message types.
type Message struct {
	Role string // "user" or "assistant"
	Text string
}

// ContextMessages flattens a Request's session history and current-run trace
// into an ordered message list ending with the live query. Observations from
// the trace are rendered as user-role messages so the collaborator treats
// them as ground truth rather than its own claims.
func ContextMessages(req Request) []Message {
	var msgs []Message
	for _, turn := range req.History {
		msgs = append(msgs,
			Message{Role: "user", Text: turn.Query.Text},
			Message{Role: "assistant", Text: turn.Answer},
		)
	}

	msgs = append(msgs, Message{Role: "user", Text: req.Query.Text})

	for _, inv := range req.Trace {
		msgs = append(msgs,
			Message{Role: "assistant", Text: fmt.Sprintf("I called %s with input: %s", inv.Tool, inv.Input)},
			Message{Role: "user", Text: "Observation from " + inv.Tool + ": " + inv.Observation()},
		)
	}
	return msgs
}

// Instructions resolves the effective system framing for a request.
func Instructions(req Request) string {
	if strings.TrimSpace(req.Instructions) != "" {
		return req.Instructions
	}
	return DefaultInstructions
}

// SynthesisPrompt asks for a final answer given everything gathered. Used by
// providers on the Synthesize path, where tool selection is disabled.
func SynthesisPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Write the final answer to the question below using only the observations gathered.\n")
	b.WriteString("If part of the question could not be resolved, say so explicitly.\n\n")
	b.WriteString("Question: " + req.Query.Text + "\n")
	if len(req.Trace) > 0 {
		b.WriteString("\nObservations:\n")
		for _, inv := range req.Trace {
			fmt.Fprintf(&b, "- %s(%s): %s\n", inv.Tool, inv.Input, inv.Observation())
		}
	} else {
		b.WriteString("\nNo observations were gathered.\n")
	}
	return b.String()
}
