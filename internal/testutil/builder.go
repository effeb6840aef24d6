// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing core model objects (turns, tool traces).
// These helpers are intentionally minimal and avoid adding third-party
// dependencies. They are not intended for production usage.
package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sanjoy-Chattopadhay/researchagent/core"
)

// TurnBuilder provides a fluent helper for constructing turns in tests.
// Example:
//
//	turn := NewTurnBuilder("s1").Question("What is attention?").Answer("...").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type TurnBuilder struct {
	sessionID string
	id        string
	question  string
	answer    string
	trace     []core.ToolInvocation
	tokens    core.TokenCount
	cost      string
	latency   time.Duration
	askedAt   time.Time
}

// NewTurnBuilder creates a builder for the given session.
func NewTurnBuilder(sessionID string) *TurnBuilder {
	return &TurnBuilder{
		sessionID: sessionID,
		question:  "test question",
		answer:    "test answer",
		askedAt:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ID overrides the auto-generated turn ID (chainable). Use where determinism matters.
func (b *TurnBuilder) ID(id string) *TurnBuilder { b.id = id; return b }

// Question sets the query text (chainable).
func (b *TurnBuilder) Question(q string) *TurnBuilder { b.question = q; return b }

// Answer sets the answer text (chainable).
func (b *TurnBuilder) Answer(a string) *TurnBuilder { b.answer = a; return b }

// AskedAt sets the query timestamp (chainable).
func (b *TurnBuilder) AskedAt(t time.Time) *TurnBuilder { b.askedAt = t; return b }

// ToolCall appends a successful tool invocation to the trace (chainable).
func (b *TurnBuilder) ToolCall(tool, input, output string) *TurnBuilder {
	b.trace = append(b.trace, core.ToolInvocation{Tool: tool, Input: input, Output: output})
	return b
}

// FailedToolCall appends a failed tool invocation to the trace (chainable).
func (b *TurnBuilder) FailedToolCall(tool, input, kind, message string) *TurnBuilder {
	b.trace = append(b.trace, core.ToolInvocation{
		Tool:  tool,
		Input: input,
		Err:   &core.ErrorRecord{Kind: kind, Message: message},
	})
	return b
}

// Tokens sets the token usage split (chainable).
func (b *TurnBuilder) Tokens(prompt, completion int) *TurnBuilder {
	b.tokens = core.TokenCount{Prompt: prompt, Completion: completion}
	return b
}

// Cost sets the turn cost from a decimal string (chainable).
func (b *TurnBuilder) Cost(s string) *TurnBuilder { b.cost = s; return b }

// Latency sets the wall-clock latency (chainable).
func (b *TurnBuilder) Latency(d time.Duration) *TurnBuilder { b.latency = d; return b }

// Build assembles the turn.
func (b *TurnBuilder) Build() core.Turn {
	id := b.id
	if id == "" {
		id = core.NewID()
	}
	cost := decimal.Zero
	if b.cost != "" {
		cost = decimal.RequireFromString(b.cost)
	}
	return core.Turn{
		ID: id,
		Query: core.Query{
			Text:        b.question,
			SessionID:   b.sessionID,
			SubmittedAt: b.askedAt,
		},
		Answer:  b.answer,
		Trace:   b.trace,
		Tokens:  b.tokens,
		Cost:    cost,
		Latency: b.latency,
	}
}
