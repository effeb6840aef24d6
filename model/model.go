// Package model defines the decision collaborator contract of the
// orchestration engine: the external reasoning function that, per step,
// either selects a tool to call or produces a final answer, plus the answer
// synthesis operation. Provider-backed implementations live in the openai and
// anthropic subpackages; ScriptedDecider serves tests and examples.
package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sanjoy-Chattopadhay/researchagent/core"
	"github.com/Sanjoy-Chattopadhay/researchagent/tool"
)

// Request carries the full context for one decision or synthesis call: the
// live query, the session's recent turns, the observations gathered so far
// in the current run, and the tools available for selection.
type Request struct {
	// Instructions is the system-level framing for the collaborator.
	Instructions string
	// Query is the user question driving the current run.
	Query core.Query
	// History holds the most recent prior turns of the session, oldest first.
	History []core.Turn
	// Trace holds the current run's tool invocations, oldest first.
	Trace []core.ToolInvocation
	// Tools lists the capabilities available for selection.
	Tools []tool.Info
}

// Decision is the closed outcome of a decide call: either ToolCall or
// FinalAnswer. The engine pattern-matches on the concrete type; no other
// implementations exist.
type Decision interface {
	isDecision()
}

// ToolCall directs the engine to invoke one named tool with a derived input.
type ToolCall struct {
	Name  string `json:"name"`
	Input string `json:"input"`
}

func (ToolCall) isDecision() {}

// FinalAnswer directs the engine to terminate the run with the given text.
type FinalAnswer struct {
	Text string `json:"text"`
}

func (FinalAnswer) isDecision() {}

// TokenUsage captures token consumption reported by a collaborator call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Count converts usage into the core token count shape.
func (u TokenUsage) Count() core.TokenCount {
	return core.TokenCount{Prompt: u.PromptTokens, Completion: u.CompletionTokens}
}

// DecisionParseError reports that the collaborator's directive could not be
// parsed into ToolCall or FinalAnswer. The engine retries once with a
// narrower context before degrading.
type DecisionParseError struct {
	Raw    string
	Reason string
}

func (e *DecisionParseError) Error() string {
	return fmt.Sprintf("cannot parse decision: %s", e.Reason)
}

// Info contains metadata about a decider implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "scripted", ...
}

// Decider is the pluggable decision collaborator. Decide resolves the next
// reasoning step; Synthesize produces the final answer text from the
// accumulated context. Both must respect context deadlines — the engine
// bounds every call.
type Decider interface {
	Decide(ctx context.Context, req Request) (Decision, TokenUsage, error)
	Synthesize(ctx context.Context, req Request) (string, TokenUsage, error)
	Info() Info
}

// ScriptedDecider replays a fixed sequence of decisions and a canned
// synthesis answer. Useful for tests and examples; safe for concurrent use.
type ScriptedDecider struct {
	mu        sync.Mutex
	decisions []Decision
	answer    string
	usage     TokenUsage
	errs      map[int]error
	index     int
}

// NewScriptedDecider constructs a decider replaying the given decisions in
// order. Once the script is exhausted, Decide returns FinalAnswer with the
// configured answer.
func NewScriptedDecider(answer string, decisions ...Decision) *ScriptedDecider {
	return &ScriptedDecider{
		decisions: decisions,
		answer:    answer,
		usage:     TokenUsage{PromptTokens: 10, CompletionTokens: 5},
		errs:      make(map[int]error),
	}
}

// FailAt makes the n-th Decide call (0-based) return err instead of its
// scripted decision.
func (d *ScriptedDecider) FailAt(n int, err error) *ScriptedDecider {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs[n] = err
	return d
}

// WithUsage overrides the per-call token usage.
func (d *ScriptedDecider) WithUsage(usage TokenUsage) *ScriptedDecider {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.usage = usage
	return d
}

// Calls reports how many Decide calls have been consumed.
func (d *ScriptedDecider) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index
}

// Decide implements Decider.
func (d *ScriptedDecider) Decide(ctx context.Context, _ Request) (Decision, TokenUsage, error) {
	if err := ctx.Err(); err != nil {
		return nil, TokenUsage{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.index
	d.index++
	if err, ok := d.errs[n]; ok {
		return nil, TokenUsage{}, err
	}
	if n < len(d.decisions) {
		return d.decisions[n], d.usage, nil
	}
	return FinalAnswer{Text: d.answer}, d.usage, nil
}

// Synthesize implements Decider.
func (d *ScriptedDecider) Synthesize(ctx context.Context, _ Request) (string, TokenUsage, error) {
	if err := ctx.Err(); err != nil {
		return "", TokenUsage{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.answer, d.usage, nil
}

// Info implements Decider.
func (d *ScriptedDecider) Info() Info {
	return Info{Name: "scripted", Provider: "scripted"}
}
