package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Query is a single research question scoped to a conversation session.
// Immutable once created.
type Query struct {
	Text        string    `json:"text"`
	SessionID   string    `json:"session_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewQuery creates a Query stamped with the current UTC time.
func NewQuery(sessionID, text string) Query {
	return Query{Text: text, SessionID: sessionID, SubmittedAt: time.Now().UTC()}
}

// ErrorRecord captures a failed tool invocation inside a turn's trace.
// Transient marks failures that were eligible for retry (provider outages,
// timeouts) as opposed to permanent input/logic failures.
type ErrorRecord struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Transient bool   `json:"transient"`
}

// ToolInvocation records one tool call and its outcome within a turn.
// Exactly one of Output and Err is set. Never mutated after creation.
type ToolInvocation struct {
	Tool     string        `json:"tool"`
	Input    string        `json:"input"`
	Output   string        `json:"output,omitempty"`
	Err      *ErrorRecord  `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the invocation ended in an error.
func (inv ToolInvocation) Failed() bool { return inv.Err != nil }

// Observation renders the invocation outcome as text fed back into the
// reasoning loop. Errors become observations too, so the decision step can
// adapt instead of aborting.
func (inv ToolInvocation) Observation() string {
	if inv.Err != nil {
		return "error (" + inv.Err.Kind + "): " + inv.Err.Message
	}
	return inv.Output
}

// TokenCount splits token usage into prompt and completion shares.
type TokenCount struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
}

// Total returns prompt plus completion tokens.
func (t TokenCount) Total() int { return t.Prompt + t.Completion }

// Add accumulates another count into the receiver's copy and returns it.
func (t TokenCount) Add(other TokenCount) TokenCount {
	return TokenCount{Prompt: t.Prompt + other.Prompt, Completion: t.Completion + other.Completion}
}

// Turn is one complete query→answer exchange including its full tool trace
// and usage figures. Created exactly once per completed orchestration run and
// owned by conversation memory afterwards.
type Turn struct {
	ID      string           `json:"id"`
	Query   Query            `json:"query"`
	Answer  string           `json:"answer"`
	Trace   []ToolInvocation `json:"tool_trace"`
	Tokens  TokenCount       `json:"tokens"`
	Cost    decimal.Decimal  `json:"cost"`
	Latency time.Duration    `json:"latency"`
}

// Clone returns a deep copy of the turn safe for independent use. The trace
// slice is copied; ToolInvocation values are plain data apart from the
// ErrorRecord pointer, which is duplicated as well.
func (t Turn) Clone() Turn {
	clone := t
	clone.Trace = make([]ToolInvocation, len(t.Trace))
	copy(clone.Trace, t.Trace)
	for i, inv := range clone.Trace {
		if inv.Err != nil {
			errCopy := *inv.Err
			clone.Trace[i].Err = &errCopy
		}
	}
	return clone
}

// NewID generates a new unique identifier for turns and runs.
func NewID() string { return uuid.NewString() }
