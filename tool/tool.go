// Package tool implements the tool calling subsystem of the research agent:
// the capability contract every tool must satisfy to participate in the
// reasoning loop, the registry the orchestration engine selects from, and the
// built-in research tools (web search, encyclopedic lookup, calculator,
// summarizer, citation generator, comparator).
package tool

import (
	"context"
	"fmt"
)

// Tool is a named, independently invocable capability with a string-in /
// string-out contract. The description is surfaced to the decision
// collaborator to inform tool selection.
//
// Implementations must:
//   - Respect context cancellation and deadlines on Invoke
//   - Return *Error for all failures so the engine can classify them once
//   - Be safe for concurrent use (runs on distinct sessions may overlap)
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the decision collaborator to guide selection.
	Description() string

	// Invoke executes the tool against a single input string.
	Invoke(ctx context.Context, input string) (string, error)
}

// truncateRunes shortens s to at most max runes, never splitting a
// multi-byte character.
func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Error kinds. The kind is decided once at the tool boundary; the engine
// never re-inspects provider-specific errors downstream.
const (
	// KindUnavailable marks provider outages and timeouts. Transient.
	KindUnavailable = "unavailable"
	// KindNotFound marks lookups with no matching entry. Permanent.
	KindNotFound = "not_found"
	// KindEvaluation marks malformed or unevaluable input. Permanent.
	KindEvaluation = "evaluation"
	// KindInsufficientInput marks inputs below a tool's arity. Permanent.
	KindInsufficientInput = "insufficient_input"
	// KindInternal marks unexpected tool failures (panics, bugs). Permanent.
	KindInternal = "internal"
)

// Error is the unified tool failure type. Transient failures are retried
// once by the engine; permanent failures are surfaced to the reasoning loop
// as observations.
type Error struct {
	Tool      string `json:"tool"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Transient bool   `json:"transient"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("tool error [%s] in %s: %s", e.Kind, e.Tool, e.Message)
}

// NewUnavailableError marks a provider outage or timeout (retryable).
func NewUnavailableError(tool, message string) *Error {
	return &Error{Tool: tool, Kind: KindUnavailable, Message: message, Transient: true}
}

// NewNotFoundError marks a lookup that matched nothing.
func NewNotFoundError(tool, message string) *Error {
	return &Error{Tool: tool, Kind: KindNotFound, Message: message}
}

// NewEvaluationError marks malformed or unevaluable input.
func NewEvaluationError(tool, message string) *Error {
	return &Error{Tool: tool, Kind: KindEvaluation, Message: message}
}

// NewInsufficientInputError marks input below the tool's required arity.
func NewInsufficientInputError(tool, message string) *Error {
	return &Error{Tool: tool, Kind: KindInsufficientInput, Message: message}
}

// NewInternalError marks an unexpected failure inside the tool itself.
func NewInternalError(tool, message string) *Error {
	return &Error{Tool: tool, Kind: KindInternal, Message: message}
}

// AsError normalizes an arbitrary error returned by a tool into *Error.
// A non-*Error value is treated as an internal, permanent failure.
func AsError(toolName string, err error) *Error {
	if err == nil {
		return nil
	}
	if te, ok := err.(*Error); ok {
		return te
	}
	return NewInternalError(toolName, err.Error())
}
