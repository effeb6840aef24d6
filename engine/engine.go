package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sanjoy-Chattopadhay/researchagent/core"
	"github.com/Sanjoy-Chattopadhay/researchagent/logging"
	"github.com/Sanjoy-Chattopadhay/researchagent/memory"
	"github.com/Sanjoy-Chattopadhay/researchagent/metrics"
	"github.com/Sanjoy-Chattopadhay/researchagent/model"
	"github.com/Sanjoy-Chattopadhay/researchagent/tool"
)

// OrchestrationError reports a condition under which no answer at all is
// possible. All narrower failures degrade to a partial answer instead.
type OrchestrationError struct {
	Reason string
	Err    error
}

func (e *OrchestrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("orchestration failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("orchestration failed: %s", e.Reason)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// MaxSteps bounds the think/act cycles per run.
	MaxSteps int
	// MaxHistoryTurns bounds the prior turns presented to the collaborator.
	MaxHistoryTurns int
	// ToolTimeout bounds a single tool invocation.
	ToolTimeout time.Duration
	// DecisionTimeout bounds a single decide or synthesize call.
	DecisionTimeout time.Duration
	// Instructions is the system framing for the collaborator.
	Instructions string
	// PromptCostPer1K and CompletionCostPer1K are token rates per 1K tokens.
	PromptCostPer1K     decimal.Decimal
	CompletionCostPer1K decimal.Decimal
	// Memory stores per-session conversation history.
	Memory memory.Store
	// Metrics collects per-turn usage figures.
	Metrics *metrics.Collector
	// Logging services.
	Logger logging.Logger
}

// Engine coordinates query execution: serializes runs per session, drives
// the reasoning loop, dispatches tools, and persists completed turns.
// Public methods are safe for concurrent use.
type Engine struct {
	decider  model.Decider
	registry *tool.Registry

	maxSteps        int
	maxHistoryTurns int
	toolTimeout     time.Duration
	decisionTimeout time.Duration
	instructions    string

	promptCostPer1K     decimal.Decimal
	completionCostPer1K decimal.Decimal

	memory  memory.Store
	metrics *metrics.Collector
	logger  logging.Logger

	sessionLocks map[string]*sync.Mutex
	mu           sync.Mutex
}

// New constructs an Engine with optional overrides.
func New(decider model.Decider, registry *tool.Registry, optFns ...func(o *Options)) *Engine {
	opts := Options{
		MaxSteps:            6,
		MaxHistoryTurns:     10,
		ToolTimeout:         15 * time.Second,
		DecisionTimeout:     30 * time.Second,
		Instructions:        model.DefaultInstructions,
		PromptCostPer1K:     decimal.RequireFromString("0.00015"),
		CompletionCostPer1K: decimal.RequireFromString("0.0006"),
		Memory:              memory.NewInMemoryStore(),
		Metrics:             metrics.NewCollector(metrics.DefaultHistoryLimit),
		Logger:              logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		decider:             decider,
		registry:            registry,
		maxSteps:            opts.MaxSteps,
		maxHistoryTurns:     opts.MaxHistoryTurns,
		toolTimeout:         opts.ToolTimeout,
		decisionTimeout:     opts.DecisionTimeout,
		instructions:        opts.Instructions,
		promptCostPer1K:     opts.PromptCostPer1K,
		completionCostPer1K: opts.CompletionCostPer1K,
		memory:              opts.Memory,
		metrics:             opts.Metrics,
		logger:              opts.Logger,
		sessionLocks:        make(map[string]*sync.Mutex),
	}
}

// Memory returns the engine's conversation store.
func (e *Engine) Memory() memory.Store { return e.memory }

// Metrics returns the engine's metrics collector.
func (e *Engine) Metrics() *metrics.Collector { return e.metrics }

// Run executes one query to completion and returns the committed turn.
// Runs against the same session serialize; distinct sessions proceed
// concurrently. On cancellation between steps nothing is persisted.
func (e *Engine) Run(ctx context.Context, query core.Query) (*core.Turn, error) {
	if e.registry.Len() == 0 {
		return nil, &OrchestrationError{Reason: "tool registry is empty"}
	}

	unlock := e.lockSession(query.SessionID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := core.NewID()

	req := model.Request{
		Instructions: e.instructions,
		Query:        query,
		History:      e.memory.Context(query.SessionID, e.maxHistoryTurns),
		Tools:        e.registry.List(),
	}

	var (
		trace  []core.ToolInvocation
		tokens core.TokenCount
		answer string
	)

	e.logger.Debug("run started", "run_id", runID, "session_id", query.SessionID)

loop:
	for step := 0; step < e.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req.Trace = trace
		decision, usage, err := e.decide(ctx, req)
		tokens = tokens.Add(usage.Count())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// A parse failure proves the collaborator is reachable; only a
			// transport failure before anything was gathered makes an
			// answer impossible.
			var parseErr *model.DecisionParseError
			if !errors.As(err, &parseErr) && len(trace) == 0 {
				return nil, &OrchestrationError{Reason: "decision collaborator unreachable", Err: err}
			}
			e.logger.Warn("decision failed, degrading to answer", "run_id", runID, "step", step, "error", err)
			break
		}

		switch d := decision.(type) {
		case model.FinalAnswer:
			answer = d.Text
			e.logger.Debug("decision", "run_id", runID, "step", step, "kind", "final_answer")
			break loop
		case model.ToolCall:
			e.logger.Debug("decision", "run_id", runID, "step", step, "kind", "tool_call", "tool", d.Name)
			inv, unknown := e.invokeTool(ctx, d)
			trace = append(trace, inv)
			if unknown {
				// The collaborator asked for a capability that does not
				// exist; more cycles will not create it.
				break loop
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if answer == "" {
		req.Trace = trace
		text, usage := e.synthesize(ctx, req)
		tokens = tokens.Add(usage.Count())
		answer = text
	}

	// Synthesis is a suspension point too; a run cancelled during it must
	// not commit.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	turn := core.Turn{
		ID:      runID,
		Query:   query,
		Answer:  answer,
		Trace:   trace,
		Tokens:  tokens,
		Cost:    e.cost(tokens),
		Latency: time.Since(start),
	}

	// One logical commit: a turn is never visible in memory without its
	// metrics record, or the other way around.
	e.memory.Append(query.SessionID, turn)
	e.metrics.Record(metrics.TurnMetrics{
		TurnID:     turn.ID,
		SessionID:  query.SessionID,
		Tokens:     turn.Tokens,
		Cost:       turn.Cost,
		Latency:    turn.Latency,
		ToolCalls:  len(trace),
		RecordedAt: time.Now().UTC(),
	})

	e.logger.Info("run complete",
		"run_id", runID,
		"session_id", query.SessionID,
		"tool_calls", len(trace),
		"tokens", tokens.Total(),
		"latency", turn.Latency,
	)

	return &turn, nil
}

// decide resolves one reasoning step. An unparseable directive is retried
// once against a narrowed context (session history dropped, live trace
// kept); any other failure is retried once as-is. Usage from both attempts
// is reported.
func (e *Engine) decide(ctx context.Context, req model.Request) (model.Decision, model.TokenUsage, error) {
	decision, usage, err := e.decideOnce(ctx, req)
	if err == nil || ctx.Err() != nil {
		return decision, usage, err
	}

	retryReq := req
	var parseErr *model.DecisionParseError
	if errors.As(err, &parseErr) {
		retryReq.History = nil
		e.logger.Debug("retrying unparseable decision with narrowed context", "reason", parseErr.Reason)
	}

	decision, retryUsage, err := e.decideOnce(ctx, retryReq)
	usage.PromptTokens += retryUsage.PromptTokens
	usage.CompletionTokens += retryUsage.CompletionTokens
	return decision, usage, err
}

func (e *Engine) decideOnce(ctx context.Context, req model.Request) (model.Decision, model.TokenUsage, error) {
	dctx, cancel := context.WithTimeout(ctx, e.decisionTimeout)
	defer cancel()
	return e.decider.Decide(dctx, req)
}

// invokeTool dispatches one tool call and returns its invocation record.
// The second return reports an unknown tool name, which ends the run's
// reasoning loop. Transient failures get a single retry; the record carries
// the final outcome either way.
func (e *Engine) invokeTool(ctx context.Context, call model.ToolCall) (core.ToolInvocation, bool) {
	t, err := e.registry.Get(call.Name)
	if err != nil {
		e.logger.Warn("unknown tool requested", "tool", call.Name)
		return core.ToolInvocation{
			Tool:  call.Name,
			Input: call.Input,
			Err:   &core.ErrorRecord{Kind: tool.KindNotFound, Message: err.Error()},
		}, true
	}

	start := time.Now()
	output, invokeErr := e.invokeOnce(ctx, t, call.Input)
	if invokeErr != nil {
		terr := e.classify(call.Name, invokeErr)
		if terr.Transient && ctx.Err() == nil {
			e.logger.Debug("retrying transient tool failure", "tool", call.Name, "error", terr.Message)
			output, invokeErr = e.invokeOnce(ctx, t, call.Input)
			if invokeErr != nil {
				terr = e.classify(call.Name, invokeErr)
			}
		}
		if invokeErr != nil {
			dur := time.Since(start)
			e.logger.Warn("tool failed", "tool", call.Name, "kind", terr.Kind, "duration", dur)
			return core.ToolInvocation{
				Tool:     call.Name,
				Input:    call.Input,
				Err:      &core.ErrorRecord{Kind: terr.Kind, Message: terr.Message, Transient: terr.Transient},
				Duration: dur,
			}, false
		}
	}

	dur := time.Since(start)
	e.logger.Debug("tool succeeded", "tool", call.Name, "duration", dur)
	return core.ToolInvocation{
		Tool:     call.Name,
		Input:    call.Input,
		Output:   output,
		Duration: dur,
	}, false
}

func (e *Engine) invokeOnce(ctx context.Context, t tool.Tool, input string) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, e.toolTimeout)
	defer cancel()
	return t.Invoke(tctx, input)
}

func (e *Engine) classify(toolName string, err error) *tool.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return tool.NewUnavailableError(toolName, fmt.Sprintf("timed out after %s", e.toolTimeout))
	}
	return tool.AsError(toolName, err)
}

// synthesize produces the final answer text. One retry on failure, then a
// deterministic summary of the gathered observations so the caller always
// receives a well-formed answer.
func (e *Engine) synthesize(ctx context.Context, req model.Request) (string, model.TokenUsage) {
	text, usage, err := e.synthesizeOnce(ctx, req)
	if err == nil && text != "" {
		return text, usage
	}
	if ctx.Err() == nil {
		retryText, retryUsage, retryErr := e.synthesizeOnce(ctx, req)
		usage.PromptTokens += retryUsage.PromptTokens
		usage.CompletionTokens += retryUsage.CompletionTokens
		if retryErr == nil && retryText != "" {
			return retryText, usage
		}
		err = retryErr
	}
	e.logger.Warn("synthesis failed, falling back to trace summary", "error", err)
	return fallbackAnswer(req.Query, req.Trace), usage
}

func (e *Engine) synthesizeOnce(ctx context.Context, req model.Request) (string, model.TokenUsage, error) {
	sctx, cancel := context.WithTimeout(ctx, e.decisionTimeout)
	defer cancel()
	return e.decider.Synthesize(sctx, req)
}

func (e *Engine) cost(t core.TokenCount) decimal.Decimal {
	perK := decimal.NewFromInt(1000)
	prompt := decimal.NewFromInt(int64(t.Prompt)).Div(perK).Mul(e.promptCostPer1K)
	completion := decimal.NewFromInt(int64(t.Completion)).Div(perK).Mul(e.completionCostPer1K)
	return prompt.Add(completion)
}

// lockSession acquires the per-session run lock, creating it on first use.
// Locks are never removed; the map is bounded by the number of sessions.
func (e *Engine) lockSession(sessionID string) func() {
	e.mu.Lock()
	l, ok := e.sessionLocks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		e.sessionLocks[sessionID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func fallbackAnswer(query core.Query, trace []core.ToolInvocation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I was unable to fully reason about: %s\n", query.Text)
	if len(trace) == 0 {
		b.WriteString("No supporting information could be gathered.")
		return b.String()
	}
	b.WriteString("Information gathered so far:\n")
	for _, inv := range trace {
		fmt.Fprintf(&b, "- %s(%s): %s\n", inv.Tool, inv.Input, inv.Observation())
	}
	return strings.TrimRight(b.String(), "\n")
}
