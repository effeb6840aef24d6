// Package researchagent provides a high-level façade over the orchestration
// engine and its services (tools, memory, metrics, feedback & logging) for
// building AI research assistants. Most applications interact with this
// package by:
//  1. Creating an Assistant via New() with a decision collaborator
//     (optionally overriding default in-memory services and tools)
//  2. Asking questions with Ask, scoped to a conversation session
//  3. Inspecting results through Metrics, History and ExportHistory
//
// The façade delegates query execution to engine.Engine while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a configured search
// provider, durable feedback storage and a structured logger.
package researchagent

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sanjoy-Chattopadhay/researchagent/config"
	"github.com/Sanjoy-Chattopadhay/researchagent/core"
	"github.com/Sanjoy-Chattopadhay/researchagent/engine"
	"github.com/Sanjoy-Chattopadhay/researchagent/export"
	"github.com/Sanjoy-Chattopadhay/researchagent/feedback"
	"github.com/Sanjoy-Chattopadhay/researchagent/logging"
	"github.com/Sanjoy-Chattopadhay/researchagent/memory"
	"github.com/Sanjoy-Chattopadhay/researchagent/metrics"
	"github.com/Sanjoy-Chattopadhay/researchagent/model"
	"github.com/Sanjoy-Chattopadhay/researchagent/search"
	"github.com/Sanjoy-Chattopadhay/researchagent/tool"
)

// Options configures the Assistant instance.
type Options struct {
	// Config supplies the tunables; defaults to config.Default().
	Config config.Config

	// Tools overrides the default tool set built from Config.
	Tools []tool.Tool

	// Stores (default to in-memory implementations if not provided).
	Memory  memory.Store
	Metrics *metrics.Collector

	// Feedback overrides the file-backed feedback log from Config.
	Feedback *feedback.Log

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Assistant is the high-level façade aggregating the engine and services.
type Assistant struct {
	engine   *engine.Engine
	registry *tool.Registry
	memory   memory.Store
	metrics  *metrics.Collector
	logger   logging.Logger

	cfg config.Config

	feedbackMu   sync.Mutex
	feedbackLog  *feedback.Log
	feedbackFile *os.File
}

// New creates an Assistant driven by the given decision collaborator. Any
// unset service is initialized from the configuration with in-memory
// defaults.
func New(decider model.Decider, optFns ...func(o *Options)) (*Assistant, error) {
	opts := Options{
		Config: config.Default(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Memory == nil {
		opts.Memory = memory.NewInMemoryStore()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector(opts.Config.Metrics.HistoryLimit)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	promptRate, err := decimal.NewFromString(opts.Config.Pricing.PromptPer1K)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt token rate %q: %w", opts.Config.Pricing.PromptPer1K, err)
	}
	completionRate, err := decimal.NewFromString(opts.Config.Pricing.CompletionPer1K)
	if err != nil {
		return nil, fmt.Errorf("invalid completion token rate %q: %w", opts.Config.Pricing.CompletionPer1K, err)
	}

	tools := opts.Tools
	if tools == nil {
		tools = DefaultTools(opts.Config)
	}

	registry := tool.NewRegistry()
	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("register tool: %w", err)
		}
	}

	cfg := opts.Config
	eng := engine.New(decider, registry, func(o *engine.Options) {
		o.MaxSteps = cfg.Engine.MaxSteps
		o.MaxHistoryTurns = cfg.Engine.MaxHistoryTurns
		o.ToolTimeout = millis(cfg.Engine.ToolTimeoutMS)
		o.DecisionTimeout = millis(cfg.Engine.DecisionTimeoutMS)
		o.PromptCostPer1K = promptRate
		o.CompletionCostPer1K = completionRate
		o.Memory = opts.Memory
		o.Metrics = opts.Metrics
		o.Logger = opts.Logger
	})

	return &Assistant{
		engine:      eng,
		registry:    registry,
		memory:      opts.Memory,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		cfg:         cfg,
		feedbackLog: opts.Feedback,
	}, nil
}

// DefaultTools builds the standard research tool set from configuration.
// The web search tool is included only when a search API key is configured;
// the remaining tools have no external credentials.
func DefaultTools(cfg config.Config) []tool.Tool {
	tools := []tool.Tool{
		tool.NewLookup(),
		tool.NewCalculator(),
		tool.NewSummarizer(),
		tool.NewCitationGenerator(),
		tool.NewComparator(),
	}
	if cfg.Search.APIKey != "" {
		provider := search.NewTavily(cfg.Search.APIKey, func(o *search.TavilyOptions) {
			o.Depth = cfg.Search.Depth
			o.IncludeDomains = cfg.Search.IncludeDomains
		})
		tools = append([]tool.Tool{tool.NewWebSearch(provider)}, tools...)
	}
	return tools
}

// Ask runs one research question in the given session and returns the
// completed turn.
func (a *Assistant) Ask(ctx context.Context, sessionID, question string) (*core.Turn, error) {
	return a.engine.Run(ctx, core.NewQuery(sessionID, question))
}

// Run executes a pre-built query. Most callers use Ask.
func (a *Assistant) Run(ctx context.Context, query core.Query) (*core.Turn, error) {
	return a.engine.Run(ctx, query)
}

// Tools lists the registered tools.
func (a *Assistant) Tools() []tool.Info { return a.registry.List() }

// Metrics returns a snapshot of accumulated usage figures.
func (a *Assistant) Metrics() metrics.Snapshot { return a.metrics.Snapshot() }

// ResetMetrics clears accumulated totals and the per-turn history.
func (a *Assistant) ResetMetrics() { a.metrics.Reset() }

// History returns the session's turns in chronological order.
func (a *Assistant) History(sessionID string) []core.Turn {
	return a.memory.History(sessionID)
}

// ClearHistory removes all turns of the session.
func (a *Assistant) ClearHistory(sessionID string) {
	a.memory.Clear(sessionID)
}

// ExportHistory renders the session's history in the given format.
func (a *Assistant) ExportHistory(sessionID string, format export.Format) (string, error) {
	return export.History(a.memory.History(sessionID), format)
}

// SubmitFeedback appends a rating for an answered turn to the feedback log.
// The file-backed log is opened lazily on first use when none was injected.
func (a *Assistant) SubmitFeedback(turnID string, rating int, comment string) error {
	a.feedbackMu.Lock()
	defer a.feedbackMu.Unlock()

	if a.feedbackLog == nil {
		log, f, err := feedback.Open(a.cfg.Feedback.Path)
		if err != nil {
			return err
		}
		a.feedbackLog = log
		a.feedbackFile = f
	}
	return a.feedbackLog.Submit(turnID, rating, comment)
}

// Close releases resources owned by the assistant, currently the lazily
// opened feedback file.
func (a *Assistant) Close() error {
	a.feedbackMu.Lock()
	defer a.feedbackMu.Unlock()

	if a.feedbackFile != nil {
		err := a.feedbackFile.Close()
		a.feedbackFile = nil
		a.feedbackLog = nil
		return err
	}
	return nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
