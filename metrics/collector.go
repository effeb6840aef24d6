// Package metrics accumulates usage and cost telemetry across orchestration
// runs: monotone totals plus a bounded FIFO history of per-turn figures.
package metrics

import (
	"sync"
	"time"

	"github.com/Sanjoy-Chattopadhay/researchagent/core"
	"github.com/shopspring/decimal"
)

// DefaultHistoryLimit bounds the rolling per-turn history.
const DefaultHistoryLimit = 100

// TurnMetrics is the per-turn record fed into the collector. Immutable once
// recorded.
type TurnMetrics struct {
	TurnID     string          `json:"turn_id"`
	SessionID  string          `json:"session_id"`
	Tokens     core.TokenCount `json:"tokens"`
	Cost       decimal.Decimal `json:"cost"`
	Latency    time.Duration   `json:"latency"`
	ToolCalls  int             `json:"tool_calls"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// Snapshot is an immutable copy of the collector's totals and recent history.
type Snapshot struct {
	TotalTokens int             `json:"total_tokens"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	QueryCount  int             `json:"query_count"`
	AvgLatency  time.Duration   `json:"avg_latency"`
	Recent      []TurnMetrics   `json:"recent"`
}

// Collector accumulates per-turn metrics. All methods are safe for
// concurrent use; recording is globally serialized, which is acceptable
// since a record is a handful of integer additions.
type Collector struct {
	mu           sync.Mutex
	totalTokens  int
	totalCost    decimal.Decimal
	queryCount   int
	totalLatency time.Duration
	history      []TurnMetrics
	historyLimit int
}

// NewCollector constructs a collector. A historyLimit <= 0 falls back to
// DefaultHistoryLimit.
func NewCollector(historyLimit int) *Collector {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Collector{totalCost: decimal.Zero, historyLimit: historyLimit}
}

// Record appends a turn's metrics and updates the running totals. History
// eviction is FIFO: query order matters, not access frequency.
func (c *Collector) Record(m TurnMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now().UTC()
	}
	c.totalTokens += m.Tokens.Total()
	c.totalCost = c.totalCost.Add(m.Cost)
	c.queryCount++
	c.totalLatency += m.Latency

	c.history = append(c.history, m)
	if len(c.history) > c.historyLimit {
		c.history = c.history[len(c.history)-c.historyLimit:]
	}
}

// Snapshot returns an immutable copy of current totals and recent history.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var avg time.Duration
	if c.queryCount > 0 {
		avg = c.totalLatency / time.Duration(c.queryCount)
	}
	recent := make([]TurnMetrics, len(c.history))
	copy(recent, c.history)

	return Snapshot{
		TotalTokens: c.totalTokens,
		TotalCost:   c.totalCost,
		QueryCount:  c.queryCount,
		AvgLatency:  avg,
		Recent:      recent,
	}
}

// Reset zeroes all counters and drops the history. Used only by explicit
// management operations, never by the reasoning loop.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalTokens = 0
	c.totalCost = decimal.Zero
	c.queryCount = 0
	c.totalLatency = 0
	c.history = nil
}
