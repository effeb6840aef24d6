package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/Sanjoy-Chattopadhay/researchagent/core"
	"github.com/shopspring/decimal"
)

func record(id string, tokens int, cost string, latency time.Duration) TurnMetrics {
	return TurnMetrics{
		TurnID:    id,
		SessionID: "s1",
		Tokens:    core.TokenCount{Prompt: tokens / 2, Completion: tokens - tokens/2},
		Cost:      decimal.RequireFromString(cost),
		Latency:   latency,
	}
}

func TestCollector_Totals(t *testing.T) {
	c := NewCollector(10)
	c.Record(record("t1", 100, "0.0010", time.Second))
	c.Record(record("t2", 50, "0.0005", 3*time.Second))

	snap := c.Snapshot()
	if snap.QueryCount != 2 {
		t.Fatalf("expected 2 queries, got %d", snap.QueryCount)
	}
	if snap.TotalTokens != 150 {
		t.Fatalf("expected 150 tokens, got %d", snap.TotalTokens)
	}
	if !snap.TotalCost.Equal(decimal.RequireFromString("0.0015")) {
		t.Fatalf("expected exact cost 0.0015, got %s", snap.TotalCost)
	}
	if snap.AvgLatency != 2*time.Second {
		t.Fatalf("expected 2s average latency, got %s", snap.AvgLatency)
	}
}

func TestCollector_FIFOEviction(t *testing.T) {
	c := NewCollector(3)
	for i := 0; i < 5; i++ {
		c.Record(record(fmt.Sprintf("t%d", i), 10, "0.0001", time.Millisecond))
	}

	snap := c.Snapshot()
	if len(snap.Recent) != 3 {
		t.Fatalf("expected bounded history of 3, got %d", len(snap.Recent))
	}
	// Oldest evicted first: t0 and t1 are gone.
	if snap.Recent[0].TurnID != "t2" || snap.Recent[2].TurnID != "t4" {
		t.Fatalf("unexpected history window: %s..%s", snap.Recent[0].TurnID, snap.Recent[2].TurnID)
	}
	// Totals remain monotone across eviction.
	if snap.TotalTokens != 50 || snap.QueryCount != 5 {
		t.Fatalf("eviction must not alter totals: %+v", snap)
	}
}

func TestCollector_SnapshotIsCopy(t *testing.T) {
	c := NewCollector(10)
	c.Record(record("t1", 10, "0.0001", time.Millisecond))

	snap := c.Snapshot()
	snap.Recent[0].TurnID = "mutated"

	if c.Snapshot().Recent[0].TurnID != "t1" {
		t.Error("snapshot must not alias internal history")
	}
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector(10)
	c.Record(record("t1", 10, "0.0001", time.Millisecond))
	c.Reset()

	snap := c.Snapshot()
	if snap.QueryCount != 0 || snap.TotalTokens != 0 || len(snap.Recent) != 0 {
		t.Fatalf("reset must zero everything: %+v", snap)
	}
	if !snap.TotalCost.Equal(decimal.Zero) {
		t.Fatalf("reset must zero cost, got %s", snap.TotalCost)
	}
	if snap.AvgLatency != 0 {
		t.Fatalf("reset must zero latency, got %s", snap.AvgLatency)
	}
}
