package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Sanjoy-Chattopadhay/researchagent/core"
)

// Interface compliance (compile-time assertion)
var _ Store = (*InMemoryStore)(nil)

func turnAt(sessionID, text string, at time.Time) core.Turn {
	return core.Turn{
		ID:     core.NewID(),
		Query:  core.Query{Text: text, SessionID: sessionID, SubmittedAt: at},
		Answer: "answer to " + text,
	}
}

func TestInMemoryStore_ContextChronological(t *testing.T) {
	store := NewInMemoryStore()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		store.Append("s1", turnAt("s1", fmt.Sprintf("q%d", i), base.Add(time.Duration(i)*time.Second)))
	}

	ctx := store.Context("s1", 3)
	if len(ctx) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(ctx))
	}
	for i := 1; i < len(ctx); i++ {
		if ctx[i].Query.SubmittedAt.Before(ctx[i-1].Query.SubmittedAt) {
			t.Error("context must be in non-decreasing submission-time order")
		}
	}
	if ctx[2].Query.Text != "q4" {
		t.Errorf("context must end with most recent turn, got %q", ctx[2].Query.Text)
	}
}

func TestInMemoryStore_ContextShorterHistory(t *testing.T) {
	store := NewInMemoryStore()
	store.Append("s1", turnAt("s1", "only", time.Now()))

	if got := store.Context("s1", 10); len(got) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(got))
	}
	if got := store.Context("unknown-session", 10); len(got) != 0 {
		t.Fatalf("unknown session must be empty, got %d", len(got))
	}
	if got := store.Context("s1", 0); got != nil {
		t.Fatalf("zero window must be empty, got %d", len(got))
	}
}

func TestInMemoryStore_ClearThenContextEmpty(t *testing.T) {
	store := NewInMemoryStore()
	store.Append("s1", turnAt("s1", "a", time.Now()))
	store.Append("s1", turnAt("s1", "b", time.Now()))
	store.Append("s2", turnAt("s2", "other", time.Now()))

	store.Clear("s1")

	for _, n := range []int{0, 1, 5} {
		if got := store.Context("s1", n); len(got) != 0 {
			t.Fatalf("cleared session must be empty for N=%d, got %d", n, len(got))
		}
	}
	if got := store.Context("s2", 5); len(got) != 1 {
		t.Fatal("clear must not touch other sessions")
	}

	// Clearing an unknown session is a no-op, not an error.
	store.Clear("never-seen")
}

func TestInMemoryStore_ReadsAreCopies(t *testing.T) {
	store := NewInMemoryStore()
	turn := turnAt("s1", "a", time.Now())
	turn.Trace = []core.ToolInvocation{{Tool: "calculator", Input: "2+2", Output: "4"}}
	store.Append("s1", turn)

	got := store.History("s1")
	got[0].Trace[0].Output = "mutated"

	if store.History("s1")[0].Trace[0].Output != "4" {
		t.Error("history reads must not alias internal state")
	}
}

func TestInMemoryStore_ConcurrentSessions(t *testing.T) {
	store := NewInMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("s%d", i)
			for j := 0; j < 50; j++ {
				store.Append(sessionID, turnAt(sessionID, fmt.Sprintf("q%d", j), time.Now()))
				store.Context(sessionID, 5)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		if got := len(store.History(fmt.Sprintf("s%d", i))); got != 50 {
			t.Fatalf("session s%d expected 50 turns, got %d", i, got)
		}
	}
}
