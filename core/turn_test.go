package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTurn_CloneIsIndependent(t *testing.T) {
	turn := Turn{
		ID:    NewID(),
		Query: NewQuery("s1", "what is qec?"),
		Trace: []ToolInvocation{
			{Tool: "web_search", Input: "qec", Output: "results"},
			{Tool: "calculator", Input: "1/", Err: &ErrorRecord{Kind: "evaluation", Message: "bad expression"}},
		},
		Tokens: TokenCount{Prompt: 10, Completion: 5},
		Cost:   decimal.RequireFromString("0.0012"),
	}

	clone := turn.Clone()
	clone.Trace[0].Output = "changed"
	clone.Trace[1].Err.Message = "changed"

	if turn.Trace[0].Output != "results" {
		t.Error("clone trace should not alias original")
	}
	if turn.Trace[1].Err.Message != "bad expression" {
		t.Error("clone error records should not alias original")
	}
}

func TestToolInvocation_Observation(t *testing.T) {
	ok := ToolInvocation{Tool: "calculator", Output: "4", Duration: time.Millisecond}
	if ok.Failed() || ok.Observation() != "4" {
		t.Fatalf("unexpected observation: %q", ok.Observation())
	}

	failed := ToolInvocation{
		Tool: "comparator",
		Err:  &ErrorRecord{Kind: "insufficient_input", Message: "need at least two subjects"},
	}
	if !failed.Failed() {
		t.Fatal("expected failure")
	}
	if got := failed.Observation(); got != "error (insufficient_input): need at least two subjects" {
		t.Fatalf("unexpected error observation: %q", got)
	}
}

func TestTokenCount_Add(t *testing.T) {
	sum := TokenCount{Prompt: 3, Completion: 2}.Add(TokenCount{Prompt: 7, Completion: 8})
	if sum.Prompt != 10 || sum.Completion != 10 || sum.Total() != 20 {
		t.Fatalf("unexpected sum: %+v", sum)
	}
}
