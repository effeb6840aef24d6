package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanjoy-Chattopadhay/researchagent/core"
	"github.com/Sanjoy-Chattopadhay/researchagent/internal/testutil"
)

func sampleTurns() []core.Turn {
	return []core.Turn{
		testutil.NewTurnBuilder("s1").
			ID("t1").
			Question("What is attention?").
			Answer("Attention weighs input tokens by relevance.").
			ToolCall("web_search", "attention mechanism", "1. Attention Is All You Need").
			Tokens(900, 100).
			Cost("0.000195").
			Latency(1200 * time.Millisecond).
			Build(),
		testutil.NewTurnBuilder("s1").
			ID("t2").
			Question("Compare it to RNNs").
			Answer("Attention parallelizes; RNNs process sequentially.").
			FailedToolCall("comparator", "attention", "insufficient_input", "need at least two subjects").
			Build(),
	}
}

func TestParseFormat(t *testing.T) {
	for alias, want := range map[string]Format{
		"json": FormatJSON, "md": FormatMarkdown, "Markdown": FormatMarkdown,
		"txt": FormatText, "plain": FormatText, " TEXT ": FormatText,
	} {
		got, err := ParseFormat(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, want, got, alias)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestHistoryJSON(t *testing.T) {
	out, err := History(sampleTurns(), FormatJSON)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "What is attention?", decoded[0]["question"])
	assert.Equal(t, float64(1000), decoded[0]["tokens"])
	assert.Equal(t, "0.000195", decoded[0]["cost"])
	assert.Equal(t, float64(1200), decoded[0]["latency_ms"])
}

func TestHistoryMarkdown(t *testing.T) {
	out, err := History(sampleTurns(), FormatMarkdown)
	require.NoError(t, err)

	assert.Contains(t, out, "# Research Session")
	assert.Contains(t, out, "## Q1: What is attention?")
	assert.Contains(t, out, "`web_search(attention mechanism)`")
	assert.Contains(t, out, "failed: need at least two subjects")
}

func TestHistoryText(t *testing.T) {
	out, err := History(sampleTurns(), FormatText)
	require.NoError(t, err)

	assert.Contains(t, out, "Q: What is attention?")
	assert.Contains(t, out, "A: Attention weighs input tokens by relevance.")
	assert.NotContains(t, out, "web_search")
}

func TestHistoryEmpty(t *testing.T) {
	out, err := History(nil, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	out, err = History(nil, FormatText)
	require.NoError(t, err)
	assert.Empty(t, out)
}
