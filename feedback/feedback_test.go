package feedback

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAppendsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	log := NewLog(&buf)

	require.NoError(t, log.Submit("t1", 5, "great answer"))
	require.NoError(t, log.Submit("t2", 2, ""))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var first Entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "t1", first.TurnID)
	assert.Equal(t, 5, first.Rating)
	assert.Equal(t, "great answer", first.Comment)
	assert.False(t, first.SubmittedAt.IsZero())

	// Empty comments are omitted from the encoding.
	assert.NotContains(t, lines[1], "comment")
}

func TestSubmitValidation(t *testing.T) {
	log := NewLog(&bytes.Buffer{})

	assert.Error(t, log.Submit("", 3, "no turn"))
	assert.Error(t, log.Submit("t1", 0, "too low"))
	assert.Error(t, log.Submit("t1", 6, "too high"))
}

func TestOpenAppendsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.jsonl")

	log, f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, log.Submit("t1", 4, ""))
	require.NoError(t, f.Close())

	log, f, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, log.Submit("t2", 1, "wrong"))
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		ids = append(ids, e.TurnID)
	}
	assert.Equal(t, []string{"t1", "t2"}, ids)
}

func TestSubmitConcurrent(t *testing.T) {
	var buf bytes.Buffer
	log := NewLog(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = log.Submit("t", 3, "concurrent")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 16)
	for _, line := range lines {
		var e Entry
		assert.NoError(t, json.Unmarshal([]byte(line), &e))
	}
}
