package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 6, cfg.Engine.MaxSteps)
	assert.Equal(t, 10, cfg.Engine.MaxHistoryTurns)
	assert.Equal(t, 100, cfg.Metrics.HistoryLimit)
	assert.Equal(t, "advanced", cfg.Search.Depth)
	assert.Contains(t, cfg.Search.IncludeDomains, "arxiv.org")
	assert.Contains(t, cfg.Search.IncludeDomains, "scholar.google.com")
	assert.Equal(t, "0.00015", cfg.Pricing.PromptPer1K)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
search:
  api_key: tvly-test
  depth: basic
engine:
  max_steps: 3
log_level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tvly-test", cfg.Search.APIKey)
	assert.Equal(t, "basic", cfg.Search.Depth)
	assert.Equal(t, 3, cfg.Engine.MaxSteps)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Untouched keys keep their defaults.
	assert.Equal(t, 100, cfg.Metrics.HistoryLimit)
	assert.Equal(t, "0.0006", cfg.Pricing.CompletionPer1K)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  max_steps: 0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_steps")
}
