// Package config externalizes the tunables of the research agent: search
// allow-list, token pricing, reasoning loop bounds and timeouts, metrics
// history depth and logging. Values load from an optional YAML file with
// environment variable overrides; defaults match the constants the system
// shipped with.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration tree.
type Config struct {
	Search      SearchConfig   `mapstructure:"search"`
	Pricing     PricingConfig  `mapstructure:"pricing"`
	Engine      EngineConfig   `mapstructure:"engine"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
	Feedback    FeedbackConfig `mapstructure:"feedback"`
	LogLevel    string         `mapstructure:"log_level"`
	LogFormat   string         `mapstructure:"log_format"`
	Environment string         `mapstructure:"environment"`
}

// SearchConfig configures the web search provider. IncludeDomains is the
// academic allow-list; prioritization is configuration, not a code branch.
type SearchConfig struct {
	APIKey         string   `mapstructure:"api_key"`
	Depth          string   `mapstructure:"depth"`
	IncludeDomains []string `mapstructure:"include_domains"`
}

// PricingConfig holds per-1K-token rates as decimal strings so cost
// arithmetic stays exact.
type PricingConfig struct {
	PromptPer1K     string `mapstructure:"prompt_per_1k"`
	CompletionPer1K string `mapstructure:"completion_per_1k"`
}

// EngineConfig bounds the reasoning loop.
type EngineConfig struct {
	MaxSteps          int `mapstructure:"max_steps"`
	MaxHistoryTurns   int `mapstructure:"max_history_turns"`
	ToolTimeoutMS     int `mapstructure:"tool_timeout_ms"`
	DecisionTimeoutMS int `mapstructure:"decision_timeout_ms"`
}

// MetricsConfig bounds the collector's rolling history.
type MetricsConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

// FeedbackConfig locates the append-only feedback log.
type FeedbackConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration from the given file path (optional: an empty path
// loads defaults and environment only). Environment variables use the
// RESEARCHAGENT_ prefix with underscores, e.g. RESEARCHAGENT_SEARCH_API_KEY.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("researchagent")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without touching files or env.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode; there is no user input involved.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("search.depth", "advanced")
	v.SetDefault("search.include_domains", []string{
		"arxiv.org", "scholar.google.com", "ieee.org", "acm.org",
	})
	// gpt-4o-mini rates per 1K tokens.
	v.SetDefault("pricing.prompt_per_1k", "0.00015")
	v.SetDefault("pricing.completion_per_1k", "0.0006")
	v.SetDefault("engine.max_steps", 6)
	v.SetDefault("engine.max_history_turns", 10)
	v.SetDefault("engine.tool_timeout_ms", 15000)
	v.SetDefault("engine.decision_timeout_ms", 30000)
	v.SetDefault("metrics.history_limit", 100)
	v.SetDefault("feedback.path", "feedback.jsonl")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("environment", "development")
}

func (c Config) validate() error {
	if c.Engine.MaxSteps <= 0 {
		return fmt.Errorf("engine.max_steps must be positive, got %d", c.Engine.MaxSteps)
	}
	if c.Engine.MaxHistoryTurns < 0 {
		return fmt.Errorf("engine.max_history_turns must not be negative, got %d", c.Engine.MaxHistoryTurns)
	}
	if c.Metrics.HistoryLimit <= 0 {
		return fmt.Errorf("metrics.history_limit must be positive, got %d", c.Metrics.HistoryLimit)
	}
	return nil
}
