// Package anthropic implements the decision collaborator over the Anthropic
// Messages API. Tool selection maps tool_use blocks to model.ToolCall; plain
// text blocks map to model.FinalAnswer.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sanjoy-Chattopadhay/researchagent/model"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
)

// Options configure the Anthropic decider (model id, temperature, max
// tokens, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Decider wraps the Anthropic Messages API behind the model.Decider interface.
type Decider struct {
	client *anthropic.Client
	opts   Options
}

// New creates a decider using the official client.
func New(optFns ...func(o *Options)) *Decider {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Decider{client: &client, opts: opts}
}

// NewFromClient creates a decider from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Decider {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Decider{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.4,
		MaxTokens:   4096,
	}
}

// Decide implements model.Decider.
func (d *Decider) Decide(ctx context.Context, req model.Request) (model.Decision, model.TokenUsage, error) {
	params := d.buildParams(req, nil)
	params.Tools = buildTools(req)

	resp, err := d.client.Messages.New(ctx, params)
	if err != nil {
		return nil, model.TokenUsage{}, fmt.Errorf("anthropic api error: %w", err)
	}
	usage := usageOf(resp)

	var text string
	for _, block := range resp.Content {
		switch block.Type {
		case "tool_use":
			toolBlock := block.AsToolUse()
			raw := ""
			if toolBlock.Input != nil {
				if rawBytes, err := json.Marshal(toolBlock.Input); err == nil {
					raw = string(rawBytes)
				}
			}
			input, err := parseInput(raw)
			if err != nil {
				return nil, usage, &model.DecisionParseError{
					Raw:    raw,
					Reason: fmt.Sprintf("tool_use input for %s: %v", toolBlock.Name, err),
				}
			}
			return model.ToolCall{Name: toolBlock.Name, Input: input}, usage, nil
		case "text":
			text += block.AsText().Text
		}
	}

	if text == "" {
		return nil, usage, &model.DecisionParseError{Reason: "response carries neither tool_use nor text"}
	}
	return model.FinalAnswer{Text: text}, usage, nil
}

// Synthesize implements model.Decider. Tool selection is disabled on this
// path.
func (d *Decider) Synthesize(ctx context.Context, req model.Request) (string, model.TokenUsage, error) {
	params := d.buildParams(req, []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(model.SynthesisPrompt(req))),
	})

	resp, err := d.client.Messages.New(ctx, params)
	if err != nil {
		return "", model.TokenUsage{}, fmt.Errorf("anthropic api error: %w", err)
	}
	usage := usageOf(resp)

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	if text == "" {
		return "", usage, &model.DecisionParseError{Reason: "empty synthesis response"}
	}
	return text, usage, nil
}

// Info implements model.Decider.
func (d *Decider) Info() model.Info {
	return model.Info{Name: string(d.opts.Model), Provider: "anthropic"}
}

func (d *Decider) buildParams(req model.Request, extra []anthropic.MessageParam) anthropic.MessageNewParams {
	var messages []anthropic.MessageParam
	for _, m := range model.ContextMessages(req) {
		block := anthropic.NewTextBlock(m.Text)
		if m.Role == "assistant" {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}
	messages = append(messages, extra...)

	return anthropic.MessageNewParams{
		Model:       d.opts.Model,
		Messages:    messages,
		MaxTokens:   d.opts.MaxTokens,
		Temperature: anthropic.Float(d.opts.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: model.Instructions(req)},
		},
	}
}

func buildTools(req model.Request) []anthropic.ToolUnionParam {
	if len(req.Tools) == 0 {
		return nil
	}
	tools := make([]anthropic.ToolUnionParam, len(req.Tools))
	for i, info := range req.Tools {
		schema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
			Properties: map[string]any{
				"input": map[string]any{
					"type":        "string",
					"description": "The input string for the tool.",
				},
			},
			Required: []string{"input"},
		}
		tools[i] = anthropic.ToolUnionParamOfTool(schema, info.Name)
	}
	return tools
}

// parseInput extracts the single "input" argument from a tool_use block's
// raw JSON input.
func parseInput(raw string) (string, error) {
	var args struct {
		Input string `json:"input"`
	}
	if err := json.Unmarshal([]byte(raw), &args); err == nil && args.Input != "" {
		return args.Input, nil
	}
	var bare string
	if err := json.Unmarshal([]byte(raw), &bare); err == nil && bare != "" {
		return bare, nil
	}
	return "", fmt.Errorf("no input argument in %q", raw)
}

func usageOf(resp *anthropic.Message) model.TokenUsage {
	return model.TokenUsage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}
}
