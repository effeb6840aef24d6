// Package openai implements the decision collaborator over the OpenAI Chat
// Completions API. Tools are surfaced as function definitions with a single
// string "input" parameter; a returned tool call maps to model.ToolCall and
// plain text maps to model.FinalAnswer.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sanjoy-Chattopadhay/researchagent/model"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI decider. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Decider wraps the OpenAI Chat Completions API behind the model.Decider
// interface.
type Decider struct {
	client *openai.Client
	opts   Options
}

// New creates a decider using the official client with environment-based
// credentials.
func New(optFns ...func(o *Options)) *Decider {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a decider from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Decider {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.4,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Decider{client: client, opts: opts}
}

// Decide implements model.Decider.
func (d *Decider) Decide(ctx context.Context, req model.Request) (model.Decision, model.TokenUsage, error) {
	params := d.buildParams(req)
	params.Tools = buildTools(req)

	resp, err := d.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, model.TokenUsage{}, fmt.Errorf("openai api error: %w", err)
	}
	usage := usageOf(resp)
	if len(resp.Choices) == 0 {
		return nil, usage, &model.DecisionParseError{Reason: "no choices returned"}
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		// Exactly one tool per reasoning step; extra calls are ignored.
		tc := msg.ToolCalls[0]
		input, err := parseInput(tc.Function.Arguments)
		if err != nil {
			return nil, usage, &model.DecisionParseError{
				Raw:    tc.Function.Arguments,
				Reason: fmt.Sprintf("tool call arguments for %s: %v", tc.Function.Name, err),
			}
		}
		return model.ToolCall{Name: tc.Function.Name, Input: input}, usage, nil
	}

	if msg.Content == "" {
		return nil, usage, &model.DecisionParseError{Reason: "response carries neither tool call nor text"}
	}
	return model.FinalAnswer{Text: msg.Content}, usage, nil
}

// Synthesize implements model.Decider. Tool selection is disabled on this
// path; the call is a plain completion over the gathered observations.
func (d *Decider) Synthesize(ctx context.Context, req model.Request) (string, model.TokenUsage, error) {
	params := d.buildParams(req)
	params.Messages = append(params.Messages, openai.UserMessage(model.SynthesisPrompt(req)))

	resp, err := d.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", model.TokenUsage{}, fmt.Errorf("openai api error: %w", err)
	}
	usage := usageOf(resp)
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", usage, &model.DecisionParseError{Reason: "empty synthesis response"}
	}
	return resp.Choices[0].Message.Content, usage, nil
}

// Info implements model.Decider.
func (d *Decider) Info() model.Info {
	return model.Info{Name: d.opts.Model, Provider: "openai"}
}

func (d *Decider) buildParams(req model.Request) openai.ChatCompletionNewParams {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(model.Instructions(req)),
	}
	for _, m := range model.ContextMessages(req) {
		switch m.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Text))
		default:
			messages = append(messages, openai.UserMessage(m.Text))
		}
	}
	return openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               d.opts.Model,
		Temperature:         openai.Float(d.opts.Temperature),
		MaxCompletionTokens: openai.Int(d.opts.MaxCompletionTokens),
	}
}

func buildTools(req model.Request) []openai.ChatCompletionToolParam {
	if len(req.Tools) == 0 {
		return nil
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, info := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        info.Name,
				Description: openai.String(info.Description),
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"input": map[string]any{
							"type":        "string",
							"description": "The input string for the tool.",
						},
					},
					"required": []string{"input"},
				},
			},
		}
	}
	return tools
}

// parseInput extracts the single "input" argument from a tool call's JSON
// arguments. A bare string payload is accepted as-is.
func parseInput(arguments string) (string, error) {
	var args struct {
		Input string `json:"input"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err == nil && args.Input != "" {
		return args.Input, nil
	}
	var bare string
	if err := json.Unmarshal([]byte(arguments), &bare); err == nil {
		return bare, nil
	}
	return "", fmt.Errorf("no input argument in %q", arguments)
}

func usageOf(resp *openai.ChatCompletion) model.TokenUsage {
	return model.TokenUsage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}
}
