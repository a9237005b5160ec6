// Package anthropic adapts the Anthropic Messages API to the
// core.InferenceEngine contract used by the natural language agent.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const systemPrompt = "You are a friendly phone receptionist. Keep replies short, natural and suitable for being read aloud."

// Options configure the Anthropic engine adapter.
type Options struct {
	Model       string
	Temperature float64
	APIKey      string
}

// Engine wraps the Anthropic Messages API behind core.InferenceEngine.
type Engine struct {
	client *anthropic.Client
	opts   Options
}

// NewEngine creates an engine using the official client.
func NewEngine(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Model:       string(anthropic.ModelClaude3_5Sonnet20241022),
		Temperature: 0.7,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)
	return &Engine{client: &client, opts: opts}
}

// NewEngineFromClient creates an engine from an existing client.
func NewEngineFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Model:       string(anthropic.ModelClaude3_5Sonnet20241022),
		Temperature: 0.7,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{client: client, opts: opts}
}

// GenerateResponse implements core.InferenceEngine. History alternates
// caller/assistant turns, oldest first, starting with the caller.
func (e *Engine) GenerateResponse(ctx context.Context, prompt string, history []string, maxTokens int) (string, error) {
	var messages []anthropic.MessageParam
	for i, turn := range history {
		block := anthropic.NewTextBlock(turn)
		if i%2 == 0 {
			messages = append(messages, anthropic.NewUserMessage(block))
		} else {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(e.opts.Model),
		Messages:    messages,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(e.opts.Temperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
	}

	resp, err := e.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}
