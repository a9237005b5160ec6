// Package openai adapts the OpenAI Chat Completions API to the
// core.InferenceEngine contract used by the natural language agent.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = "You are a friendly phone receptionist. Keep replies short, natural and suitable for being read aloud."

// Options configure the OpenAI engine adapter.
type Options struct {
	Model       string
	Temperature float64
	// APIKey overrides the OPENAI_API_KEY environment variable.
	APIKey string
}

// Engine wraps the OpenAI Chat Completions API behind core.InferenceEngine.
type Engine struct {
	client *openai.Client
	opts   Options
}

// NewEngine creates an engine using the default client. The API key comes
// from options or the environment.
func NewEngine(optFns ...func(o *Options)) *Engine {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)
	return NewEngineFromClient(&client, optFns...)
}

// NewEngineFromClient creates an engine from an existing client.
func NewEngineFromClient(client *openai.Client, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Model:       openai.ChatModelGPT4oMini,
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
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
	}
	for i, turn := range history {
		if i%2 == 0 {
			messages = append(messages, openai.UserMessage(turn))
		} else {
			messages = append(messages, openai.AssistantMessage(turn))
		}
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:               e.opts.Model,
		Messages:            messages,
		Temperature:         openai.Float(e.opts.Temperature),
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	}

	completion, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
