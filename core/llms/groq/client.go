// Package groq adapts the Groq chat-completions API to the provider-neutral
// llms contract: SSE token streaming, whole-response prompting, and
// schema-constrained structured output.
package groq

import (
	"context"
	"fmt"
	"os"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

const (
	// DefaultModel balances latency and quality for spoken replies.
	DefaultModel = "llama-3.1-70b-versatile"

	// Spoken responses should stay short; these mirror the conversational
	// defaults the session tuning settled on.
	defaultMaxTokens   = 500
	defaultTemperature = 0.9
)

type Client struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

type ClientOption func(*Client)

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) { c.apiKey = apiKey }
}

func WithMaxTokens(maxTokens int) ClientOption {
	return func(c *Client) { c.maxTokens = maxTokens }
}

func WithTemperature(temperature float64) ClientOption {
	return func(c *Client) { c.temperature = temperature }
}

// NewClient builds a Groq client. The API key falls back to the
// GROQ_API_KEY environment variable when not passed explicitly.
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		model:       DefaultModel,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		apiKey, found := os.LookupEnv("GROQ_API_KEY")
		if !found {
			return nil, fmt.Errorf("groq api key not passed in or set in GROQ_API_KEY environment variable")
		}
		client.apiKey = apiKey
	}

	return client, nil
}

// PromptWithStream opens a streamed completion. The returned stream is lazy;
// no request is sent until its chunks are iterated.
func (c *Client) PromptWithStream(ctx context.Context, prompt *string, opts ...llms.StreamingPromptOption) llms.Stream {
	return PromptWithStream(ctx, c.apiKey, c.model, prompt, "",
		append([]llms.StreamingPromptOption{
			llms.WithMaxTokens(c.maxTokens),
			llms.WithTemperature(c.temperature),
		}, opts...)...,
	)
}

// Prompt requests a complete response in one call.
func (c *Client) Prompt(ctx context.Context, prompt string, opts ...llms.StreamingPromptOption) (*llms.Response, error) {
	return Prompt(ctx, c.apiKey, c.model, prompt, "",
		append([]llms.StreamingPromptOption{
			llms.WithMaxTokens(c.maxTokens),
			llms.WithTemperature(c.temperature),
		}, opts...)...,
	)
}

// PromptWithStructure requests a response constrained to outputSchema's JSON
// schema and unmarshals it in place. outputSchema must be a pointer.
func (c *Client) PromptWithStructure(ctx context.Context, prompt string, outputSchema any, opts ...llms.StructuredPromptOption) error {
	return PromptJSONSchema(ctx, c.apiKey, c.model, prompt, "", outputSchema,
		append([]llms.StructuredPromptOption{
			llms.WithMaxTokens(c.maxTokens),
		}, opts...)...,
	)
}
