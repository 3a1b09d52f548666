// Package openai adapts any OpenAI-compatible chat-completions endpoint to
// the provider-neutral llms contract. The base URL is configurable, so the
// same adapter covers the hosted API as well as local gateways like Ollama
// and Mistral-compatible servers.
package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

type Client struct {
	baseURL string
	apiKey  string
	model   string
}

type ClientOption func(*Client)

// WithBaseURL points the client at a compatible endpoint, e.g.
// http://localhost:11434/v1 for Ollama.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) { c.apiKey = apiKey }
}

// NewClient builds a client for an OpenAI-compatible endpoint. The API key
// falls back to the OPENAI_API_KEY environment variable; it is only required
// when talking to the hosted API, local gateways accept any value.
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		client.apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if client.apiKey == "" && client.baseURL == DefaultBaseURL {
		return nil, fmt.Errorf("openai api key not passed in or set in OPENAI_API_KEY environment variable")
	}

	return client, nil
}

// PromptWithStream opens a streamed completion. The returned stream is lazy;
// no request is sent until its chunks are iterated.
func (c *Client) PromptWithStream(ctx context.Context, prompt *string, opts ...llms.StreamingPromptOption) llms.Stream {
	return PromptWithStream(ctx, c.baseURL, c.apiKey, c.model, prompt, "", opts...)
}

// Prompt requests a complete response in one call.
func (c *Client) Prompt(ctx context.Context, prompt string, opts ...llms.StreamingPromptOption) (*llms.Response, error) {
	return Prompt(ctx, c.baseURL, c.apiKey, c.model, prompt, "", opts...)
}
