// Package gemini adapts the Gemini generateContent REST API to the
// provider-neutral llms contract. The API is not streamed; the complete
// response is emitted through the Stream interface as a short fragment
// sequence so the rest of the pipeline stays provider-agnostic.
package gemini

import (
	"context"
	"fmt"
	"os"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

const DefaultModel = "gemini-2.5-flash"

type Client struct {
	apiKey string
	model  string
}

type ClientOption func(*Client)

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) { c.apiKey = apiKey }
}

// NewClient builds a Gemini client. The API key falls back to the
// GEMINI_API_KEY environment variable when not passed explicitly.
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{model: DefaultModel}
	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		apiKey, found := os.LookupEnv("GEMINI_API_KEY")
		if !found {
			return nil, fmt.Errorf("gemini api key not passed in or set in GEMINI_API_KEY environment variable")
		}
		client.apiKey = apiKey
	}

	return client, nil
}

// PromptWithStream opens a lazy stream over a generateContent call. The
// request is sent when the chunks are first iterated and the full response
// arrives as a single content fragment.
func (c *Client) PromptWithStream(ctx context.Context, prompt *string, opts ...llms.StreamingPromptOption) llms.Stream {
	return PromptWithStream(ctx, c.apiKey, c.model, prompt, "", opts...)
}

// Prompt requests a complete response in one call.
func (c *Client) Prompt(ctx context.Context, prompt string, opts ...llms.StreamingPromptOption) (*llms.Response, error) {
	stream := PromptWithStream(ctx, c.apiKey, c.model, &prompt, "", opts...)

	var response llms.Response
	for chunk, err := range stream.Chunks(ctx) {
		if err != nil {
			return nil, err
		}
		switch chunk := chunk.(type) {
		case StreamContentChunk:
			response.Content += chunk.Content()
		case StreamUsageChunk:
			u := chunk.Usage()
			response.Usage = &u
		}
	}
	return &response, nil
}
