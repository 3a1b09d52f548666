package openai

import (
	"context"
	"strings"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

// Prompt runs a streamed completion to the end and returns the accumulated
// response.
func Prompt(
	ctx context.Context,
	baseURL string,
	apiKey string,
	model string,
	prompt string,
	systemPrompt string,
	opts ...llms.StreamingPromptOption,
) (*llms.Response, error) {
	stream := PromptWithStream(ctx, baseURL, apiKey, model, &prompt, systemPrompt, opts...)

	var content strings.Builder
	var usage *llms.Usage
	for chunk, err := range stream.Chunks(ctx) {
		if err != nil {
			return nil, err
		}
		switch chunk := chunk.(type) {
		case StreamContentChunk:
			content.WriteString(chunk.Content())
		case StreamUsageChunk:
			u := chunk.Usage()
			usage = &u
		}
	}

	return &llms.Response{
		Content: content.String(),
		Usage:   usage,
	}, nil
}
