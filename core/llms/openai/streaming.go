package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

const (
	completionsPath = "/chat/completions"

	endMessage  = "[DONE]"
	chunkPrefix = "data:"
)

func PromptWithStream(
	_ context.Context,
	baseURL string,
	apiKey string,
	model string,
	prompt *string,
	systemPrompt string,
	opts ...llms.StreamingPromptOption,
) *Stream {
	options := llms.StreamingPromptOptions{
		PromptOptions: llms.PromptOptions{
			Instructions: systemPrompt,
		},
	}
	for _, opt := range opts {
		opt.ApplyToStreaming(&options)
	}

	messages, err := toMessages(options.Instructions, options.Turns, prompt)

	return &Stream{
		url:         strings.TrimRight(baseURL, "/") + completionsPath,
		apiKey:      apiKey,
		model:       model,
		messages:    messages,
		maxTokens:   options.MaxTokens,
		temperature: options.Temperature,
		err:         err,
	}
}

type Stream struct {
	url    string
	apiKey string

	model       string
	messages    []message
	maxTokens   int
	temperature *float64

	err error
}

func (s *Stream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		if s.err != nil {
			yield(nil, s.err)
			return
		}

		reqBody := requestBody{
			Model:         s.model,
			Messages:      s.messages,
			Stream:        true,
			StreamOptions: &streamOptions{IncludeUsage: true},
			MaxTokens:     s.maxTokens,
			Temperature:   s.temperature,
		}

		requestBodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			yield(nil, fmt.Errorf("error marshalling JSON: %w", err))
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", s.url, bytes.NewBuffer(requestBodyBytes))
		if err != nil {
			yield(nil, fmt.Errorf("error creating HTTP request: %w", err))
			return
		}

		req.Header.Set("Content-Type", "application/json")
		if s.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+s.apiKey)
		}

		client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)}
		resp, err := client.Do(req)
		if err != nil {
			yield(nil, fmt.Errorf("error sending request: %w", err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			errorBody, _ := io.ReadAll(resp.Body)
			yield(nil, fmt.Errorf("non-OK HTTP status: %s: %s", resp.Status, strings.TrimSpace(string(errorBody))))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			chunk := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), chunkPrefix))

			if len(chunk) == 0 {
				continue
			}

			if chunk == endMessage {
				break
			}

			var responseBody streamingResponseBody
			if err := json.Unmarshal([]byte(chunk), &responseBody); err != nil {
				if !yield(nil, fmt.Errorf("error unmarshalling JSON: %w", err)) {
					return
				}
				continue
			}

			if len(responseBody.Choices) > 0 {
				choice := responseBody.Choices[0]

				if choice.Delta.Role != "" {
					if !yield(StreamRoleChunk{
						finishReason: choice.FinishReason,
						role:         choice.Delta.Role,
					}, nil) {
						return
					}
				}

				if choice.Delta.Content != "" || choice.FinishReason != nil {
					if !yield(StreamContentChunk{
						finishReason: choice.FinishReason,
						content:      choice.Delta.Content,
					}, nil) {
						return
					}
				}
			}

			if responseBody.Usage != nil {
				if !yield(StreamUsageChunk{
					usage: llms.Usage{
						InputTokens:  responseBody.Usage.PromptTokens,
						OutputTokens: responseBody.Usage.CompletionTokens,
						TotalTokens:  responseBody.Usage.TotalTokens,
					},
				}, nil) {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("error reading streamed response: %w", err))
			return
		}
	}
}

type requestBody struct {
	Model         string         `json:"model"`
	Messages      []message      `json:"messages"`
	Stream        bool           `json:"stream"`
	StreamOptions *streamOptions `json:"stream_options,omitempty"`
	MaxTokens     int            `json:"max_tokens,omitempty"`
	Temperature   *float64       `json:"temperature,omitempty"`
}

type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

type streamingResponseBody struct {
	Choices []struct {
		Delta struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type StreamRoleChunk struct {
	finishReason *string
	role         string
}

func (s StreamRoleChunk) FinishReason() *string {
	return s.finishReason
}

func (s StreamRoleChunk) Role() string {
	return s.role
}

type StreamContentChunk struct {
	finishReason *string
	content      string
}

func (s StreamContentChunk) FinishReason() *string {
	return s.finishReason
}

func (s StreamContentChunk) Content() string {
	return s.content
}

type StreamUsageChunk struct {
	finishReason *string
	usage        llms.Usage
}

func (s StreamUsageChunk) FinishReason() *string {
	return s.finishReason
}

func (s StreamUsageChunk) Usage() llms.Usage {
	return s.usage
}
