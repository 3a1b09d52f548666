package groq

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

const (
	url = "https://api.groq.com/openai/v1/chat/completions"

	endMessage  = "[DONE]"
	chunkPrefix = "data:"
)

func PromptWithStream(
	_ context.Context,
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
		apiKey:      apiKey,
		model:       model,
		messages:    messages,
		maxTokens:   options.MaxTokens,
		temperature: options.Temperature,
		err:         err,
	}
}

type Stream struct {
	apiKey string

	model       string
	messages    []message
	maxTokens   int
	temperature *float64

	err error
}

func (s *Stream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	requestToFirstTokenTime := time.Time{}
	setRequestToFirstTokenTime := func(span trace.Span) {
		if requestToFirstTokenTime.IsZero() {
			return
		}
		span.SetAttributes(attribute.Float64("response.request_to_first_token_time", time.Since(requestToFirstTokenTime).Seconds()))
		span.AddEvent("received first chunk")
		requestToFirstTokenTime = time.Time{}
	}

	return func(yield func(llms.StreamChunk, error) bool) {
		ctx, span := tracer.Start(ctx, "prompt llm stream")
		defer span.End()
		span.SetAttributes(attribute.String("request.model", s.model))

		if s.err != nil {
			span.RecordError(s.err)
			yield(nil, s.err)
			return
		}

		reqBody := requestBody{
			Model:       s.model,
			Messages:    s.messages,
			Stream:      true,
			MaxTokens:   s.maxTokens,
			Temperature: s.temperature,
		}

		requestBodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			err = fmt.Errorf("error marshalling JSON: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBodyBytes))
		if err != nil {
			err = fmt.Errorf("error creating HTTP request: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.apiKey)

		span.SetAttributes(attribute.String("request.url", req.URL.String()))
		client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)}
		requestToFirstTokenTime = time.Now()
		span.AddEvent("request started")
		resp, err := client.Do(req)
		if err != nil {
			err = fmt.Errorf("error sending request: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
		if resp.StatusCode != http.StatusOK {
			if errorBody, err := io.ReadAll(resp.Body); err != nil {
				err = fmt.Errorf("error reading error body: %w", err)
				span.RecordError(err)
				span.SetAttributes(attribute.String("error", err.Error()))
			} else {
				span.SetAttributes(attribute.String("response.error", string(errorBody)))
			}

			err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			chunk := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), chunkPrefix))
			setRequestToFirstTokenTime(span)

			if len(chunk) == 0 {
				continue
			}

			if chunk == endMessage {
				break
			}

			var responseBody streamingResponseBody
			err := json.Unmarshal([]byte(chunk), &responseBody)
			if err != nil {
				err = fmt.Errorf("error unmarshalling JSON: %w", err)
				span.RecordError(err)
				if !yield(nil, err) {
					return
				}
				continue
			}

			var finishReason *string
			if len(responseBody.Choices) > 0 {
				delta := responseBody.Choices[0].Delta

				if delta.FinishReason != nil {
					finishReason = delta.FinishReason
				}

				if delta.Role != "" {
					if !yield(StreamRoleChunk{
						finishReason: finishReason,
						role:         delta.Role,
					}, nil) {
						return
					}
				}

				if delta.Content != "" {
					if !yield(StreamContentChunk{
						finishReason: finishReason,
						content:      delta.Content,
					}, nil) {
						return
					}
				}

				if delta.Content == "" && delta.Role == "" && finishReason != nil {
					if !yield(StreamContentChunk{finishReason: finishReason}, nil) {
						return
					}
				}
			}

			if responseBody.Usage != nil {
				span.SetAttributes(attribute.Int("usage.input", responseBody.Usage.PromptTokens))
				span.SetAttributes(attribute.Int("usage.output", responseBody.Usage.CompletionTokens))
				span.SetAttributes(attribute.Int("usage.total", responseBody.Usage.TotalTokens))

				span.SetAttributes(attribute.Float64("usage.queue_time", responseBody.Usage.QueueTime))
				span.SetAttributes(attribute.Float64("usage.prompt_time", responseBody.Usage.PromptTime))
				span.SetAttributes(attribute.Float64("usage.completion_time", responseBody.Usage.CompletionTime))
				span.SetAttributes(attribute.Float64("usage.total_time", responseBody.Usage.TotalTime))

				if !yield(StreamUsageChunk{
					finishReason: finishReason,
					usage: llms.Usage{
						InputTokens:  responseBody.Usage.PromptTokens,
						OutputTokens: responseBody.Usage.CompletionTokens,
						TotalTokens:  responseBody.Usage.TotalTokens,

						QueueTime:      responseBody.Usage.QueueTime,
						CompletionTime: responseBody.Usage.CompletionTime,
						TotalTime:      responseBody.Usage.TotalTime,
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
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Stream      bool      `json:"stream"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type streamingResponseBody struct {
	Choices []struct {
		Delta struct {
			Role         string  `json:"role,omitempty"`
			Content      string  `json:"content,omitempty"`
			FinishReason *string `json:"finish_reason,omitempty"`
		} `json:"delta"`
	} `json:"choices"`
	Usage *struct {
		QueueTime        float64 `json:"queue_time"`
		PromptTokens     int     `json:"prompt_tokens"`
		PromptTime       float64 `json:"prompt_time"`
		CompletionTokens int     `json:"completion_tokens"`
		CompletionTime   float64 `json:"completion_time"`
		TotalTokens      int     `json:"total_tokens"`
		TotalTime        float64 `json:"total_time"`
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
