package gemini

import (
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

const baseURL = "https://generativelanguage.googleapis.com/v1beta/models/"

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

	return &Stream{
		apiKey:      apiKey,
		model:       model,
		prompt:      prompt,
		options:     options.PromptOptions,
		maxTokens:   options.MaxTokens,
		temperature: options.Temperature,
	}
}

type Stream struct {
	apiKey string

	model       string
	prompt      *string
	options     llms.PromptOptions
	maxTokens   int
	temperature *float64
}

func (s *Stream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		var generationConfig *generationConfigBody
		if s.maxTokens > 0 || s.temperature != nil {
			generationConfig = &generationConfigBody{
				MaxOutputTokens: s.maxTokens,
				Temperature:     s.temperature,
			}
		}

		reqBody := requestBody{
			Contents:         toContents(s.options.Turns, s.prompt),
			GenerationConfig: generationConfig,
		}
		if s.options.Instructions != "" {
			reqBody.SystemInstruction = &content{
				Parts: []part{{Text: s.options.Instructions}},
			}
		}

		requestBodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			yield(nil, fmt.Errorf("error marshalling JSON: %w", err))
			return
		}

		url := baseURL + s.model + ":generateContent"
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBodyBytes))
		if err != nil {
			yield(nil, fmt.Errorf("error creating HTTP request: %w", err))
			return
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", s.apiKey)

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

		respBodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			yield(nil, fmt.Errorf("error reading response body: %w", err))
			return
		}
		var responseBody generateResponseBody
		if err := json.Unmarshal(respBodyBytes, &responseBody); err != nil {
			yield(nil, fmt.Errorf("error unmarshalling response body: %w", err))
			return
		}
		if len(responseBody.Candidates) == 0 {
			yield(nil, fmt.Errorf("response contained no candidates"))
			return
		}

		candidate := responseBody.Candidates[0]
		var finishReason *string
		if candidate.FinishReason != "" {
			finishReason = &candidate.FinishReason
		}
		for _, part := range candidate.Content.Parts {
			if part.Text == "" {
				continue
			}
			if !yield(StreamContentChunk{
				finishReason: finishReason,
				content:      part.Text,
			}, nil) {
				return
			}
		}

		if responseBody.UsageMetadata != nil {
			if !yield(StreamUsageChunk{
				finishReason: finishReason,
				usage: llms.Usage{
					InputTokens:  responseBody.UsageMetadata.PromptTokenCount,
					OutputTokens: responseBody.UsageMetadata.CandidatesTokenCount,
					TotalTokens:  responseBody.UsageMetadata.TotalTokenCount,
				},
			}, nil) {
				return
			}
		}
	}
}

// toContents converts the conversation to Gemini's content list. Gemini
// names the assistant role "model".
func toContents(turns []llms.Turn, prompt *string) []content {
	contents := make([]content, 0, len(turns)+1)
	for _, turn := range turns {
		role := "user"
		if turn.Role == llms.TurnRoleAssistant {
			role = "model"
		}
		contents = append(contents, content{
			Role:  role,
			Parts: []part{{Text: turn.Content}},
		})
	}
	if prompt != nil {
		contents = append(contents, content{
			Role:  "user",
			Parts: []part{{Text: *prompt}},
		})
	}
	return contents
}

type requestBody struct {
	SystemInstruction *content              `json:"system_instruction,omitempty"`
	Contents          []content             `json:"contents"`
	GenerationConfig  *generationConfigBody `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfigBody struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

type generateResponseBody struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
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
