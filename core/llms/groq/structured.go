package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

// PromptJSONSchema asks for a completion constrained to outputSchema's
// reflected JSON schema and unmarshals the result into outputSchema, which
// must be a pointer.
func PromptJSONSchema[T any](
	ctx context.Context,
	apiKey string,
	model string,
	prompt string,
	systemPrompt string,
	outputSchema T,
	opts ...llms.StructuredPromptOption,
) error {
	ctx, span := tracer.Start(ctx, "prompt llm structured")
	defer span.End()

	options := llms.StructuredPromptOptions{
		PromptOptions: llms.PromptOptions{Instructions: systemPrompt},
	}
	for _, opt := range opts {
		opt.ApplyToStructured(&options)
	}

	messages, err := toMessages(options.Instructions, options.Turns, &prompt)
	if err != nil {
		span.RecordError(err)
		return err
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	var (
		schema         *jsonschema.Schema
		outputTypeName string
	)
	if reflect.TypeOf(outputSchema).Kind() == reflect.Ptr {
		schema = reflector.ReflectFromType(reflect.TypeOf(outputSchema).Elem())
		outputTypeName = reflect.TypeOf(outputSchema).Elem().Name()
	} else {
		schema = reflector.Reflect(outputSchema)
		outputTypeName = reflect.TypeOf(outputSchema).Name()
	}

	reqBody := schemaRequestBody{
		Model:       model,
		Messages:    messages,
		MaxTokens:   options.MaxTokens,
		Temperature: options.Temperature,
		ResponseFormat: &ChatResponseFormat{
			Type: "json_schema",
			JSONSchema: &JSONSchema{
				Name:   outputTypeName,
				Schema: *schema,
				Strict: true,
			},
		},
	}

	span.SetAttributes(attribute.String("request.model", model))
	schemaString, _ := schema.MarshalJSON()
	span.SetAttributes(attribute.String("request.schema", string(schemaString)))

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	span.SetAttributes(attribute.String("request.url", req.URL.String()))
	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	resp, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return err
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
		span.SetAttributes(attribute.String("error", err.Error()))
		return err
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("error reading response body: %w", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return err
	}
	var responseBody schemaResponseBody
	if err := json.Unmarshal(respBodyBytes, &responseBody); err != nil {
		err = fmt.Errorf("error unmarshalling response body: %w", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return err
	}
	if len(responseBody.Choices) == 0 {
		err := fmt.Errorf("response contained no choices")
		span.RecordError(err)
		return err
	}

	content := responseBody.Choices[0].Message.Content
	split := strings.Split(content, "```")
	if len(split) > 1 {
		content = split[1]
	}
	if err := json.Unmarshal([]byte(content), outputSchema); err != nil {
		err = fmt.Errorf("error unmarshalling response: %w", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return err
	}

	return nil
}

type schemaRequestBody struct {
	Model          string              `json:"model"`
	Messages       []message           `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    *float64            `json:"temperature,omitempty"`
	ResponseFormat *ChatResponseFormat `json:"response_format,omitempty"`
}

type ChatResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

type JSONSchema struct {
	// Name is the name of the chat completion response format json
	// schema.
	//
	// it is used to further identify the schema in the response.
	Name string `json:"name"`
	// Description is the description of the chat completion
	// response format json schema.
	Description string `json:"description,omitempty"`
	// Schema is the schema of the chat completion response format
	// json schema.
	Schema jsonschema.Schema `json:"schema"`
	// Strict determines whether to enforce the schema upon the
	// generated content.
	Strict bool `json:"strict"`
}

type schemaResponseBody struct {
	Choices []struct {
		Message struct {
			Role         string  `json:"role,omitempty"`
			Content      string  `json:"content,omitempty"`
			FinishReason *string `json:"finish_reason,omitempty"`
		} `json:"message"`
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
