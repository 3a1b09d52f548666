package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/events"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

// llmRetryBackoff is how long generation waits before its single retry
// after a stream that produced nothing.
const llmRetryBackoff = 500 * time.Millisecond

type llm struct {
	// client is the configured streaming LLM implementation.
	client LLMWithStream
	// persona is the system instruction sent with every generation.
	persona string

	emitEvent eventEmitter
}

func newLLM() llm {
	return llm{emitEvent: noopEventEmitter}
}

func (runtime *llm) set(client LLMWithStream) {
	if runtime == nil {
		return
	}

	runtime.client = client
}

// generate streams one response into fragments, emitting a text-fragment
// event per streamed piece. The stream is retried once, only if it failed
// before producing anything; a broken stream that already produced text is
// reported as-is so the caller can decide what to keep.
func (runtime *llm) generate(ctx context.Context, turns []llms.Turn, fragments *fragmentBuffer, cancelled func() bool) error {
	defer fragments.Complete()

	if runtime == nil || runtime.client == nil {
		return errors.Join(ErrGenerationUnavailable, errors.New("no streaming llm configured"))
	}

	runtime.emitEvent(events.NewAssistantGenerationStarted())

	ordinal := 0
	streamOnce := func() error {
		stream := runtime.client.PromptWithStream(ctx, nil,
			llms.WithSystemPrompt(runtime.persona),
			llms.WithTurns(turns...),
		)

		for chunk, err := range stream.Chunks(ctx) {
			if err != nil {
				return fmt.Errorf("failed to stream llm response: %w", err)
			}

			if cancelled != nil && cancelled() {
				return nil
			}

			if contentChunk, ok := chunk.(llms.StreamContentChunk); ok {
				fragment := contentChunk.Content()
				if fragment == "" {
					continue
				}

				fragments.Add(fragment)
				runtime.emitEvent(events.NewAssistantTextFragment(fragment, ordinal))
				ordinal++
			}
		}
		return nil
	}

	err := streamOnce()
	if err != nil && ordinal == 0 {
		log.Println("Warning: retrying llm generation:", err)
		select {
		case <-ctx.Done():
			return errors.Join(ErrGenerationUnavailable, ctx.Err())
		case <-time.After(llmRetryBackoff):
		}
		err = streamOnce()
	}
	if err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.Join(ErrGenerationUnavailable, err)
	}

	if cancelled == nil || !cancelled() {
		runtime.emitEvent(events.NewAssistantGenerationEnded(fragments.String()))
	}
	return nil
}
