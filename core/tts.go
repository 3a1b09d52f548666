package orchestration

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/texttospeech"
)

// maxConsecutiveSynthesisFailures is how many chunks in a row may fail to
// synthesize before the synthesizer is treated as down.
const maxConsecutiveSynthesisFailures = 3

type textToSpeech struct {
	// client is the configured speech synthesizer.
	client texttospeech.SpeechSynthesizer

	// consecutiveFailures counts synthesis failures with no success in
	// between.
	consecutiveFailures atomic.Int32
}

func newTextToSpeech(client texttospeech.SpeechSynthesizer) *textToSpeech {
	return &textToSpeech{client: client}
}

func (t *textToSpeech) set(client texttospeech.SpeechSynthesizer) {
	if t != nil {
		t.client = client
	}
}

func (t *textToSpeech) isConfigured() bool {
	return t != nil && t.client != nil
}

// synthesize renders one chunk as an audio clip. A chunk that normalizes to
// nothing, or whose synthesis fails in isolation, is skipped by returning
// (nil, nil); an error is returned only when the synthesizer looks down for
// good or the context was cancelled.
func (t *textToSpeech) synthesize(ctx context.Context, chunk speechChunk) (*audioClip, error) {
	if !t.isConfigured() {
		return nil, nil
	}

	text := texttospeech.Normalize(chunk.text)
	if text == "" {
		return nil, nil
	}

	audio, err := t.client.Synthesize(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if failures := t.consecutiveFailures.Add(1); failures >= maxConsecutiveSynthesisFailures {
			return nil, errors.Join(ErrSynthesisUnavailable, err)
		}
		log.Println("Warning: failed to synthesize chunk:", err)
		return nil, nil
	}
	t.consecutiveFailures.Store(0)

	if len(audio) == 0 {
		return nil, nil
	}

	return &audioClip{
		ordinal: chunk.ordinal,
		text:    chunk.text,
		emotion: chunk.emotion,
		audio:   audio,
	}, nil
}
