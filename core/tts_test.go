package orchestration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

type synthesizerStub struct {
	mu        sync.Mutex
	requested []string
	results   []synthesisResult
	calls     int
}

type synthesisResult struct {
	audio []byte
	err   error
}

func (s *synthesizerStub) Synthesize(_ context.Context, text string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requested = append(s.requested, text)
	result := synthesisResult{audio: []byte{1, 2, 3}}
	if s.calls < len(s.results) {
		result = s.results[s.calls]
	}
	s.calls++
	return result.audio, result.err
}

func (s *synthesizerStub) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (s *synthesizerStub) requestedTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requested...)
}

func TestTextToSpeechSynthesizesNormalizedTextButKeepsOriginal(t *testing.T) {
	engine := &synthesizerStub{}
	synthesizer := newTextToSpeech(engine)

	chunk := speechChunk{ordinal: 2, text: "¿Cómo estás?", emotion: EmotionHappy}
	clip, err := synthesizer.synthesize(context.Background(), chunk)
	if err != nil {
		t.Fatalf("expected synthesis to succeed, got %v", err)
	}
	if clip == nil {
		t.Fatal("expected a clip")
	}

	requested := engine.requestedTexts()
	if len(requested) != 1 || requested[0] != "Como estas?" {
		t.Fatalf("expected the engine to receive normalized text, got %v", requested)
	}
	if clip.text != "¿Cómo estás?" {
		t.Fatalf("expected the clip to keep the original text, got %q", clip.text)
	}
	if clip.ordinal != 2 || clip.emotion != EmotionHappy {
		t.Fatalf("expected ordinal and emotion to carry over, got %d %q", clip.ordinal, clip.emotion)
	}
}

func TestTextToSpeechSkipsUnsynthesizableChunks(t *testing.T) {
	engine := &synthesizerStub{}
	synthesizer := newTextToSpeech(engine)

	clip, err := synthesizer.synthesize(context.Background(), speechChunk{text: "¿¡"})
	if err != nil {
		t.Fatalf("expected an unsynthesizable chunk to be skipped, got %v", err)
	}
	if clip != nil {
		t.Fatalf("expected no clip, got %+v", clip)
	}
	if requested := engine.requestedTexts(); len(requested) != 0 {
		t.Fatalf("expected the engine not to be called, got %v", requested)
	}
}

func TestTextToSpeechSkipsIsolatedFailures(t *testing.T) {
	engine := &synthesizerStub{results: []synthesisResult{
		{err: errors.New("voice busy")},
		{audio: []byte{1}},
	}}
	synthesizer := newTextToSpeech(engine)

	clip, err := synthesizer.synthesize(context.Background(), speechChunk{text: "Hola."})
	if err != nil {
		t.Fatalf("expected an isolated failure to be skipped, got %v", err)
	}
	if clip != nil {
		t.Fatalf("expected no clip for the failed chunk, got %+v", clip)
	}

	clip, err = synthesizer.synthesize(context.Background(), speechChunk{text: "Sigo aqui."})
	if err != nil || clip == nil {
		t.Fatalf("expected the next chunk to synthesize, got clip %v err %v", clip, err)
	}
	if failures := synthesizer.consecutiveFailures.Load(); failures != 0 {
		t.Fatalf("expected the failure streak to reset on success, got %d", failures)
	}
}

func TestTextToSpeechReportsRepeatedFailuresAsUnavailable(t *testing.T) {
	engine := &synthesizerStub{results: []synthesisResult{
		{err: errors.New("voice busy")},
		{err: errors.New("voice busy")},
		{err: errors.New("voice busy")},
	}}
	synthesizer := newTextToSpeech(engine)

	var err error
	for i := 0; i < maxConsecutiveSynthesisFailures; i++ {
		_, err = synthesizer.synthesize(context.Background(), speechChunk{text: "Hola."})
	}
	if !errors.Is(err, ErrSynthesisUnavailable) {
		t.Fatalf("expected ErrSynthesisUnavailable after %d failures, got %v", maxConsecutiveSynthesisFailures, err)
	}
}

func TestTextToSpeechPropagatesContextCancellation(t *testing.T) {
	engine := &synthesizerStub{results: []synthesisResult{
		{err: errors.New("interrupted")},
	}}
	synthesizer := newTextToSpeech(engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := synthesizer.synthesize(ctx, speechChunk{text: "Hola."})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if failures := synthesizer.consecutiveFailures.Load(); failures != 0 {
		t.Fatalf("expected cancellation not to count as a failure, got %d", failures)
	}
}

func TestTextToSpeechWithoutClientSkipsEverything(t *testing.T) {
	synthesizer := newTextToSpeech(nil)

	clip, err := synthesizer.synthesize(context.Background(), speechChunk{text: "Hola."})
	if err != nil || clip != nil {
		t.Fatalf("expected an unconfigured synthesizer to skip, got clip %v err %v", clip, err)
	}
}

func TestTextToSpeechDropsEmptyAudio(t *testing.T) {
	engine := &synthesizerStub{results: []synthesisResult{
		{audio: nil},
	}}
	synthesizer := newTextToSpeech(engine)

	clip, err := synthesizer.synthesize(context.Background(), speechChunk{text: "Hola."})
	if err != nil {
		t.Fatalf("expected empty audio to be skipped, got %v", err)
	}
	if clip != nil {
		t.Fatalf("expected no clip for empty audio, got %+v", clip)
	}
}
