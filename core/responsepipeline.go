package orchestration

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/codes"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/events"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

// turnInput is what one assistant turn speaks: either a scripted line that
// bypasses generation, or the prompt turns for the model.
type turnInput struct {
	scripted string
	turns    []llms.Turn
}

// turnResult is what a finished turn actually produced. fullText is every
// chunk the response was cut into; spokenText only the chunks that entered
// playback. They differ when the turn was cancelled or soft-stopped.
type turnResult struct {
	fullText   string
	spokenText string
	emotions   []string
	truncated  bool
}

// responsePipeline runs one assistant turn: generation streams text into
// the fragment buffer, synthesis cuts it into chunks and renders clips a
// little ahead of playback, and playback feeds the output device. Each
// stage runs as its own worker so speech starts before generation ends.
type responsePipeline struct {
	llm         llm
	fragments   *fragmentBuffer
	synthesizer *textToSpeech
	clips       *clipQueue
	audioOutput *audioOutput

	emitEvent eventEmitter

	// onPlaybackStart fires once, when the first clip enters playback.
	onPlaybackStart func()

	cancelled   atomic.Bool
	softStopped atomic.Bool

	resultMu    sync.Mutex
	chunkTexts  []string
	spokenTexts []string
	emotions    []string
	lastEmotion string
}

func newResponsePipeline(llm llm, synthesizer *textToSpeech, audioOutput *audioOutput, lookAhead int, emitEvent eventEmitter, onPlaybackStart func()) *responsePipeline {
	if emitEvent == nil {
		emitEvent = noopEventEmitter
	}
	return &responsePipeline{
		llm:         llm,
		fragments:   newFragmentBuffer(),
		synthesizer: synthesizer,
		clips:       newClipQueue(lookAhead),
		audioOutput: audioOutput,

		emitEvent:       emitEvent,
		onPlaybackStart: onPlaybackStart,
	}
}

func (p *responsePipeline) Run(ctx context.Context, input turnInput) (turnResult, error) {
	if p == nil {
		return turnResult{}, fmt.Errorf("response pipeline is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var workerErr error
	workerErrMu := sync.Mutex{}
	addWorkerErr := func(err error) {
		if err == nil {
			return
		}
		workerErrMu.Lock()
		workerErr = errors.Join(workerErr, err)
		workerErrMu.Unlock()
	}

	run := func(name string, f func(context.Context) error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				addWorkerErr(fmt.Errorf("%s worker panicked: %v", name, recovered))
				cancel()
			}
		}()

		if err := f(ctx); err != nil {
			addWorkerErr(fmt.Errorf("%s worker failed: %w", name, err))
			cancel()
		}
	}

	wg := &sync.WaitGroup{}
	wg.Add(3)
	go func() {
		defer wg.Done()
		run("llm generation", func(ctx context.Context) error {
			return p.generateResponse(ctx, input)
		})
	}()
	go func() {
		defer wg.Done()
		run("speech synthesis", func(ctx context.Context) error {
			return p.synthesizeChunks(ctx)
		})
	}()
	go func() {
		defer wg.Done()
		run("speech playback", func(ctx context.Context) error {
			return p.playClips(ctx)
		})
	}()

	wg.Wait()

	result := p.result()
	if workerErr != nil {
		return result, fmt.Errorf("one or more turn processes failed: %w", workerErr)
	}

	return result, nil
}

func (p *responsePipeline) generateResponse(ctx context.Context, input turnInput) error {
	ctx, span := tracer.Start(ctx, "generate llm")
	defer span.End()

	if input.scripted != "" {
		p.fragments.Add(input.scripted)
		p.fragments.Complete()
		return nil
	}

	return p.llm.generate(ctx, input.turns, p.fragments, p.stopped)
}

func (p *responsePipeline) synthesizeChunks(ctx context.Context) error {
	done := withContextCancelHook(ctx, p.fragments.Clear)
	defer close(done)

	// Playback drains and exits once synthesis stops feeding it.
	defer p.clips.Loaded()

	_, span := tracer.Start(ctx, "passing text to tts")
	defer span.End()

	chunker := newChunker(p.fragments)
	for chunk := range chunker.Chunks {
		if p.stopped() {
			break
		}

		p.recordChunk(chunk)
		p.emitEvent(events.NewAssistantChunkReady(chunk.ordinal, chunk.text, chunk.emotion))

		clip, err := p.synthesizer.synthesize(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if clip == nil {
			continue
		}

		if err := p.clips.Add(ctx, *clip); err != nil {
			break
		}
	}

	return nil
}

func (p *responsePipeline) playClips(ctx context.Context) error {
	done := withContextCancelHook(ctx, func() {
		p.clips.Stop()
		p.audioOutput.Clear()
	})
	defer close(done)

	_, span := tracer.Start(ctx, "passing speech to audio output")
	defer span.End()

	startedPlayback := false
	for clip := range p.clips.Clips {
		if p.stopped() {
			break
		}

		if !startedPlayback {
			startedPlayback = true
			if p.onPlaybackStart != nil {
				p.onPlaybackStart()
			}
		}

		// A clip counts as spoken the moment it enters playback; a
		// partially heard chunk is still part of what the user heard.
		if p.recordSpoken(clip) {
			p.emitEvent(events.NewAssistantEmotion(clip.emotion))
		}

		if err := p.audioOutput.Play(ctx, clip); err != nil {
			if ctx.Err() != nil || p.stopped() {
				break
			}
			span.RecordError(fmt.Errorf("failed to play clip: %w", err))
			continue
		}

		p.emitEvent(events.NewAssistantChunkSpoken(clip.ordinal, clip.text))
	}

	return nil
}

// Cancel tears the turn down immediately: pending text and clips are
// discarded and whatever the output device holds is flushed.
func (p *responsePipeline) Cancel() {
	if p == nil || !p.cancelled.CompareAndSwap(false, true) {
		return
	}

	p.fragments.Clear()
	p.clips.Stop()
	p.audioOutput.Clear()
}

// SoftStop lets the clip currently in playback finish and drops everything
// behind it.
func (p *responsePipeline) SoftStop() {
	if p == nil || !p.softStopped.CompareAndSwap(false, true) {
		return
	}

	p.fragments.Clear()
}

func (p *responsePipeline) IsCancelled() bool {
	if p == nil {
		return false
	}

	return p.cancelled.Load()
}

func (p *responsePipeline) stopped() bool {
	return p.cancelled.Load() || p.softStopped.Load()
}

func (p *responsePipeline) recordChunk(chunk speechChunk) {
	p.resultMu.Lock()
	defer p.resultMu.Unlock()
	p.chunkTexts = append(p.chunkTexts, chunk.text)
}

func (p *responsePipeline) recordSpoken(clip audioClip) (emotionChanged bool) {
	p.resultMu.Lock()
	defer p.resultMu.Unlock()

	p.spokenTexts = append(p.spokenTexts, clip.text)
	if !slices.Contains(p.emotions, clip.emotion) {
		p.emotions = append(p.emotions, clip.emotion)
	}

	changed := clip.emotion != p.lastEmotion
	p.lastEmotion = clip.emotion
	return changed
}

func (p *responsePipeline) result() turnResult {
	p.resultMu.Lock()
	defer p.resultMu.Unlock()

	fullText := strings.Join(p.chunkTexts, " ")
	spokenText := strings.Join(p.spokenTexts, " ")
	return turnResult{
		fullText:   fullText,
		spokenText: spokenText,
		emotions:   append([]string(nil), p.emotions...),
		truncated:  (p.cancelled.Load() || p.softStopped.Load()) && spokenText != fullText,
	}
}
