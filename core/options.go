package orchestration

import (
	"context"
	"time"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio/vad"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/events"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/interruptions"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/speechtotext"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/texttospeech"
)

type OrchestratorOption func(*Orchestrator)

type LLMWithStream interface {
	LLM
	PromptWithStream(ctx context.Context, prompt *string, opts ...llms.StreamingPromptOption) llms.Stream
}

type LLMWithStructuredPrompt interface {
	LLM
	PromptWithStructure(ctx context.Context, prompt string, outputSchema any, opts ...llms.StructuredPromptOption) error
}

func WithStreamingLLM(client LLMWithStream) OrchestratorOption {
	return func(o *Orchestrator) {
		o.llm.set(client)
	}
}

// InterruptionClassifier decides what a transcript that arrived right after
// a barge-in means for the interrupted response.
type InterruptionClassifier interface {
	Classify(ctx context.Context, utterance string, history []llms.Turn) (interruptions.Classification, error)
}

// WithInterruptionClassifier enables semantic handling of barge-in
// transcripts. Without it every barge-in transcript is treated as a new
// prompt.
func WithInterruptionClassifier(classifier InterruptionClassifier) OrchestratorOption {
	return func(o *Orchestrator) {
		o.classifier = classifier
	}
}

type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
}

func WithSpeechToTextClient(client SpeechToText) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechToText.set(client)
	}
}

func WithSpeechSynthesizer(client texttospeech.SpeechSynthesizer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.synthesizer.set(client)
	}
}

type AudioInput interface {
	audioInputBase
}

func WithAudioInput(client AudioInput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioInput.set(client) }
}

type AudioOutput interface {
	audioOutputBase
}

func WithAudioOutput(client AudioOutput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioOutput.set(client) }
}

// WithSessionDuration caps the session length. The default is
// DefaultSessionDuration.
func WithSessionDuration(duration time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.duration = duration }
}

// WithPersona replaces the default system instructions.
func WithPersona(persona string) OrchestratorOption {
	return func(o *Orchestrator) { o.persona = persona }
}

// WithGreeting replaces the scripted line spoken when the session opens.
// An empty greeting skips the opening line entirely.
func WithGreeting(greeting string) OrchestratorOption {
	return func(o *Orchestrator) { o.greeting = greeting }
}

// WithClosing replaces the scripted line spoken during session teardown.
// An empty closing skips it.
func WithClosing(closing string) OrchestratorOption {
	return func(o *Orchestrator) { o.closing = closing }
}

// WithLookAhead sets how many synthesized clips may sit ahead of playback.
// Values below one are treated as one.
func WithLookAhead(clips int) OrchestratorOption {
	return func(o *Orchestrator) { o.lookAhead = clips }
}

func WithVoiceActivityConfig(config vad.Config) OrchestratorOption {
	return func(o *Orchestrator) { o.vadConfig = config }
}

type OrchestrateOptions struct {
	onPhaseChanged         func(from, to Phase)
	onTranscription        func(transcript string)
	onInterimTranscription func(transcript string)
	onResponseText         func(fragment string)
	onSpokenResponse       func(text string)
	onEmotion              func(emotion string)
	onTimeRemaining        func(remaining time.Duration)
	onSessionEnd           func(reason string)
	onError                func(err error)
	onEvent                func(event events.Event)
	onInputAudio           func(audio []byte)
}

type OrchestrateOption func(*OrchestrateOptions)

func WithPhaseChangedCallback(callback func(from, to Phase)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onPhaseChanged = callback
	}
}

// WithTranscriptionCallback registers a callback for final transcriptions
// produced by the configured speech-to-text client. Final transcripts are
// exactly what enters the session history.
func WithTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onTranscription = callback
	}
}

// WithInterimTranscriptionCallback registers a callback for interim
// transcriptions produced by the configured speech-to-text client.
//
// Interim transcripts are mutable snapshots and never enter the session
// history.
func WithInterimTranscriptionCallback(callback func(transcript string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onInterimTranscription = callback
	}
}

func WithResponseTextCallback(callback func(fragment string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onResponseText = callback
	}
}

// WithSpokenResponseCallback registers a callback fired once per chunk
// after its playback completes. Chunks cancelled mid-air never reach it.
func WithSpokenResponseCallback(callback func(text string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onSpokenResponse = callback
	}
}

// WithEmotionCallback registers a callback fired when the emotion tag of
// the chunk entering playback differs from the previous one.
func WithEmotionCallback(callback func(emotion string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onEmotion = callback
	}
}

// WithTimeRemainingCallback registers a callback for the whole-minute
// remaining-time notices.
func WithTimeRemainingCallback(callback func(remaining time.Duration)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onTimeRemaining = callback
	}
}

func WithSessionEndCallback(callback func(reason string)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onSessionEnd = callback
	}
}

// WithErrorCallback registers a callback for failures that survive the
// orchestrator's own recovery, such as a disconnected device or a
// synthesizer that keeps failing.
func WithErrorCallback(callback func(err error)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onError = callback
	}
}

// WithEventCallback registers a callback for every event the session
// emits, before the matching typed callback fires. It is meant for logging
// and UIs that want the full feed.
func WithEventCallback(callback func(event events.Event)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onEvent = callback
	}
}

// WithInputAudioCallback registers a callback for raw captured audio.
//
// The provided slice is passed through as-is (no defensive copy). The
// callback runs inline on the input-audio path and should not block.
func WithInputAudioCallback(callback func(audio []byte)) OrchestrateOption {
	return func(o *OrchestrateOptions) {
		o.onInputAudio = callback
	}
}

type LLM any

type audioOutputBase interface {
	EncodingInfo() audio.EncodingInfo
	SendAudio(audio []byte) error
	ClearBuffer()
}

type audioInputBase interface {
	EncodingInfo() audio.EncodingInfo
	Stream(ctx context.Context, onAudio func(audio []byte)) error
}
