package orchestration

import (
	"context"
	"fmt"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
	events "github.com/ziclari/prueba-STT-TTS-LLM/core/events"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/speechtotext"
)

type speechToText struct {
	// client stores the configured speech-to-text implementation.
	client SpeechToText

	emitEvent eventEmitter

	callbacks speechToTextCallbacks
}

// speechToTextCallbacks carries the orchestrator's reactions to
// transcription activity, invoked alongside the emitted events.
type speechToTextCallbacks struct {
	onSpeechStarted func()
	onSpeechEnded   func()
	onTranscription func(transcript string)
}

func newSpeechToText(client SpeechToText) *speechToText {
	return &speechToText{
		client:    client,
		emitEvent: noopEventEmitter,
	}
}

func (s *speechToText) set(client SpeechToText) {
	if s != nil {
		s.client = client
	}
}

func (s *speechToText) Start(ctx context.Context, callbacks speechToTextCallbacks, encodingInfo *audio.EncodingInfo) error {
	if !s.isConfigured() {
		return nil
	}

	s.callbacks = callbacks

	sttOptions := []speechtotext.TranscriptionOption{
		speechtotext.WithSpeechStartedCallback(s.invokeSpeechStarted),
		speechtotext.WithSpeechEndedCallback(s.invokeSpeechEnded),
		speechtotext.WithInterimTranscriptionCallback(s.invokeInterimTranscription),
		speechtotext.WithTranscriptionCallback(s.invokeTranscription),
	}
	if encodingInfo != nil {
		sttOptions = append(sttOptions, speechtotext.WithEncodingInfo(*encodingInfo))
	}

	if err := s.Transcribe(ctx, sttOptions...); err != nil {
		return fmt.Errorf("failed to start transcribing: %w", err)
	}

	return nil
}

func (s *speechToText) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	if !s.isConfigured() {
		return nil
	}

	return s.client.Transcribe(ctx, opts...)
}

func (s *speechToText) SendAudio(audio []byte) error {
	if !s.isConfigured() {
		return nil
	}

	return s.client.SendAudio(audio)
}

func (s *speechToText) Close(ctx context.Context) error {
	if !s.isConfigured() {
		return nil
	}

	switch c := s.client.(type) {
	case interface{ StopStream() error }:
		if err := c.StopStream(); err != nil {
			return fmt.Errorf("failed to close speech-to-text client: %w", err)
		}
	case interface{ Close(context.Context) error }:
		if err := c.Close(ctx); err != nil {
			return fmt.Errorf("failed to close speech-to-text client: %w", err)
		}
	case interface{ Close(context.Context) }:
		c.Close(ctx)
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close speech-to-text client: %w", err)
		}
	case interface{ Close() }:
		c.Close()
	}

	return nil
}

func (s *speechToText) SetEventEmitter(emitEvent eventEmitter) {
	if s != nil {
		if emitEvent != nil {
			s.emitEvent = emitEvent
		} else {
			s.emitEvent = noopEventEmitter
		}
	}
}

func (s *speechToText) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *speechToText) invokeSpeechStarted() {
	s.emitEvent(events.NewUserSpeechStarted())
	if s.callbacks.onSpeechStarted != nil {
		s.callbacks.onSpeechStarted()
	}
}

func (s *speechToText) invokeSpeechEnded() {
	s.emitEvent(events.NewUserSpeechEnded())
	if s.callbacks.onSpeechEnded != nil {
		s.callbacks.onSpeechEnded()
	}
}

func (s *speechToText) invokeInterimTranscription(transcript string) {
	s.emitEvent(events.NewUserTranscriptInterim(transcript))
}

func (s *speechToText) invokeTranscription(transcript string) {
	s.emitEvent(events.NewUserTranscriptInterim(""))
	s.emitEvent(events.NewUserTranscriptFinal(transcript))
	if s.callbacks.onTranscription != nil {
		s.callbacks.onTranscription(transcript)
	}
}
