// Package speechtotext defines the contract between the orchestration core
// and live-transcription adapters.
package speechtotext

import "github.com/ziclari/prueba-STT-TTS-LLM/core/audio"

type TranscriptionOptions struct {
	PartialInterimTranscriptionCallback func(transcript string)
	InterimTranscriptionCallback        func(transcript string)
	PartialTranscriptionCallback        func(transcript string)
	TranscriptionCallback               func(transcript string)

	SpeechStartedCallback func()
	SpeechEndedCallback   func()

	EncodingInfo audio.EncodingInfo

	Language string
	Model    string
}

type TranscriptionOption func(*TranscriptionOptions)

// WithTranscriptionCallback registers a callback for the full transcript of
// an utterance, delivered once the speaker has finished.
func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

// WithPartialTranscriptionCallback registers a callback for finalized
// fragments as they are recognized, before the utterance ends.
func WithPartialTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.PartialTranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithPartialInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.PartialInterimTranscriptionCallback = callback
	}
}

func WithInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}

// WithLanguage sets the recognition language as a BCP-47 tag, e.g. "es".
func WithLanguage(language string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Language = language
	}
}

// WithModel selects a provider-specific recognition model.
func WithModel(model string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Model = model
	}
}
