// Package texttospeech defines the contract between the orchestration core
// and speech-synthesis adapters.
package texttospeech

import (
	"context"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

// SpeechSynthesizer turns one piece of text into one complete audio clip.
// Synthesis is call-and-response so clips can be produced ahead of playback
// and discarded independently when the speaker is interrupted.
type SpeechSynthesizer interface {
	// Synthesize renders text as raw audio in the encoding reported by
	// EncodingInfo. The returned clip is complete; there is no streaming.
	Synthesize(ctx context.Context, text string) ([]byte, error)
	// EncodingInfo reports the PCM format of the clips this synthesizer
	// produces. It is fixed for the lifetime of the synthesizer.
	EncodingInfo() audio.EncodingInfo
}
