package orchestration

import "errors"

var (
	// ErrDeviceUnavailable indicates that the audio input device could not be
	// opened when the session started.
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrDeviceDisconnected indicates that the audio input stream failed
	// after the session was already running.
	ErrDeviceDisconnected = errors.New("audio device disconnected")
	// ErrTranscriptionUnavailable indicates that the speech-to-text service
	// could not be reached or rejected the stream.
	ErrTranscriptionUnavailable = errors.New("transcription unavailable")
	// ErrGenerationUnavailable indicates that response generation failed
	// after exhausting its retry.
	ErrGenerationUnavailable = errors.New("response generation unavailable")
	// ErrSynthesisUnavailable indicates that speech synthesis is failing
	// systematically rather than on a single clip.
	ErrSynthesisUnavailable = errors.New("speech synthesis unavailable")
)
