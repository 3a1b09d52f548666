package orchestration

// Phase is the current state of the dialogue loop. Transitions are driven by
// transcription activity, generation progress, playback and the session
// clock; every change is observable through the phase callback and the
// session.phase_changed event.
type Phase string

const (
	// PhaseIdle is the state before Orchestrate is called.
	PhaseIdle Phase = "idle"
	// PhaseListening means the microphone is live and no user speech has
	// been detected yet.
	PhaseListening Phase = "listening"
	// PhaseTranscribing means user speech is being captured and recognized.
	PhaseTranscribing Phase = "transcribing"
	// PhaseGenerating means a response is being generated for the last
	// user utterance.
	PhaseGenerating Phase = "generating"
	// PhaseSpeaking means synthesized response audio is playing.
	PhaseSpeaking Phase = "speaking"
	// PhaseInterrupted means playback was cut short by a user barge-in and
	// the interrupting speech is still being captured.
	PhaseInterrupted Phase = "interrupted"
	// PhaseEnding means the session is tearing down, usually speaking its
	// closing line.
	PhaseEnding Phase = "ending"
)
