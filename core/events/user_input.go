package events

const (
	// KindUserSpeechStarted identifies start of user speech activity.
	KindUserSpeechStarted Kind = "user_input.speech_started"
	// KindUserSpeechEnded identifies end of user speech activity.
	KindUserSpeechEnded Kind = "user_input.speech_ended"
	// KindUserAudioSegment identifies a completed speech segment's audio.
	KindUserAudioSegment Kind = "user_input.audio_segment"
	// KindUserTranscriptInterim identifies mutable interim transcript updates.
	KindUserTranscriptInterim Kind = "user_input.transcript_interim"
	// KindUserTranscriptFinal identifies the final transcript for the utterance.
	KindUserTranscriptFinal Kind = "user_input.transcript_final"
)

// UserSpeechStarted marks when user speech activity starts.
type UserSpeechStarted struct{ Base }

// NewUserSpeechStarted creates a user speech started event.
func NewUserSpeechStarted() UserSpeechStarted {
	return UserSpeechStarted{Base: NewBase(KindUserSpeechStarted)}
}

// UserSpeechEnded marks when user speech activity ends.
type UserSpeechEnded struct{ Base }

// NewUserSpeechEnded creates a user speech ended event.
func NewUserSpeechEnded() UserSpeechEnded {
	return UserSpeechEnded{Base: NewBase(KindUserSpeechEnded)}
}

// UserAudioSegment carries the audio of one completed speech segment,
// pre-roll included.
type UserAudioSegment struct {
	Base
	Audio []byte
}

// NewUserAudioSegment creates a user audio segment event.
func NewUserAudioSegment(audio []byte) UserAudioSegment {
	return UserAudioSegment{Base: NewBase(KindUserAudioSegment), Audio: audio}
}

// UserTranscriptInterim carries a mutable interim transcript snapshot.
// Interim text is advisory and never enters the session history.
type UserTranscriptInterim struct {
	Base
	Transcript string
}

// NewUserTranscriptInterim creates an interim transcript event.
func NewUserTranscriptInterim(transcript string) UserTranscriptInterim {
	return UserTranscriptInterim{Base: NewBase(KindUserTranscriptInterim), Transcript: transcript}
}

// UserTranscriptFinal carries the final transcript for the utterance.
type UserTranscriptFinal struct {
	Base
	Transcript string
}

// NewUserTranscriptFinal creates a final transcript event.
func NewUserTranscriptFinal(transcript string) UserTranscriptFinal {
	return UserTranscriptFinal{Base: NewBase(KindUserTranscriptFinal), Transcript: transcript}
}
