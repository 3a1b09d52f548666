package events

const (
	// KindAssistantGenerationStarted identifies the start of response generation.
	KindAssistantGenerationStarted Kind = "assistant.generation_started"
	// KindAssistantTextFragment identifies a streamed generated text fragment.
	KindAssistantTextFragment Kind = "assistant.text_fragment"
	// KindAssistantChunkReady identifies a speakable chunk leaving the chunker.
	KindAssistantChunkReady Kind = "assistant.chunk_ready"
	// KindAssistantChunkSpoken identifies completed playback of one chunk.
	KindAssistantChunkSpoken Kind = "assistant.chunk_spoken"
	// KindAssistantEmotion identifies a change of the spoken emotion tag.
	KindAssistantEmotion Kind = "assistant.emotion"
	// KindAssistantGenerationEnded identifies the end of response generation.
	KindAssistantGenerationEnded Kind = "assistant.generation_ended"
	// KindAssistantBargedIn identifies a user barge-in during playback.
	KindAssistantBargedIn Kind = "assistant.barged_in"
	// KindAssistantResponseTruncated identifies a response cut short by
	// cancellation, carrying exactly the text that was played.
	KindAssistantResponseTruncated Kind = "assistant.response_truncated"
)

// AssistantGenerationStarted marks the start of response generation.
type AssistantGenerationStarted struct{ Base }

// NewAssistantGenerationStarted creates a generation started event.
func NewAssistantGenerationStarted() AssistantGenerationStarted {
	return AssistantGenerationStarted{Base: NewBase(KindAssistantGenerationStarted)}
}

// AssistantTextFragment carries one streamed fragment of generated text.
type AssistantTextFragment struct {
	Base
	Fragment string
	Ordinal  int
}

// NewAssistantTextFragment creates a text fragment event.
func NewAssistantTextFragment(fragment string, ordinal int) AssistantTextFragment {
	return AssistantTextFragment{Base: NewBase(KindAssistantTextFragment), Fragment: fragment, Ordinal: ordinal}
}

// AssistantChunkReady carries a speakable chunk with its parsed emotion.
type AssistantChunkReady struct {
	Base
	Ordinal int
	Text    string
	Emotion string
}

// NewAssistantChunkReady creates a chunk ready event.
func NewAssistantChunkReady(ordinal int, text, emotion string) AssistantChunkReady {
	return AssistantChunkReady{Base: NewBase(KindAssistantChunkReady), Ordinal: ordinal, Text: text, Emotion: emotion}
}

// AssistantChunkSpoken marks completed playback of one chunk.
type AssistantChunkSpoken struct {
	Base
	Ordinal int
	Text    string
}

// NewAssistantChunkSpoken creates a chunk spoken event.
func NewAssistantChunkSpoken(ordinal int, text string) AssistantChunkSpoken {
	return AssistantChunkSpoken{Base: NewBase(KindAssistantChunkSpoken), Ordinal: ordinal, Text: text}
}

// AssistantEmotion marks a change of the emotion tag being spoken.
type AssistantEmotion struct {
	Base
	Emotion string
}

// NewAssistantEmotion creates an emotion event.
func NewAssistantEmotion(emotion string) AssistantEmotion {
	return AssistantEmotion{Base: NewBase(KindAssistantEmotion), Emotion: emotion}
}

// AssistantGenerationEnded marks the end of response generation with the
// complete generated text.
type AssistantGenerationEnded struct {
	Base
	Response string
}

// NewAssistantGenerationEnded creates a generation ended event.
func NewAssistantGenerationEnded(response string) AssistantGenerationEnded {
	return AssistantGenerationEnded{Base: NewBase(KindAssistantGenerationEnded), Response: response}
}

// AssistantBargedIn marks a user barge-in, carrying the pre-roll audio that
// seeds the next transcription segment.
type AssistantBargedIn struct {
	Base
	Audio []byte
}

// NewAssistantBargedIn creates a barged in event.
func NewAssistantBargedIn(audio []byte) AssistantBargedIn {
	return AssistantBargedIn{Base: NewBase(KindAssistantBargedIn), Audio: audio}
}

// AssistantResponseTruncated marks a cancelled response and carries exactly
// the text that was played before the cut.
type AssistantResponseTruncated struct {
	Base
	Spoken string
}

// NewAssistantResponseTruncated creates a response truncated event.
func NewAssistantResponseTruncated(spoken string) AssistantResponseTruncated {
	return AssistantResponseTruncated{Base: NewBase(KindAssistantResponseTruncated), Spoken: spoken}
}
