package events

import (
	"testing"
	"time"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "session started", event: NewSessionStarted(5 * time.Minute), expected: KindSessionStarted},
		{name: "session phase changed", event: NewSessionPhaseChanged("listening", "transcribing"), expected: KindSessionPhaseChanged},
		{name: "session time remaining", event: NewSessionTimeRemaining(time.Minute), expected: KindSessionTimeRemaining},
		{name: "session time warning", event: NewSessionTimeWarning(time.Minute), expected: KindSessionTimeWarning},
		{name: "session wrapping up", event: NewSessionWrappingUp(30 * time.Second), expected: KindSessionWrappingUp},
		{name: "session expired", event: NewSessionExpired(), expected: KindSessionExpired},
		{name: "session ended", event: NewSessionEnded("expired"), expected: KindSessionEnded},
		{name: "user speech started", event: NewUserSpeechStarted(), expected: KindUserSpeechStarted},
		{name: "user speech ended", event: NewUserSpeechEnded(), expected: KindUserSpeechEnded},
		{name: "user audio segment", event: NewUserAudioSegment([]byte{1}), expected: KindUserAudioSegment},
		{name: "user transcript interim", event: NewUserTranscriptInterim("hola"), expected: KindUserTranscriptInterim},
		{name: "user transcript final", event: NewUserTranscriptFinal("hola"), expected: KindUserTranscriptFinal},
		{name: "assistant generation started", event: NewAssistantGenerationStarted(), expected: KindAssistantGenerationStarted},
		{name: "assistant text fragment", event: NewAssistantTextFragment("frag", 0), expected: KindAssistantTextFragment},
		{name: "assistant chunk ready", event: NewAssistantChunkReady(0, "hola", "FELIZ"), expected: KindAssistantChunkReady},
		{name: "assistant chunk spoken", event: NewAssistantChunkSpoken(0, "hola"), expected: KindAssistantChunkSpoken},
		{name: "assistant emotion", event: NewAssistantEmotion("FELIZ"), expected: KindAssistantEmotion},
		{name: "assistant generation ended", event: NewAssistantGenerationEnded("text"), expected: KindAssistantGenerationEnded},
		{name: "assistant barged in", event: NewAssistantBargedIn([]byte{1}), expected: KindAssistantBargedIn},
		{name: "assistant response truncated", event: NewAssistantResponseTruncated("spoken"), expected: KindAssistantResponseTruncated},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestKindNamespaceSplitsOnFirstDot(t *testing.T) {
	testCases := []struct {
		kind     Kind
		expected string
	}{
		{kind: KindSessionPhaseChanged, expected: "session"},
		{kind: KindUserTranscriptFinal, expected: "user_input"},
		{kind: KindAssistantChunkReady, expected: "assistant"},
		{kind: Kind("bare"), expected: "bare"},
	}

	for _, testCase := range testCases {
		if got := testCase.kind.Namespace(); got != testCase.expected {
			t.Fatalf("expected namespace %q for kind %q, got %q", testCase.expected, testCase.kind, got)
		}
	}
}

func TestEventsCarryTimestamps(t *testing.T) {
	before := time.Now()
	event := NewUserTranscriptFinal("hola")
	after := time.Now()

	if event.Timestamp().Before(before) || event.Timestamp().After(after) {
		t.Fatalf("expected event timestamp between %v and %v, got %v", before, after, event.Timestamp())
	}
}
