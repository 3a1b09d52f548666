package gemini

import (
	"testing"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

func TestToContents_MapsAssistantRoleToModel(t *testing.T) {
	prompt := "and now?"
	contents := toContents([]llms.Turn{
		{Role: llms.TurnRoleUser, Content: "hello"},
		{Role: llms.TurnRoleAssistant, Content: "hi there"},
	}, &prompt)

	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}

	if contents[0].Role != "user" || contents[0].Parts[0].Text != "hello" {
		t.Fatalf("unexpected first content: %+v", contents[0])
	}

	if contents[1].Role != "model" || contents[1].Parts[0].Text != "hi there" {
		t.Fatalf("unexpected second content: %+v", contents[1])
	}

	if contents[2].Role != "user" || contents[2].Parts[0].Text != "and now?" {
		t.Fatalf("unexpected prompt content: %+v", contents[2])
	}
}
