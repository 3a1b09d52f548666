package groq

import (
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

type messageRole string

const (
	messageRoleSystem    messageRole = "system"
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
)

// toMessages lays out the wire payload: instructions first, then the
// conversation context, then the live prompt (when there is one).
func toMessages(instructions string, turns []llms.Turn, prompt *string) ([]message, error) {
	messages := make([]message, 0, len(turns)+2)
	if instructions != "" {
		messages = append(messages, message{Role: messageRoleSystem, Content: instructions})
	}

	history := []message{}
	if err := copier.Copy(&history, &turns); err != nil {
		return nil, fmt.Errorf("failed to convert conversation turns: %w", err)
	}
	messages = append(messages, history...)

	if prompt != nil {
		messages = append(messages, message{Role: messageRoleUser, Content: *prompt})
	}
	return messages, nil
}
