// Package llms defines the provider-neutral contract between the
// orchestration core and language-model adapters.
package llms

// Turn is one role-tagged entry of the conversation context sent to a
// provider.
type Turn struct {
	Role    TurnRole
	Content string
}

type TurnRole string

const (
	TurnRoleSystem    TurnRole = "system"
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// Response is a complete, non-streamed reply from a provider.
type Response struct {
	Content string
	Usage   *Usage
}
