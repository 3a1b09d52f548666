package orchestration

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

// Utterance is a single spoken contribution to the session, either the
// user's transcribed speech or the assistant's (fully or partially) played
// response.
type Utterance struct {
	ID        string
	Role      llms.TurnRole
	Content   string
	Emotions  []string
	Timestamp time.Time

	// Truncated marks an assistant utterance that was cut short by an
	// interruption or by the session ending. Content then holds only the
	// part that reached playback.
	Truncated bool
}

// session accumulates the dialogue history and tracks the session clock.
// It is safe for concurrent use.
type session struct {
	id        string
	startedAt time.Time
	duration  time.Duration

	mu         sync.RWMutex
	utterances []Utterance
}

func newSession(duration time.Duration) *session {
	return &session{
		id:        uuid.NewString(),
		startedAt: time.Now(),
		duration:  duration,
	}
}

func (s *session) appendUser(content string) Utterance {
	return s.append(Utterance{
		Role:    llms.TurnRoleUser,
		Content: content,
	})
}

func (s *session) appendAssistant(content string, emotions []string, truncated bool) Utterance {
	return s.append(Utterance{
		Role:      llms.TurnRoleAssistant,
		Content:   content,
		Emotions:  emotions,
		Truncated: truncated,
	})
}

func (s *session) append(utterance Utterance) Utterance {
	utterance.ID = uuid.NewString()
	utterance.Timestamp = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.utterances = append(s.utterances, utterance)
	return utterance
}

// History returns a copy of the utterances recorded so far, oldest first.
func (s *session) History() []Utterance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]Utterance, len(s.utterances))
	copy(history, s.utterances)
	for i := range history {
		history[i].Emotions = append([]string(nil), history[i].Emotions...)
	}
	return history
}

func (s *session) lastUserUtterance() (Utterance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.utterances) - 1; i >= 0; i-- {
		if s.utterances[i].Role == llms.TurnRoleUser {
			return s.utterances[i], true
		}
	}
	return Utterance{}, false
}

// llmTurns renders the recorded history as prompt turns. Truncated
// assistant utterances carry only their spoken part, so the model sees what
// the user actually heard.
func (s *session) llmTurns() []llms.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := make([]llms.Turn, 0, len(s.utterances))
	for _, utterance := range s.utterances {
		if utterance.Content == "" {
			continue
		}
		turns = append(turns, llms.Turn{
			Role:    utterance.Role,
			Content: utterance.Content,
		})
	}
	return turns
}

func (s *session) Elapsed() time.Duration {
	return time.Since(s.startedAt)
}

// Remaining reports how much of the session budget is left. It never goes
// negative.
func (s *session) Remaining() time.Duration {
	remaining := s.duration - s.Elapsed()
	if remaining < 0 {
		return 0
	}
	return remaining
}
