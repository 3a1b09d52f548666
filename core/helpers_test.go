package orchestration

import (
	"sync"
	"testing"
	"time"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/events"
)

// waitForCondition polls until the condition holds or the timeout expires.
func waitForCondition(t *testing.T, timeout time.Duration, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", description)
}

// eventRecorder collects emitted events for later inspection.
type eventRecorder struct {
	mu       sync.Mutex
	recorded []events.Event
}

func (r *eventRecorder) record(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, event)
}

func (r *eventRecorder) all() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.recorded...)
}

func (r *eventRecorder) countKind(kind events.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, event := range r.recorded {
		if event.Kind() == kind {
			count++
		}
	}
	return count
}

func (r *eventRecorder) firstOfKind(kind events.Kind) (events.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.recorded {
		if event.Kind() == kind {
			return event, true
		}
	}
	return nil, false
}
