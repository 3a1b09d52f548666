package orchestration

import (
	"sync"
	"time"
)

const (
	// bargeInVotes is how many consecutive speech frames are needed to
	// call an interruption.
	bargeInVotes = 3
	// bargeInVoteWindow is how close together those frames have to be.
	bargeInVoteWindow = 300 * time.Millisecond
)

// bargeInMonitor watches voice-activity classifications while the
// assistant is speaking and fires once it is confident the user is
// genuinely talking over the playback. It is armed only for interruptible
// turns and fires at most once per arm cycle.
type bargeInMonitor struct {
	mu        sync.Mutex
	armed     bool
	triggered bool
	votes     int
	firstVote time.Time

	now       func() time.Time
	onBargeIn func()
}

func newBargeInMonitor(onBargeIn func()) *bargeInMonitor {
	return &bargeInMonitor{
		now:       time.Now,
		onBargeIn: onBargeIn,
	}
}

func (m *bargeInMonitor) Arm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed = true
	m.triggered = false
	m.votes = 0
}

func (m *bargeInMonitor) Disarm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed = false
	m.triggered = false
	m.votes = 0
}

// Observe feeds one frame classification. Requiring several speech frames
// in quick succession filters out coughs, thuds and playback bleed.
func (m *bargeInMonitor) Observe(isSpeech bool) {
	m.mu.Lock()
	if !m.armed || m.triggered {
		m.mu.Unlock()
		return
	}

	if !isSpeech {
		m.votes = 0
		m.mu.Unlock()
		return
	}

	now := m.now()
	if m.votes == 0 || now.Sub(m.firstVote) > bargeInVoteWindow {
		m.votes = 1
		m.firstVote = now
		m.mu.Unlock()
		return
	}

	m.votes++
	if m.votes < bargeInVotes {
		m.mu.Unlock()
		return
	}

	m.triggered = true
	onBargeIn := m.onBargeIn
	m.mu.Unlock()

	if onBargeIn != nil {
		onBargeIn()
	}
}
