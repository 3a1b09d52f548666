package events

import "time"

const (
	// KindSessionStarted identifies the start of a dialogue session.
	KindSessionStarted Kind = "session.started"
	// KindSessionPhaseChanged identifies a dialogue phase transition.
	KindSessionPhaseChanged Kind = "session.phase_changed"
	// KindSessionTimeRemaining identifies a periodic remaining-time notice.
	KindSessionTimeRemaining Kind = "session.time_remaining"
	// KindSessionTimeWarning identifies the one-shot near-end warning.
	KindSessionTimeWarning Kind = "session.time_warning"
	// KindSessionWrappingUp identifies the one-shot wrap-up signal that biases
	// generation toward saying goodbye.
	KindSessionWrappingUp Kind = "session.wrapping_up"
	// KindSessionExpired identifies session clock expiry.
	KindSessionExpired Kind = "session.expired"
	// KindSessionEnded identifies session teardown completion.
	KindSessionEnded Kind = "session.ended"
)

// SessionStarted marks the start of a session with its configured duration.
type SessionStarted struct {
	Base
	Duration time.Duration
}

// NewSessionStarted creates a session started event.
func NewSessionStarted(duration time.Duration) SessionStarted {
	return SessionStarted{Base: NewBase(KindSessionStarted), Duration: duration}
}

// SessionPhaseChanged marks a transition of the dialogue state machine.
type SessionPhaseChanged struct {
	Base
	From string
	To   string
}

// NewSessionPhaseChanged creates a phase changed event.
func NewSessionPhaseChanged(from, to string) SessionPhaseChanged {
	return SessionPhaseChanged{Base: NewBase(KindSessionPhaseChanged), From: from, To: to}
}

// SessionTimeRemaining carries a periodic remaining-time notice.
type SessionTimeRemaining struct {
	Base
	Remaining time.Duration
}

// NewSessionTimeRemaining creates a time remaining event.
func NewSessionTimeRemaining(remaining time.Duration) SessionTimeRemaining {
	return SessionTimeRemaining{Base: NewBase(KindSessionTimeRemaining), Remaining: remaining}
}

// SessionTimeWarning marks the one-shot near-end warning threshold.
type SessionTimeWarning struct {
	Base
	Remaining time.Duration
}

// NewSessionTimeWarning creates a time warning event.
func NewSessionTimeWarning(remaining time.Duration) SessionTimeWarning {
	return SessionTimeWarning{Base: NewBase(KindSessionTimeWarning), Remaining: remaining}
}

// SessionWrappingUp marks the one-shot wrap-up threshold near expiry.
type SessionWrappingUp struct {
	Base
	Remaining time.Duration
}

// NewSessionWrappingUp creates a wrapping up event.
func NewSessionWrappingUp(remaining time.Duration) SessionWrappingUp {
	return SessionWrappingUp{Base: NewBase(KindSessionWrappingUp), Remaining: remaining}
}

// SessionExpired marks expiry of the session clock.
type SessionExpired struct{ Base }

// NewSessionExpired creates a session expired event.
func NewSessionExpired() SessionExpired {
	return SessionExpired{Base: NewBase(KindSessionExpired)}
}

// SessionEnded marks completed teardown of the session.
type SessionEnded struct {
	Base
	Reason string
}

// NewSessionEnded creates a session ended event.
func NewSessionEnded(reason string) SessionEnded {
	return SessionEnded{Base: NewBase(KindSessionEnded), Reason: reason}
}
