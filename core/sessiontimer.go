package orchestration

import (
	"context"
	"time"
)

const (
	// sessionWarningThreshold is how much remaining time triggers the
	// one-off time warning.
	sessionWarningThreshold = time.Minute
	// sessionWrapUpThreshold is how much remaining time moves the session
	// into its wrap-up stretch.
	sessionWrapUpThreshold = 30 * time.Second
)

// sessionTimer watches the session clock and fires the countdown
// notifications: a remaining-time notice at every whole minute, a single
// warning, a single wrap-up nudge and finally expiry.
type sessionTimer struct {
	session *session
	tick    time.Duration

	onTimeRemaining func(remaining time.Duration)
	onTimeWarning   func(remaining time.Duration)
	onWrapUp        func(remaining time.Duration)
	onExpired       func()
}

func newSessionTimer(session *session) *sessionTimer {
	return &sessionTimer{
		session: session,
		tick:    time.Second,
	}
}

// Run blocks until the session expires or ctx is cancelled.
func (t *sessionTimer) Run(ctx context.Context) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	var (
		lastNotifiedMinute = -1
		warned             bool
		wrappingUp         bool
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		remaining := t.session.Remaining()
		if remaining <= 0 {
			if t.onExpired != nil {
				t.onExpired()
			}
			return
		}

		remainingSec := int(remaining.Round(time.Second) / time.Second)
		if remainingSec > 0 && remainingSec%60 == 0 && remainingSec/60 != lastNotifiedMinute {
			lastNotifiedMinute = remainingSec / 60
			if t.onTimeRemaining != nil {
				t.onTimeRemaining(remaining)
			}
		}

		if !warned && remaining <= sessionWarningThreshold {
			warned = true
			if t.onTimeWarning != nil {
				t.onTimeWarning(remaining)
			}
		}

		if !wrappingUp && remaining <= sessionWrapUpThreshold {
			wrappingUp = true
			if t.onWrapUp != nil {
				t.onWrapUp(remaining)
			}
		}
	}
}
