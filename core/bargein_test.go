package orchestration

import (
	"testing"
	"time"
)

// fakeClock hands out a scripted sequence of instants, advancing one step
// per call.
type fakeClock struct {
	base    time.Time
	offsets []time.Duration
	calls   int
}

func (c *fakeClock) now() time.Time {
	offset := c.offsets[len(c.offsets)-1]
	if c.calls < len(c.offsets) {
		offset = c.offsets[c.calls]
	}
	c.calls++
	return c.base.Add(offset)
}

func newTestBargeInMonitor(fired *int, offsets ...time.Duration) *bargeInMonitor {
	monitor := newBargeInMonitor(func() { *fired++ })
	monitor.now = (&fakeClock{base: time.Now(), offsets: offsets}).now
	return monitor
}

func TestBargeInFiresAfterConsecutiveSpeechVotes(t *testing.T) {
	fired := 0
	monitor := newTestBargeInMonitor(&fired, 0, 50*time.Millisecond, 100*time.Millisecond)
	monitor.Arm()

	monitor.Observe(true)
	monitor.Observe(true)
	if fired != 0 {
		t.Fatalf("expected no trigger before %d votes, got %d", bargeInVotes, fired)
	}

	monitor.Observe(true)
	if fired != 1 {
		t.Fatalf("expected exactly 1 trigger, got %d", fired)
	}

	monitor.Observe(true)
	if fired != 1 {
		t.Fatalf("expected no re-trigger within the same arm cycle, got %d", fired)
	}
}

func TestBargeInSilenceResetsVotes(t *testing.T) {
	fired := 0
	monitor := newTestBargeInMonitor(&fired,
		0, 20*time.Millisecond, 40*time.Millisecond, 60*time.Millisecond, 80*time.Millisecond,
	)
	monitor.Arm()

	monitor.Observe(true)
	monitor.Observe(true)
	monitor.Observe(false)
	monitor.Observe(true)
	monitor.Observe(true)
	if fired != 0 {
		t.Fatalf("expected silence to reset the vote count, got %d triggers", fired)
	}

	monitor.Observe(true)
	if fired != 1 {
		t.Fatalf("expected trigger after fresh consecutive votes, got %d", fired)
	}
}

func TestBargeInVotesExpireOutsideWindow(t *testing.T) {
	fired := 0
	monitor := newTestBargeInMonitor(&fired,
		0,
		200*time.Millisecond,
		// This vote lands outside the window of the first and restarts it.
		600*time.Millisecond,
		650*time.Millisecond,
		700*time.Millisecond,
	)
	monitor.Arm()

	monitor.Observe(true)
	monitor.Observe(true)
	monitor.Observe(true)
	if fired != 0 {
		t.Fatalf("expected stale votes to expire, got %d triggers", fired)
	}

	monitor.Observe(true)
	monitor.Observe(true)
	if fired != 1 {
		t.Fatalf("expected trigger once votes land within one window, got %d", fired)
	}
}

func TestBargeInIgnoredUnlessArmed(t *testing.T) {
	fired := 0
	monitor := newTestBargeInMonitor(&fired, 0, 10*time.Millisecond, 20*time.Millisecond, 30*time.Millisecond)

	for i := 0; i < 4; i++ {
		monitor.Observe(true)
	}
	if fired != 0 {
		t.Fatalf("expected no trigger while disarmed, got %d", fired)
	}
}

func TestBargeInDisarmStopsPendingVotes(t *testing.T) {
	fired := 0
	monitor := newTestBargeInMonitor(&fired, 0, 10*time.Millisecond, 20*time.Millisecond, 30*time.Millisecond)
	monitor.Arm()

	monitor.Observe(true)
	monitor.Observe(true)
	monitor.Disarm()
	monitor.Observe(true)
	monitor.Observe(true)
	if fired != 0 {
		t.Fatalf("expected no trigger after disarm, got %d", fired)
	}
}

func TestBargeInRearmingAllowsNewTrigger(t *testing.T) {
	fired := 0
	monitor := newTestBargeInMonitor(&fired,
		0, 10*time.Millisecond, 20*time.Millisecond,
		30*time.Millisecond, 40*time.Millisecond, 50*time.Millisecond,
	)
	monitor.Arm()

	monitor.Observe(true)
	monitor.Observe(true)
	monitor.Observe(true)
	if fired != 1 {
		t.Fatalf("expected first trigger, got %d", fired)
	}

	monitor.Arm()
	monitor.Observe(true)
	monitor.Observe(true)
	monitor.Observe(true)
	if fired != 2 {
		t.Fatalf("expected second trigger after rearming, got %d", fired)
	}
}
