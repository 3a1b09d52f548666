package orchestration

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSessionTimerFiresExpiryOnce(t *testing.T) {
	timer := newSessionTimer(newSession(30 * time.Millisecond))
	timer.tick = 5 * time.Millisecond

	var expirations atomic.Int32
	timer.onExpired = func() { expirations.Add(1) }

	done := make(chan struct{})
	go func() {
		defer close(done)
		timer.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for timer to expire")
	}

	if got := expirations.Load(); got != 1 {
		t.Fatalf("expected exactly 1 expiry, got %d", got)
	}
}

func TestSessionTimerFiresThresholdsOnceEachBeforeExpiry(t *testing.T) {
	timer := newSessionTimer(newSession(40 * time.Millisecond))
	timer.tick = 5 * time.Millisecond

	var warnings, wrapUps atomic.Int32
	timer.onTimeWarning = func(time.Duration) { warnings.Add(1) }
	timer.onWrapUp = func(time.Duration) { wrapUps.Add(1) }

	done := make(chan struct{})
	go func() {
		defer close(done)
		timer.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for timer to expire")
	}

	if got := warnings.Load(); got != 1 {
		t.Fatalf("expected exactly 1 time warning, got %d", got)
	}
	if got := wrapUps.Load(); got != 1 {
		t.Fatalf("expected exactly 1 wrap-up notice, got %d", got)
	}
}

func TestSessionTimerNotifiesWholeMinutesOnce(t *testing.T) {
	// Backdating the session start puts the clock right at the one-minute
	// mark, where the per-minute notice must fire exactly once.
	session := &session{
		startedAt: time.Now().Add(-time.Minute),
		duration:  2 * time.Minute,
	}
	timer := newSessionTimer(session)
	timer.tick = 5 * time.Millisecond

	var notices atomic.Int32
	var lastRemaining atomic.Int64
	timer.onTimeRemaining = func(remaining time.Duration) {
		notices.Add(1)
		lastRemaining.Store(int64(remaining))
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		timer.Run(ctx)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	if got := notices.Load(); got != 1 {
		t.Fatalf("expected exactly 1 whole-minute notice, got %d", got)
	}
	remaining := time.Duration(lastRemaining.Load())
	if remaining > time.Minute || remaining < 59*time.Second {
		t.Fatalf("expected notice around one minute remaining, got %v", remaining)
	}
}

func TestSessionTimerStopsOnContextCancellation(t *testing.T) {
	timer := newSessionTimer(newSession(time.Hour))
	timer.tick = 5 * time.Millisecond
	timer.onExpired = func() { t.Errorf("expected no expiry for a cancelled timer") }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		timer.Run(ctx)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for timer to stop")
	}
}
