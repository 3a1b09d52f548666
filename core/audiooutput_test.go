package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

type audioOutputClientStub struct {
	mu      sync.Mutex
	sent    [][]byte
	cleared int
}

func (s *audioOutputClientStub) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (s *audioOutputClientStub) SendAudio(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, audio)
	return nil
}

func (s *audioOutputClientStub) ClearBuffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
}

type markingAudioOutputStub struct {
	audioOutputClientStub
	marks   []string
	release func(string)
	awaited int
}

func (s *markingAudioOutputStub) Mark(mark string, callback func(string)) error {
	s.mu.Lock()
	s.marks = append(s.marks, mark)
	s.release = callback
	s.mu.Unlock()
	callback(mark)
	return nil
}

// AwaitMark exists to prove marks win over awaiting when both are present.
func (s *markingAudioOutputStub) AwaitMark() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaited++
	return nil
}

type awaitingAudioOutputStub struct {
	audioOutputClientStub
	awaited int
}

func (s *awaitingAudioOutputStub) AwaitMark() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaited++
	return nil
}

func TestAudioOutputPrefersMarksForCompletion(t *testing.T) {
	client := &markingAudioOutputStub{}
	output := newAudioOutput(client)

	clip := audioClip{text: "Hola.", audio: []byte{1, 2, 3}}
	if err := output.Play(context.Background(), clip); err != nil {
		t.Fatalf("expected playback to succeed, got %v", err)
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	if len(client.sent) != 1 {
		t.Fatalf("expected 1 clip to be sent, got %d", len(client.sent))
	}
	if len(client.marks) != 1 || client.marks[0] != "Hola." {
		t.Fatalf("expected the clip text as mark, got %v", client.marks)
	}
	if client.awaited != 0 {
		t.Fatalf("expected AwaitMark not to be used when marks exist, got %d calls", client.awaited)
	}
}

func TestAudioOutputFallsBackToAwaitingMarks(t *testing.T) {
	client := &awaitingAudioOutputStub{}
	output := newAudioOutput(client)

	if err := output.Play(context.Background(), audioClip{audio: []byte{1}}); err != nil {
		t.Fatalf("expected playback to succeed, got %v", err)
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	if client.awaited != 1 {
		t.Fatalf("expected 1 AwaitMark call, got %d", client.awaited)
	}
}

func TestAudioOutputApproximatesCompletionFromClipDuration(t *testing.T) {
	client := &audioOutputClientStub{}
	output := newAudioOutput(client)

	// 320 bytes of default-encoding audio is 10ms of playback.
	clip := audioClip{audio: make([]byte, 320)}
	started := time.Now()
	if err := output.Play(context.Background(), clip); err != nil {
		t.Fatalf("expected playback to succeed, got %v", err)
	}

	elapsed := time.Since(started)
	if elapsed < 10*time.Millisecond {
		t.Fatalf("expected playback to last at least the clip duration, took %v", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("expected playback to approximate the clip duration, took %v", elapsed)
	}
}

func TestAudioOutputPlayHonorsContextCancellation(t *testing.T) {
	client := &audioOutputClientStub{}
	output := newAudioOutput(client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A clip long enough that only cancellation can end the wait quickly.
	clip := audioClip{audio: make([]byte, 32000*60)}
	if err := output.Play(ctx, clip); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAudioOutputIgnoresTypedNilClients(t *testing.T) {
	var client *audioOutputClientStub
	output := newAudioOutput(client)

	if output.isConfigured() {
		t.Fatal("expected a typed-nil client to leave the output unconfigured")
	}
	if err := output.Play(context.Background(), audioClip{audio: []byte{1}}); err != nil {
		t.Fatalf("expected playback without a client to no-op, got %v", err)
	}
	output.Clear()
}

func TestAudioOutputClearFlushesClient(t *testing.T) {
	client := &audioOutputClientStub{}
	output := newAudioOutput(client)

	output.Clear()
	if client.cleared != 1 {
		t.Fatalf("expected 1 buffer clear, got %d", client.cleared)
	}
}

func TestAudioOutputEncodingInfoFallsBackToDefault(t *testing.T) {
	output := newAudioOutput(nil)

	if info := output.EncodingInfo(); info != audio.GetDefaultEncodingInfo() {
		t.Fatalf("expected the default encoding info, got %+v", info)
	}
}
