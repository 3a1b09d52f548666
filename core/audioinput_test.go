package orchestration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

// audioInputClientStub drives onAudio from a scripted goroutine, reusing a
// single buffer between frames the way real capture backends do.
type audioInputClientStub struct {
	encoding  audio.EncodingInfo
	frames    [][]byte
	streamErr error

	mu      sync.Mutex
	stopped int
}

func (s *audioInputClientStub) EncodingInfo() audio.EncodingInfo {
	if s.encoding.IsZero() {
		return audio.GetDefaultEncodingInfo()
	}
	return s.encoding
}

func (s *audioInputClientStub) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	buffer := make([]byte, 4)
	for _, frame := range s.frames {
		copy(buffer, frame)
		onAudio(buffer[:len(frame)])
	}
	if s.streamErr != nil {
		return s.streamErr
	}
	<-ctx.Done()
	return nil
}

func (s *audioInputClientStub) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
	return nil
}

func TestAudioInputCopiesFramesBeforeDispatch(t *testing.T) {
	client := &audioInputClientStub{frames: [][]byte{{1, 1, 1}, {2, 2, 2}}}
	input := newAudioInput(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received [][]byte
	input.start(ctx, func(frame []byte) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, frame)
	}, nil)

	waitForCondition(t, time.Second, "both frames to be dispatched", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	})

	mu.Lock()
	defer mu.Unlock()
	if received[0][0] != 1 || received[1][0] != 2 {
		t.Fatalf("expected independent frame copies, got %v", received)
	}
}

func TestAudioInputDropsOldestFrameUnderBackpressure(t *testing.T) {
	input := &audioInput{frames: make(chan []byte, 2)}

	input.enqueueFrame([]byte{1})
	input.enqueueFrame([]byte{2})
	input.enqueueFrame([]byte{3})

	first := <-input.frames
	second := <-input.frames
	if first[0] != 2 || second[0] != 3 {
		t.Fatalf("expected the oldest frame to be dropped, got %d and %d", first[0], second[0])
	}
}

func TestAudioInputReportsStreamFailure(t *testing.T) {
	streamErr := errors.New("device unplugged")
	client := &audioInputClientStub{streamErr: streamErr}
	input := newAudioInput(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var reported error
	input.start(ctx, nil, func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = err
	})

	waitForCondition(t, time.Second, "the stream failure to be reported", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reported != nil
	})

	mu.Lock()
	defer mu.Unlock()
	if !errors.Is(reported, ErrDeviceDisconnected) {
		t.Fatalf("expected ErrDeviceDisconnected, got %v", reported)
	}
	if !errors.Is(reported, streamErr) {
		t.Fatalf("expected the device error to be joined, got %v", reported)
	}
	if input.isCapturing.Load() {
		t.Fatal("expected capturing to stop after a stream failure")
	}
}

func TestAudioInputStartIsIdempotent(t *testing.T) {
	client := &audioInputClientStub{}
	input := newAudioInput(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input.start(ctx, nil, nil)
	firstFrames := input.frames
	input.start(ctx, nil, nil)

	if input.frames != firstFrames {
		t.Fatal("expected the second start to be ignored while capturing")
	}
}

func TestAudioInputCloseStopsClient(t *testing.T) {
	client := &audioInputClientStub{}
	input := newAudioInput(client)

	if err := input.Close(); err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}
	if client.stopped != 1 {
		t.Fatalf("expected the client to be stopped once, got %d", client.stopped)
	}
	if input.isCapturing.Load() {
		t.Fatal("expected capturing to be off after close")
	}
}

func TestAudioInputWithoutClientNoOps(t *testing.T) {
	input := newAudioInput(nil)

	input.start(context.Background(), nil, nil)
	if input.isCapturing.Load() {
		t.Fatal("expected start without a client to no-op")
	}
	if err := input.Close(); err != nil {
		t.Fatalf("expected close without a client to no-op, got %v", err)
	}
}

func TestAudioInputEncodingInfoFallsBackToDefault(t *testing.T) {
	input := newAudioInput(nil)

	if info := input.EncodingInfo(); info != audio.GetDefaultEncodingInfo() {
		t.Fatalf("expected the default encoding info, got %+v", info)
	}

	client := &audioInputClientStub{encoding: audio.EncodingInfo{SampleRate: 8000, Format: audio.EncodingMulaw}}
	input.set(client)
	if info := input.EncodingInfo(); info != client.encoding {
		t.Fatalf("expected the client encoding info, got %+v", info)
	}
}
