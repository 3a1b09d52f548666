package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

// inputFrameQueueCapacity bounds how many captured frames may wait for
// processing before the oldest is dropped. At 30ms frames this is roughly a
// second of audio.
const inputFrameQueueCapacity = 32

type audioInput struct {
	// base stores the configured input client used for streaming audio.
	base audioInputBase

	// isCapturing reports whether the capture stream is running.
	isCapturing atomic.Bool

	frames chan []byte

	// onFrame receives every captured frame, in capture order.
	onFrame func(audio []byte)
	// onStreamError is called when the capture stream fails to start or
	// dies mid-session.
	onStreamError func(err error)
}

func newAudioInput(client audioInputBase) *audioInput {
	audioInput := audioInput{}
	audioInput.set(client)
	return &audioInput
}

func (a *audioInput) set(client audioInputBase) {
	if a == nil {
		return
	}

	a.base = client
}

func (a *audioInput) isConfigured() bool { return a != nil && a.base != nil }

// start begins capturing. Frames are handed to onFrame on a dedicated
// goroutine so slow processing never blocks the capture thread.
func (a *audioInput) start(ctx context.Context, onFrame func(audio []byte), onStreamError func(err error)) {
	if !a.isConfigured() {
		return
	}

	if !a.isCapturing.CompareAndSwap(false, true) {
		return
	}

	a.onFrame = onFrame
	a.onStreamError = onStreamError
	a.frames = make(chan []byte, inputFrameQueueCapacity)

	go a.dispatchFrames(ctx)
	go func() {
		if err := a.base.Stream(ctx, a.enqueueFrame); err != nil {
			a.isCapturing.Store(false)
			log.Printf("Audio capture stream failed: %v", err)
			if a.onStreamError != nil {
				a.onStreamError(errors.Join(ErrDeviceDisconnected, err))
			}
		}
	}()
}

// enqueueFrame runs on the capture thread. The frame is copied because
// capture buffers are reused, and under backpressure the oldest queued
// frame is dropped rather than blocking the device.
func (a *audioInput) enqueueFrame(audio []byte) {
	frame := make([]byte, len(audio))
	copy(frame, audio)

	for {
		select {
		case a.frames <- frame:
			return
		default:
		}
		select {
		case <-a.frames:
		default:
		}
	}
}

func (a *audioInput) dispatchFrames(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-a.frames:
			if a.onFrame != nil {
				a.onFrame(frame)
			}
		}
	}
}

func (a *audioInput) Close() error {
	if !a.isConfigured() {
		return nil
	}
	a.isCapturing.Store(false)

	switch c := a.base.(type) {
	case interface{ Stop() error }:
		if err := c.Stop(); err != nil {
			return fmt.Errorf("failed to stop audio input: %w", err)
		}
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close audio input: %w", err)
		}
	case interface{ Close() }:
		c.Close()
	}

	return nil
}

func (a *audioInput) EncodingInfo() audio.EncodingInfo {
	if a == nil || a.base == nil {
		return audio.GetDefaultEncodingInfo()
	}

	return a.base.EncodingInfo()
}
