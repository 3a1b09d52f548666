package orchestration

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

// audioOutputWithMarks can report playback progress through callback marks.
type audioOutputWithMarks interface {
	Mark(mark string, callback func(string)) error
}

// audioOutputWithAwait exposes playback progress as a blocking wait.
type audioOutputWithAwait interface {
	AwaitMark() error
}

// audioOutput normalizes output clients behind one facade. Playback
// completion is observed through callback marks when the client supports
// them, through a blocking wait when it does not, and is approximated from
// the clip duration as a last resort.
type audioOutput struct {
	// base stores the configured output client.
	base audioOutputBase
	// marks is set when the client supports callback marks.
	marks audioOutputWithMarks
	// await is set when the client exposes playback progress as a blocking
	// wait.
	await audioOutputWithAwait
}

func newAudioOutput(client audioOutputBase) *audioOutput {
	audioOutput := audioOutput{}
	audioOutput.set(client)
	return &audioOutput
}

// set replaces the configured output client and recomputes its
// capabilities. Nil and typed-nil clients are treated as unconfigured.
func (a *audioOutput) set(client audioOutputBase) {
	if a == nil {
		return
	}

	a.base = nil
	a.marks = nil
	a.await = nil

	if isNilAudioOutputBase(client) {
		return
	}
	a.base = client

	if marks, ok := client.(audioOutputWithMarks); ok {
		a.marks = marks
	}
	if await, ok := client.(audioOutputWithAwait); ok {
		a.await = await
	}
}

func (a *audioOutput) isConfigured() bool {
	return a != nil && a.base != nil
}

// Play sends one clip to the output and returns once its playback has
// completed, or earlier with ctx's error when the context is cancelled.
// Without a configured client it returns immediately.
func (a *audioOutput) Play(ctx context.Context, clip audioClip) error {
	if !a.isConfigured() {
		return nil
	}

	if err := a.base.SendAudio(clip.audio); err != nil {
		return fmt.Errorf("failed to send audio to output: %w", err)
	}

	switch {
	case a.marks != nil:
		played := make(chan struct{})
		if err := a.marks.Mark(clip.text, func(string) { close(played) }); err != nil {
			return fmt.Errorf("failed to mark audio output: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-played:
			return nil
		}

	case a.await != nil:
		awaited := make(chan error, 1)
		go func() { awaited <- a.await.AwaitMark() }()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-awaited:
			if err != nil {
				return fmt.Errorf("failed to await audio output: %w", err)
			}
			return nil
		}

	default:
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.EncodingInfo().Duration(len(clip.audio))):
			return nil
		}
	}
}

// Clear flushes buffered output on the configured client.
func (a *audioOutput) Clear() {
	if !a.isConfigured() {
		return
	}

	a.base.ClearBuffer()
}

// EncodingInfo returns the active output encoding metadata.
//
// If no client is configured, the project default encoding is used.
func (a *audioOutput) EncodingInfo() audio.EncodingInfo {
	if !a.isConfigured() {
		return audio.GetDefaultEncodingInfo()
	}

	return a.base.EncodingInfo()
}

// isNilAudioOutputBase detects nil and typed-nil interface values so set can
// avoid storing unusable interface wrappers as configured clients.
func isNilAudioOutputBase(client audioOutputBase) bool {
	if client == nil {
		return true
	}

	v := reflect.ValueOf(client)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
