// Package miniaudio provides microphone capture and speaker playback on top
// of the malgo (miniaudio) bindings. Capture and playback run as separate
// devices over one shared context so they can use different sample rates;
// the capture side feeds transcription at the fixed pipeline rate while the
// playback side follows whatever rate the active synthesizer produces.
package miniaudio

import (
	"fmt"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext

	capture  CaptureClient
	playback PlaybackClient
}

type ClientOption func(*clientConfig)

type clientConfig struct {
	captureSampleRate  int
	playbackSampleRate int

	captureDevice  string
	playbackDevice string
}

// WithCaptureSampleRate overrides the microphone sample rate.
func WithCaptureSampleRate(sampleRate int) ClientOption {
	return func(c *clientConfig) { c.captureSampleRate = sampleRate }
}

// WithPlaybackSampleRate sets the speaker sample rate; pass the rate the
// synthesizer reports so clips play at the speed they were rendered at.
func WithPlaybackSampleRate(sampleRate int) ClientOption {
	return func(c *clientConfig) { c.playbackSampleRate = sampleRate }
}

// WithCaptureDevice selects a microphone by the name Devices reports.
// The default capture device is used when empty.
func WithCaptureDevice(name string) ClientOption {
	return func(c *clientConfig) { c.captureDevice = name }
}

// WithPlaybackDevice selects a speaker by the name Devices reports.
// The default playback device is used when empty.
func WithPlaybackDevice(name string) ClientOption {
	return func(c *clientConfig) { c.playbackDevice = name }
}

func NewClient(opts ...ClientOption) (*Client, error) {
	config := clientConfig{
		captureSampleRate:  audio.DefaultSampleRate,
		playbackSampleRate: audio.DefaultSampleRate,
	}
	for _, opt := range opts {
		opt(&config)
	}

	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := Client{audioContext: audioCtx}

	playbackID, err := deviceIDByName(audioCtx, malgo.Playback, config.playbackDevice)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to resolve playback device: %w", err)
	}

	if err := client.playback.init(audioCtx, config.playbackSampleRate, playbackID); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}

	if err := client.playback.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	captureID, err := deviceIDByName(audioCtx, malgo.Capture, config.captureDevice)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to resolve capture device: %w", err)
	}

	if err := client.capture.init(audioCtx, config.captureSampleRate, captureID); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

// deviceIDByName resolves a device name from Devices to the identifier
// malgo expects. An empty name selects the backend default (nil id).
func deviceIDByName(audioCtx *malgo.AllocatedContext, kind malgo.DeviceType, name string) (unsafe.Pointer, error) {
	if name == "" {
		return nil, nil
	}

	devices, err := audioCtx.Devices(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	for i := range devices {
		if devices[i].Name() == name {
			return devices[i].ID.Pointer(), nil
		}
	}
	return nil, fmt.Errorf("no device named %q", name)
}

// Capture exposes the microphone side of the client.
func (c *Client) Capture() *CaptureClient {
	return &c.capture
}

// Playback exposes the speaker side of the client.
func (c *Client) Playback() *PlaybackClient {
	return &c.playback
}

func (c *Client) Close() {
	_ = c.capture.uninit()
	_ = c.playback.uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}
