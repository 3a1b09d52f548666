package miniaudio

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

type CaptureClient struct {
	device *malgo.Device
	config malgo.DeviceConfig

	encodingInfo audio.EncodingInfo

	onAudio func(audio []byte)

	mu sync.Mutex
}

func (c *CaptureClient) init(audioContext *malgo.AllocatedContext, sampleRate int, deviceID unsafe.Pointer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Capture)
	c.config.SampleRate = uint32(sampleRate)
	c.config.Capture.DeviceID = deviceID
	c.config.Capture.Format = format
	c.config.Capture.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PerformanceProfile = malgo.LowLatency
	c.config.PeriodSizeInFrames = 480
	c.config.Periods = 3

	c.encodingInfo = audio.EncodingInfo{
		SampleRate: sampleRate,
		Format:     audio.EncodingLinear16,
	}

	var err error
	c.device, err = malgo.InitDevice(audioContext.Context, c.config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}
			if c.onAudio != nil {
				c.onAudio(pInput[:n])
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return nil
}

// Stream starts delivering microphone audio to onAudio. The callback runs on
// the device's data thread, so it must return quickly.
func (c *CaptureClient) Stream(_ context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if c.device.IsStarted() {
		return nil
	}

	c.onAudio = onAudio
	if err := c.device.Start(); err != nil {
		c.onAudio = nil
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (c *CaptureClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return nil
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}

	c.onAudio = nil
	return nil
}

func (c *CaptureClient) uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.onAudio = nil
	return nil
}

func (c *CaptureClient) EncodingInfo() audio.EncodingInfo {
	return c.encodingInfo
}
