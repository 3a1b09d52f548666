package miniaudio

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

type PlaybackClient struct {
	device *malgo.Device
	config malgo.DeviceConfig

	encodingInfo audio.EncodingInfo

	leftoverAudio []byte
	marks         []playbackMark

	mu      sync.Mutex
	audioMu sync.Mutex
}

func (c *PlaybackClient) init(audioContext *malgo.AllocatedContext, sampleRate int, deviceID unsafe.Pointer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Playback)
	c.config.SampleRate = uint32(sampleRate)
	c.config.Playback.DeviceID = deviceID
	c.config.Playback.Format = format
	c.config.Playback.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PeriodSizeInFrames = uint32(sampleRate / 10) // ~100ms of audio
	c.config.Periods = 4

	c.encodingInfo = audio.EncodingInfo{
		SampleRate: sampleRate,
		Format:     audio.EncodingLinear16,
	}

	var err error
	if c.device, err = malgo.InitDevice(
		audioContext.Context,
		c.config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	); err != nil {
		return err
	}

	return nil
}

func (c *PlaybackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

// Stop halts the device and drops any queued audio. Start may be called
// again afterwards.
func (c *PlaybackClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	c.ClearBuffer()
	return nil
}

func (c *PlaybackClient) SendAudio(audio []byte) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.leftoverAudio = append(c.leftoverAudio, audio...)
	return nil
}

// ClearBuffer immediately drops all queued audio. This is the interruption
// path; anything not yet handed to the device never plays. Pending marks
// still fire so waiters observing playback progress are not left hanging.
func (c *PlaybackClient) ClearBuffer() {
	c.audioMu.Lock()
	c.leftoverAudio = make([]byte, 0)
	dropped := c.marks
	c.marks = nil
	c.audioMu.Unlock()

	if len(dropped) > 0 {
		go func() {
			for _, mark := range dropped {
				mark.callback(mark.name)
			}
		}()
	}
}

// AwaitMark blocks until all audio queued so far has been handed to the
// device.
func (c *PlaybackClient) AwaitMark() error {
	wg := sync.WaitGroup{}
	wg.Add(1)
	if err := c.Mark("", func(string) { wg.Done() }); err != nil {
		return err
	}
	wg.Wait()
	return nil
}

// Mark records a position in the queued audio; callback fires once playback
// consumes past it. A cleared buffer drops the mark without calling back.
func (c *PlaybackClient) Mark(mark string, callback func(string)) error {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.marks = append(c.marks, playbackMark{
		name:     mark,
		position: len(c.leftoverAudio),
		callback: callback,
	})
	return nil
}

func (c *PlaybackClient) uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	c.device.Uninit()
	c.device = nil

	return nil
}

func (c *PlaybackClient) EncodingInfo() audio.EncodingInfo {
	return c.encodingInfo
}

type playbackMark struct {
	name     string
	position int
	callback func(string)
}

func (c *PlaybackClient) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		c.audioMu.Lock()
		c.advanceMarks(need)

		if len(c.leftoverAudio) == 0 {
			c.audioMu.Unlock()
			return
		}

		if len(c.leftoverAudio) < need {
			copy(pOutput, c.leftoverAudio)
			c.leftoverAudio = nil
			c.audioMu.Unlock()
			return
		}

		copy(pOutput, c.leftoverAudio[:need])
		c.leftoverAudio = c.leftoverAudio[need:]
		c.audioMu.Unlock()
	}
}

// advanceMarks shifts mark positions by the bytes about to be consumed and
// fires the ones playback has passed. Callbacks run on their own goroutine
// to keep the device data thread unblocked. Caller holds audioMu.
func (c *PlaybackClient) advanceMarks(consumed int) {
	passedMarks := 0
	for i, mark := range c.marks {
		if mark.position >= consumed {
			c.marks[i].position -= consumed
		} else {
			passedMarks++
		}
	}
	if passedMarks > 0 {
		toCall := c.marks[:passedMarks]
		c.marks = c.marks[passedMarks:]
		go func() {
			for _, mark := range toCall {
				mark.callback(mark.name)
			}
		}()
	}
}
