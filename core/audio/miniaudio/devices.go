package miniaudio

import (
	"fmt"

	"github.com/gen2brain/malgo"
)

type DeviceInfo struct {
	Name      string
	IsDefault bool
}

// Devices lists the capture and playback devices the backend can see. It
// spins up a throwaway context, so it is safe to call before NewClient.
func Devices() (inputs []DeviceInfo, outputs []DeviceInfo, err error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	defer func() {
		_ = audioCtx.Uninit()
		audioCtx.Free()
	}()

	captureDevices, err := audioCtx.Devices(malgo.Capture)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list capture devices: %w", err)
	}
	for _, device := range captureDevices {
		inputs = append(inputs, DeviceInfo{
			Name:      device.Name(),
			IsDefault: device.IsDefault != 0,
		})
	}

	playbackDevices, err := audioCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list playback devices: %w", err)
	}
	for _, device := range playbackDevices {
		outputs = append(outputs, DeviceInfo{
			Name:      device.Name(),
			IsDefault: device.IsDefault != 0,
		})
	}

	return inputs, outputs, nil
}
