package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio/miniaudio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List capture and playback devices",
	Long: `List the audio devices the miniaudio backend can see. The names shown
here are what --capture-device and --playback-device expect; the default
device is marked with an asterisk.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		inputs, outputs, err := miniaudio.Devices()
		if err != nil {
			return fmt.Errorf("failed to enumerate audio devices: %w", err)
		}

		printDevices("Capture devices", inputs)
		fmt.Println()
		printDevices("Playback devices", outputs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func printDevices(title string, devices []miniaudio.DeviceInfo) {
	fmt.Printf("%s:\n", title)
	if len(devices) == 0 {
		fmt.Println("  (none found)")
		return
	}
	for _, device := range devices {
		marker := " "
		if device.IsDefault {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, device.Name)
	}
}
