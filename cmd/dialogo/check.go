package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio/miniaudio"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the environment can run a session",
	Long: `Check that the configured session could actually start: audio devices
are present, provider credentials are set and, for the local synthesizer,
the Piper binary and voice model can be found.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadSessionConfig()
		if err != nil {
			return err
		}

		results := runPreflight(cfg, defaultPreflightDeps())
		printPreflight(results)

		failed := 0
		for _, result := range results {
			if !result.ok {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d checks failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// preflightDeps are the probes the checks run against, swappable in tests.
type preflightDeps struct {
	lookupEnv   func(key string) (string, bool)
	lookPath    func(binary string) (string, error)
	stat        func(path string) error
	listDevices func() (inputs, outputs []miniaudio.DeviceInfo, err error)
}

func defaultPreflightDeps() preflightDeps {
	return preflightDeps{
		lookupEnv: os.LookupEnv,
		lookPath:  exec.LookPath,
		stat: func(path string) error {
			_, err := os.Stat(path)
			return err
		},
		listDevices: miniaudio.Devices,
	}
}

type preflightResult struct {
	name   string
	ok     bool
	detail string
}

func runPreflight(cfg sessionConfig, deps preflightDeps) []preflightResult {
	results := checkAudioDevices(cfg, deps)
	results = append(results, checkCredential(providerEnvVars[cfg.Provider], cfg.Provider+" credentials", deps))
	results = append(results, checkCredential("DEEPGRAM_API_KEY", "transcription credentials", deps))
	results = append(results, checkSynthesizer(cfg, deps)...)
	return results
}

var providerEnvVars = map[string]string{
	"groq":   "GROQ_API_KEY",
	"openai": "OPENAI_API_KEY",
	"gemini": "GEMINI_API_KEY",
}

func checkAudioDevices(cfg sessionConfig, deps preflightDeps) []preflightResult {
	inputs, outputs, err := deps.listDevices()
	if err != nil {
		return []preflightResult{{
			name:   "audio devices",
			detail: err.Error(),
		}}
	}

	results := []preflightResult{{
		name:   "audio devices",
		ok:     len(inputs) > 0 && len(outputs) > 0,
		detail: fmt.Sprintf("%d capture, %d playback", len(inputs), len(outputs)),
	}}
	if len(inputs) == 0 {
		results[0].detail = "no capture devices found"
	} else if len(outputs) == 0 {
		results[0].detail = "no playback devices found"
	}

	if cfg.CaptureDevice != "" {
		results = append(results, checkNamedDevice("capture device", cfg.CaptureDevice, inputs))
	}
	if cfg.PlaybackDevice != "" {
		results = append(results, checkNamedDevice("playback device", cfg.PlaybackDevice, outputs))
	}

	return results
}

func checkNamedDevice(name, wanted string, devices []miniaudio.DeviceInfo) preflightResult {
	for _, device := range devices {
		if device.Name == wanted {
			return preflightResult{name: name, ok: true, detail: wanted}
		}
	}
	return preflightResult{name: name, detail: fmt.Sprintf("no device named %q", wanted)}
}

func checkCredential(envVar, name string, deps preflightDeps) preflightResult {
	if envVar == "" {
		return preflightResult{name: name, detail: "unknown provider"}
	}
	if value, ok := deps.lookupEnv(envVar); !ok || value == "" {
		return preflightResult{name: name, detail: envVar + " not set"}
	}
	return preflightResult{name: name, ok: true, detail: envVar + " set"}
}

func checkSynthesizer(cfg sessionConfig, deps preflightDeps) []preflightResult {
	switch cfg.Synthesizer {
	case "deepgram":
		result := preflightResult{name: "synthesizer voice", ok: true, detail: cfg.Voice}
		if _, err := deepgramVoiceOption(cfg.Voice); err != nil {
			result.ok = false
			result.detail = err.Error()
		}
		return []preflightResult{result}

	case "piper":
		binary := preflightResult{name: "piper binary", ok: true}
		if path, err := deps.lookPath(cfg.PiperBinary); err != nil {
			binary.ok = false
			binary.detail = fmt.Sprintf("%q not found in PATH", cfg.PiperBinary)
		} else {
			binary.detail = path
		}

		model := preflightResult{name: "piper model", ok: true, detail: cfg.PiperModel}
		if cfg.PiperModel == "" {
			model.ok = false
			model.detail = "no voice model configured (--piper-model)"
		} else if err := deps.stat(cfg.PiperModel); err != nil {
			model.ok = false
			model.detail = err.Error()
		}

		return []preflightResult{binary, model}
	}

	return nil
}

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4444"))
)

func printPreflight(results []preflightResult) {
	width := 0
	for _, result := range results {
		if len(result.name) > width {
			width = len(result.name)
		}
	}

	for _, result := range results {
		verdict := passStyle.Render("PASS")
		if !result.ok {
			verdict = failStyle.Render("FAIL")
		}
		fmt.Printf("  %s  %-*s  %s\n", verdict, width, result.name, result.detail)
	}
}
