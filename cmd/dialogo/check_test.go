package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio/miniaudio"
)

func stubPreflightDeps(env map[string]string) preflightDeps {
	return preflightDeps{
		lookupEnv: func(key string) (string, bool) {
			value, ok := env[key]
			return value, ok
		},
		lookPath: func(binary string) (string, error) {
			return "/usr/local/bin/" + binary, nil
		},
		stat: func(string) error { return nil },
		listDevices: func() ([]miniaudio.DeviceInfo, []miniaudio.DeviceInfo, error) {
			return []miniaudio.DeviceInfo{{Name: "Micrófono interno", IsDefault: true}},
				[]miniaudio.DeviceInfo{{Name: "Altavoces", IsDefault: true}},
				nil
		},
	}
}

func resultByName(t *testing.T, results []preflightResult, name string) preflightResult {
	t.Helper()
	for _, result := range results {
		if result.name == name {
			return result
		}
	}
	t.Fatalf("no preflight result named %q in %v", name, results)
	return preflightResult{}
}

func TestPreflightPassesWithFullEnvironment(t *testing.T) {
	cfg := sessionConfig{
		Provider:    "groq",
		Synthesizer: "deepgram",
		Voice:       "aura-2-celeste-es",
	}
	deps := stubPreflightDeps(map[string]string{
		"GROQ_API_KEY":     "gsk-test",
		"DEEPGRAM_API_KEY": "dg-test",
	})

	results := runPreflight(cfg, deps)
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(results))
	}
	for _, result := range results {
		if !result.ok {
			t.Fatalf("expected %q to pass, got %q", result.name, result.detail)
		}
	}
}

func TestPreflightFailsOnMissingProviderCredentials(t *testing.T) {
	cfg := sessionConfig{
		Provider:    "gemini",
		Synthesizer: "deepgram",
		Voice:       "aura-2-celeste-es",
	}
	deps := stubPreflightDeps(map[string]string{
		"DEEPGRAM_API_KEY": "dg-test",
	})

	results := runPreflight(cfg, deps)

	credentials := resultByName(t, results, "gemini credentials")
	if credentials.ok {
		t.Fatal("expected the provider credential check to fail")
	}
	if credentials.detail != "GEMINI_API_KEY not set" {
		t.Fatalf("expected the detail to name the variable, got %q", credentials.detail)
	}
}

func TestPreflightFailsWithoutCaptureDevices(t *testing.T) {
	cfg := sessionConfig{Provider: "groq", Synthesizer: "deepgram", Voice: "aura-2-celeste-es"}
	deps := stubPreflightDeps(map[string]string{
		"GROQ_API_KEY":     "gsk-test",
		"DEEPGRAM_API_KEY": "dg-test",
	})
	deps.listDevices = func() ([]miniaudio.DeviceInfo, []miniaudio.DeviceInfo, error) {
		return nil, []miniaudio.DeviceInfo{{Name: "Altavoces"}}, nil
	}

	devices := resultByName(t, runPreflight(cfg, deps), "audio devices")
	if devices.ok {
		t.Fatal("expected the audio device check to fail without capture devices")
	}
	if devices.detail != "no capture devices found" {
		t.Fatalf("expected a capture detail, got %q", devices.detail)
	}
}

func TestPreflightReportsBackendFailure(t *testing.T) {
	cfg := sessionConfig{Provider: "groq", Synthesizer: "deepgram", Voice: "aura-2-celeste-es"}
	deps := stubPreflightDeps(map[string]string{
		"GROQ_API_KEY":     "gsk-test",
		"DEEPGRAM_API_KEY": "dg-test",
	})
	deps.listDevices = func() ([]miniaudio.DeviceInfo, []miniaudio.DeviceInfo, error) {
		return nil, nil, errors.New("failed to initialize audio context")
	}

	devices := resultByName(t, runPreflight(cfg, deps), "audio devices")
	if devices.ok {
		t.Fatal("expected the audio device check to fail when the backend cannot start")
	}
}

func TestPreflightChecksNamedDevices(t *testing.T) {
	cfg := sessionConfig{
		Provider:      "groq",
		Synthesizer:   "deepgram",
		Voice:         "aura-2-celeste-es",
		CaptureDevice: "USB Microphone",
	}
	deps := stubPreflightDeps(map[string]string{
		"GROQ_API_KEY":     "gsk-test",
		"DEEPGRAM_API_KEY": "dg-test",
	})

	capture := resultByName(t, runPreflight(cfg, deps), "capture device")
	if capture.ok {
		t.Fatal("expected the named capture device check to fail")
	}
	if capture.detail != fmt.Sprintf("no device named %q", "USB Microphone") {
		t.Fatalf("expected the detail to name the device, got %q", capture.detail)
	}
}

func TestPreflightChecksPiperInstallation(t *testing.T) {
	cfg := sessionConfig{
		Provider:    "groq",
		Synthesizer: "piper",
		PiperBinary: "piper",
		PiperModel:  "/voices/es_ES-test-medium.onnx",
	}
	deps := stubPreflightDeps(map[string]string{
		"GROQ_API_KEY":     "gsk-test",
		"DEEPGRAM_API_KEY": "dg-test",
	})

	results := runPreflight(cfg, deps)
	if !resultByName(t, results, "piper binary").ok {
		t.Fatal("expected the piper binary check to pass")
	}
	if !resultByName(t, results, "piper model").ok {
		t.Fatal("expected the piper model check to pass")
	}
}

func TestPreflightFailsOnMissingPiperBinary(t *testing.T) {
	cfg := sessionConfig{
		Provider:    "groq",
		Synthesizer: "piper",
		PiperBinary: "piper",
		PiperModel:  "/voices/es_ES-test-medium.onnx",
	}
	deps := stubPreflightDeps(map[string]string{
		"GROQ_API_KEY":     "gsk-test",
		"DEEPGRAM_API_KEY": "dg-test",
	})
	deps.lookPath = func(string) (string, error) {
		return "", errors.New("executable file not found in $PATH")
	}

	if resultByName(t, runPreflight(cfg, deps), "piper binary").ok {
		t.Fatal("expected the piper binary check to fail")
	}
}

func TestPreflightFailsOnUnconfiguredPiperModel(t *testing.T) {
	cfg := sessionConfig{
		Provider:    "groq",
		Synthesizer: "piper",
		PiperBinary: "piper",
	}
	deps := stubPreflightDeps(map[string]string{
		"GROQ_API_KEY":     "gsk-test",
		"DEEPGRAM_API_KEY": "dg-test",
	})

	if resultByName(t, runPreflight(cfg, deps), "piper model").ok {
		t.Fatal("expected the piper model check to fail without a model path")
	}
}

func TestPreflightFailsOnUnknownVoice(t *testing.T) {
	cfg := sessionConfig{
		Provider:    "groq",
		Synthesizer: "deepgram",
		Voice:       "aura-2-nobody-xx",
	}
	deps := stubPreflightDeps(map[string]string{
		"GROQ_API_KEY":     "gsk-test",
		"DEEPGRAM_API_KEY": "dg-test",
	})

	if resultByName(t, runPreflight(cfg, deps), "synthesizer voice").ok {
		t.Fatal("expected the voice check to fail for an unknown voice")
	}
}
