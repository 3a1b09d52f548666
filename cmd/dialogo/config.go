package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	orchestration "github.com/ziclari/prueba-STT-TTS-LLM/core"
	deepgramtts "github.com/ziclari/prueba-STT-TTS-LLM/core/texttospeech/deepgram"
)

// sessionConfig is everything a session needs beyond credentials, resolved
// from flags, environment and config file.
type sessionConfig struct {
	Provider string
	Model    string

	STTModel string
	Language string

	Synthesizer string
	Voice       string
	PiperModel  string
	PiperBinary string

	Backend        string
	CaptureDevice  string
	PlaybackDevice string

	Duration  time.Duration
	LookAhead int

	PersonaFile string
	Greeting    string
	Closing     string

	NoUI bool
}

// setSessionDefaults registers the default value for every session key so a
// config source only has to name what it overrides.
func setSessionDefaults(v *viper.Viper) {
	v.SetDefault("provider", "groq")
	v.SetDefault("model", "")
	v.SetDefault("stt_model", "nova-3")
	v.SetDefault("language", "es")
	v.SetDefault("synthesizer", "deepgram")
	v.SetDefault("voice", "aura-2-celeste-es")
	v.SetDefault("piper_model", "")
	v.SetDefault("piper_binary", "piper")
	v.SetDefault("backend", "miniaudio")
	v.SetDefault("capture_device", "")
	v.SetDefault("playback_device", "")
	v.SetDefault("duration", orchestration.DefaultSessionDuration)
	v.SetDefault("look_ahead", 2)
	v.SetDefault("persona_file", "")
	v.SetDefault("greeting", orchestration.DefaultGreeting)
	v.SetDefault("closing", orchestration.DefaultClosing)
	v.SetDefault("no_ui", false)
}

func loadSessionConfig() (sessionConfig, error) {
	return sessionConfigFromViper(viper.GetViper())
}

func sessionConfigFromViper(v *viper.Viper) (sessionConfig, error) {
	cfg := sessionConfig{
		Provider: strings.ToLower(v.GetString("provider")),
		Model:    v.GetString("model"),

		STTModel: v.GetString("stt_model"),
		Language: v.GetString("language"),

		Synthesizer: strings.ToLower(v.GetString("synthesizer")),
		Voice:       v.GetString("voice"),
		PiperModel:  v.GetString("piper_model"),
		PiperBinary: v.GetString("piper_binary"),

		Backend:        strings.ToLower(v.GetString("backend")),
		CaptureDevice:  v.GetString("capture_device"),
		PlaybackDevice: v.GetString("playback_device"),

		Duration:  v.GetDuration("duration"),
		LookAhead: v.GetInt("look_ahead"),

		PersonaFile: v.GetString("persona_file"),
		Greeting:    v.GetString("greeting"),
		Closing:     v.GetString("closing"),

		NoUI: v.GetBool("no_ui"),
	}

	switch cfg.Provider {
	case "groq", "openai", "gemini":
	default:
		return cfg, fmt.Errorf("unknown provider %q (expected groq, openai or gemini)", cfg.Provider)
	}

	switch cfg.Synthesizer {
	case "deepgram", "piper":
	default:
		return cfg, fmt.Errorf("unknown synthesizer %q (expected deepgram or piper)", cfg.Synthesizer)
	}

	switch cfg.Backend {
	case "miniaudio", "portaudio":
	default:
		return cfg, fmt.Errorf("unknown audio backend %q (expected miniaudio or portaudio)", cfg.Backend)
	}

	if cfg.Duration <= 0 {
		return cfg, fmt.Errorf("session duration must be positive, got %s", cfg.Duration)
	}

	return cfg, nil
}

// resolvePersona returns the system instructions for the session, reading
// the persona file when one is configured.
func resolvePersona(cfg sessionConfig) (string, error) {
	if cfg.PersonaFile == "" {
		return orchestration.DefaultPersona, nil
	}

	content, err := os.ReadFile(cfg.PersonaFile)
	if err != nil {
		return "", fmt.Errorf("failed to read persona file: %w", err)
	}
	persona := strings.TrimSpace(string(content))
	if persona == "" {
		return "", fmt.Errorf("persona file %s is empty", cfg.PersonaFile)
	}
	return persona, nil
}

// deepgramVoiceOption matches a voice name against the voices the speak API
// offers.
func deepgramVoiceOption(name string) (deepgramtts.TextToSpeechClientOption, error) {
	for _, voice := range deepgramtts.GetAvailableVoices() {
		if string(voice) == name {
			return deepgramtts.WithVoice(voice), nil
		}
	}
	return nil, fmt.Errorf("unknown voice %q", name)
}
