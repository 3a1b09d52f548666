package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	orchestration "github.com/ziclari/prueba-STT-TTS-LLM/core"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setSessionDefaults(v)
	return v
}

func TestSessionConfigDefaults(t *testing.T) {
	cfg, err := sessionConfigFromViper(newTestViper())
	if err != nil {
		t.Fatalf("expected defaults to load, got %v", err)
	}

	if cfg.Provider != "groq" {
		t.Fatalf("expected default provider groq, got %q", cfg.Provider)
	}
	if cfg.Synthesizer != "deepgram" {
		t.Fatalf("expected default synthesizer deepgram, got %q", cfg.Synthesizer)
	}
	if cfg.Backend != "miniaudio" {
		t.Fatalf("expected default backend miniaudio, got %q", cfg.Backend)
	}
	if cfg.Voice != "aura-2-celeste-es" {
		t.Fatalf("expected a Spanish default voice, got %q", cfg.Voice)
	}
	if cfg.Language != "es" {
		t.Fatalf("expected default language es, got %q", cfg.Language)
	}
	if cfg.Duration != orchestration.DefaultSessionDuration {
		t.Fatalf("expected default duration %s, got %s", orchestration.DefaultSessionDuration, cfg.Duration)
	}
	if cfg.LookAhead != 2 {
		t.Fatalf("expected default look-ahead 2, got %d", cfg.LookAhead)
	}
	if cfg.Greeting != orchestration.DefaultGreeting {
		t.Fatalf("expected the default greeting, got %q", cfg.Greeting)
	}
	if cfg.Closing != orchestration.DefaultClosing {
		t.Fatalf("expected the default closing, got %q", cfg.Closing)
	}
}

func TestSessionConfigNormalizesCase(t *testing.T) {
	v := newTestViper()
	v.Set("provider", "OpenAI")
	v.Set("synthesizer", "Piper")
	v.Set("backend", "PortAudio")

	cfg, err := sessionConfigFromViper(v)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.Provider != "openai" {
		t.Fatalf("expected provider lowercased, got %q", cfg.Provider)
	}
	if cfg.Synthesizer != "piper" {
		t.Fatalf("expected synthesizer lowercased, got %q", cfg.Synthesizer)
	}
	if cfg.Backend != "portaudio" {
		t.Fatalf("expected backend lowercased, got %q", cfg.Backend)
	}
}

func TestSessionConfigParsesDurationStrings(t *testing.T) {
	v := newTestViper()
	v.Set("duration", "90s")

	cfg, err := sessionConfigFromViper(v)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if cfg.Duration != 90*time.Second {
		t.Fatalf("expected 90s duration, got %s", cfg.Duration)
	}
}

func TestSessionConfigRejectsUnknownProvider(t *testing.T) {
	v := newTestViper()
	v.Set("provider", "llamacpp")

	if _, err := sessionConfigFromViper(v); err == nil {
		t.Fatal("expected an error for an unknown provider")
	}
}

func TestSessionConfigRejectsUnknownSynthesizer(t *testing.T) {
	v := newTestViper()
	v.Set("synthesizer", "espeak")

	if _, err := sessionConfigFromViper(v); err == nil {
		t.Fatal("expected an error for an unknown synthesizer")
	}
}

func TestSessionConfigRejectsUnknownBackend(t *testing.T) {
	v := newTestViper()
	v.Set("backend", "jack")

	if _, err := sessionConfigFromViper(v); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

func TestSessionConfigRejectsNonPositiveDuration(t *testing.T) {
	v := newTestViper()
	v.Set("duration", "0s")

	if _, err := sessionConfigFromViper(v); err == nil {
		t.Fatal("expected an error for a zero duration")
	}
}

func TestResolvePersonaDefaultsWithoutFile(t *testing.T) {
	persona, err := resolvePersona(sessionConfig{})
	if err != nil {
		t.Fatalf("expected the default persona, got %v", err)
	}
	if persona != orchestration.DefaultPersona {
		t.Fatal("expected the built-in persona when no file is configured")
	}
}

func TestResolvePersonaReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")
	if err := os.WriteFile(path, []byte("Eres un guía de museo.\n"), 0o600); err != nil {
		t.Fatalf("failed to write persona file: %v", err)
	}

	persona, err := resolvePersona(sessionConfig{PersonaFile: path})
	if err != nil {
		t.Fatalf("expected the persona file to load, got %v", err)
	}
	if persona != "Eres un guía de museo." {
		t.Fatalf("expected the trimmed file contents, got %q", persona)
	}
}

func TestResolvePersonaRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")
	if err := os.WriteFile(path, []byte("  \n\t\n"), 0o600); err != nil {
		t.Fatalf("failed to write persona file: %v", err)
	}

	if _, err := resolvePersona(sessionConfig{PersonaFile: path}); err == nil {
		t.Fatal("expected an error for an empty persona file")
	}
}

func TestResolvePersonaReportsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	_, err := resolvePersona(sessionConfig{PersonaFile: path})
	if err == nil {
		t.Fatal("expected an error for a missing persona file")
	}
	if !strings.Contains(err.Error(), "persona file") {
		t.Fatalf("expected the error to name the persona file, got %v", err)
	}
}

func TestDeepgramVoiceOptionMatchesKnownVoices(t *testing.T) {
	if _, err := deepgramVoiceOption("aura-2-celeste-es"); err != nil {
		t.Fatalf("expected a known voice to resolve, got %v", err)
	}
}

func TestDeepgramVoiceOptionRejectsUnknownVoice(t *testing.T) {
	if _, err := deepgramVoiceOption("aura-2-nobody-xx"); err == nil {
		t.Fatal("expected an error for an unknown voice")
	}
}
