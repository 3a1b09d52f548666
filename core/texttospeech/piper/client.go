// Package piper adapts the Piper text-to-speech engine to the texttospeech
// contract by running the piper binary per clip. Piper is fully local, which
// makes it the offline fallback when no hosted synthesizer is reachable.
package piper

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

const (
	defaultBinary = "piper"

	// Piper models synthesize at the rate baked into the voice model;
	// medium-quality voices use 22050Hz.
	fallbackSampleRate = 22050
)

type Synthesizer struct {
	binary    string
	modelPath string

	encodingInfo audio.EncodingInfo
}

type SynthesizerOption func(*Synthesizer)

// WithBinary overrides the piper executable path.
func WithBinary(binary string) SynthesizerOption {
	return func(s *Synthesizer) { s.binary = binary }
}

// NewSynthesizer builds a synthesizer around a Piper voice model. The model's
// sidecar JSON config provides the output sample rate; without it the common
// medium-voice rate is assumed.
func NewSynthesizer(modelPath string, opts ...SynthesizerOption) (*Synthesizer, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("piper model not found: %w", err)
	}

	synthesizer := &Synthesizer{
		binary:    defaultBinary,
		modelPath: modelPath,
		encodingInfo: audio.EncodingInfo{
			SampleRate: modelSampleRate(modelPath),
			Format:     audio.EncodingLinear16,
		},
	}
	for _, opt := range opts {
		opt(synthesizer)
	}

	return synthesizer, nil
}

func modelSampleRate(modelPath string) int {
	configBytes, err := os.ReadFile(modelPath + ".json")
	if err != nil {
		return fallbackSampleRate
	}

	var config struct {
		Audio struct {
			SampleRate int `json:"sample_rate"`
		} `json:"audio"`
	}
	if err := json.Unmarshal(configBytes, &config); err != nil || config.Audio.SampleRate == 0 {
		return fallbackSampleRate
	}
	return config.Audio.SampleRate
}

func (s *Synthesizer) EncodingInfo() audio.EncodingInfo {
	return s.encodingInfo
}

// Check verifies the piper binary is reachable. The model file was already
// checked at construction.
func (s *Synthesizer) Check() error {
	if _, err := exec.LookPath(s.binary); err != nil {
		return fmt.Errorf("piper binary not found: %w", err)
	}
	return nil
}
