// Package vad classifies PCM audio as speech or silence and groups speech
// frames into segments bounded by onset and trailing-silence detection.
package vad

import (
	"math"
	"time"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

const frameDuration = 10 * time.Millisecond

type Config struct {
	// SampleRate of the incoming PCM16LE mono audio.
	SampleRate int
	// Threshold is the RMS energy above which a frame counts as speech.
	Threshold float64
	// SmoothingFrames is the majority-vote window applied to raw frame
	// classifications to reject single-frame spikes.
	SmoothingFrames int
	// MinSpeech is how much sustained speech is required before a segment
	// starts.
	MinSpeech time.Duration
	// Hangover is how much trailing silence is required before a segment
	// ends. Silence shorter than this never splits a segment.
	Hangover time.Duration
	// PreRoll is how much audio from before the detected onset is retained
	// and prepended to the segment.
	PreRoll time.Duration
}

func (c Config) withDefaults() Config {
	if c.SampleRate == 0 {
		c.SampleRate = audio.DefaultSampleRate
	}
	if c.Threshold == 0 {
		c.Threshold = 300.0
	}
	if c.SmoothingFrames == 0 {
		c.SmoothingFrames = 4
	}
	if c.MinSpeech == 0 {
		c.MinSpeech = 90 * time.Millisecond
	}
	if c.Hangover == 0 {
		c.Hangover = 500 * time.Millisecond
	}
	if c.PreRoll == 0 {
		c.PreRoll = 240 * time.Millisecond
	}
	return c
}

// Detector classifies fixed 10ms frames by RMS energy, smoothed over a short
// majority-vote window.
type Detector struct {
	threshold float64
	votes     []bool
	smoothN   int
}

func NewDetector(cfg Config) *Detector {
	cfg = cfg.withDefaults()
	return &Detector{threshold: cfg.Threshold, smoothN: cfg.SmoothingFrames}
}

// Classify reports whether the frame is speech. Classification is stateful:
// the verdict is a majority vote over the most recent frames.
func (d *Detector) Classify(frame []int16) bool {
	raw := rms(frame) >= d.threshold
	d.votes = append(d.votes, raw)
	if len(d.votes) > d.smoothN {
		d.votes = d.votes[len(d.votes)-d.smoothN:]
	}
	speech := 0
	for _, v := range d.votes {
		if v {
			speech++
		}
	}
	return speech*2 >= len(d.votes)
}

func (d *Detector) Reset() {
	d.votes = d.votes[:0]
}

func rms(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		f := float64(s)
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(frame)))
}
