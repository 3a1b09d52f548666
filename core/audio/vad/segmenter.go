package vad

import (
	"encoding/binary"
	"sync"
)

// Frame is one fixed-duration block of captured audio with its VAD verdict.
// Index increases monotonically for the lifetime of the segmenter.
type Frame struct {
	Index  uint64
	PCM    []byte
	Speech bool
}

// Callbacks let the host react to segment boundaries. All callbacks run on
// the goroutine that calls Push and must return quickly.
type Callbacks struct {
	// OnFrame fires for every classified frame.
	OnFrame func(Frame)
	// OnSpeechStart fires once per segment after the onset debounce holds.
	// preRoll contains the retained audio from before the onset, including
	// the debounced frames themselves.
	OnSpeechStart func(preRoll []byte)
	// OnSpeechEnd fires once per segment after the hangover window elapses
	// with no further speech. segment contains the pre-roll, the speech and
	// the trailing silence up to the hangover cutoff.
	OnSpeechEnd func(segment []byte)
}

type segmenterState int

const (
	stateSilence segmenterState = iota
	stateOnset
	stateSpeech
	stateTrailing
)

// Segmenter splits an arbitrary PCM16LE stream into 10ms frames, classifies
// them, and detects speech segments bounded by an onset debounce and a
// trailing-silence hangover.
type Segmenter struct {
	mu       sync.Mutex
	cfg      Config
	detector *Detector

	state         segmenterState
	frameIndex    uint64
	pending       []byte
	preRoll       *ring
	segment       []byte
	onsetFrames   int
	silenceFrames int

	onsetNeed   int
	hangoverLen int

	callbacks Callbacks
}

func NewSegmenter(cfg Config, callbacks Callbacks) *Segmenter {
	cfg = cfg.withDefaults()
	onsetNeed := int(cfg.MinSpeech / frameDuration)
	if onsetNeed < 1 {
		onsetNeed = 1
	}
	hangoverLen := int(cfg.Hangover / frameDuration)
	if hangoverLen < 1 {
		hangoverLen = 1
	}
	return &Segmenter{
		cfg:         cfg,
		detector:    NewDetector(cfg),
		preRoll:     newRing(int(cfg.PreRoll/frameDuration) * cfg.SampleRate / 100 * 2),
		onsetNeed:   onsetNeed,
		hangoverLen: hangoverLen,
		callbacks:   callbacks,
	}
}

// Push feeds captured audio of any length. Leftover bytes that do not fill a
// whole frame are retained for the next call.
func (s *Segmenter) Push(pcm []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frameBytes := s.cfg.SampleRate / 100 * 2
	s.pending = append(s.pending, pcm...)
	for len(s.pending) >= frameBytes {
		frame := s.pending[:frameBytes]
		s.pending = s.pending[frameBytes:]
		s.processFrame(frame)
	}
}

// InSpeech reports whether a segment is currently open, including its
// hangover window.
func (s *Segmenter) InSpeech() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateSpeech || s.state == stateTrailing
}

// Buffered returns a copy of the audio retained right now: the open segment
// if one is in progress, otherwise the pre-roll window. It lets the host
// grab the audio behind a tentative onset before the segment commits.
func (s *Segmenter) Buffered() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateSpeech || s.state == stateTrailing {
		segment := make([]byte, len(s.segment))
		copy(segment, s.segment)
		return segment
	}
	return s.preRoll.Bytes()
}

// Flush force-closes any open segment, as on session teardown. OnSpeechEnd
// fires if speech was in progress.
func (s *Segmenter) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateSpeech || s.state == stateTrailing {
		s.endSegment()
	} else {
		s.resetToSilence()
	}
}

func (s *Segmenter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetToSilence()
	s.pending = s.pending[:0]
	s.preRoll.Reset()
	s.detector.Reset()
}

func (s *Segmenter) processFrame(frame []byte) {
	samples := samplesOf(frame)
	speech := s.detector.Classify(samples)

	index := s.frameIndex
	s.frameIndex++

	if cb := s.callbacks.OnFrame; cb != nil {
		pcm := make([]byte, len(frame))
		copy(pcm, frame)
		cb(Frame{Index: index, PCM: pcm, Speech: speech})
	}

	switch s.state {
	case stateSilence:
		s.preRoll.Write(frame)
		if speech {
			s.state = stateOnset
			s.onsetFrames = 1
		}

	case stateOnset:
		s.preRoll.Write(frame)
		if !speech {
			s.state = stateSilence
			s.onsetFrames = 0
			break
		}
		s.onsetFrames++
		if s.onsetFrames >= s.onsetNeed {
			s.state = stateSpeech
			s.segment = append(s.segment[:0], s.preRoll.Bytes()...)
			if cb := s.callbacks.OnSpeechStart; cb != nil {
				preRoll := make([]byte, len(s.segment))
				copy(preRoll, s.segment)
				cb(preRoll)
			}
		}

	case stateSpeech:
		s.segment = append(s.segment, frame...)
		if !speech {
			s.state = stateTrailing
			s.silenceFrames = 1
		}

	case stateTrailing:
		s.segment = append(s.segment, frame...)
		if speech {
			s.state = stateSpeech
			s.silenceFrames = 0
			break
		}
		s.silenceFrames++
		if s.silenceFrames >= s.hangoverLen {
			s.endSegment()
		}
	}
}

func (s *Segmenter) endSegment() {
	segment := make([]byte, len(s.segment))
	copy(segment, s.segment)
	s.resetToSilence()
	if cb := s.callbacks.OnSpeechEnd; cb != nil {
		cb(segment)
	}
}

func (s *Segmenter) resetToSilence() {
	s.state = stateSilence
	s.onsetFrames = 0
	s.silenceFrames = 0
	s.segment = s.segment[:0]
	s.preRoll.Reset()
}

func samplesOf(frame []byte) []int16 {
	samples := make([]int16, len(frame)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(frame[i*2:]))
	}
	return samples
}

// ring retains the most recent capacity bytes of audio for pre-roll.
type ring struct {
	buf      []byte
	capacity int
	writePos int
	full     bool
}

func newRing(capacity int) *ring {
	if capacity < 2 {
		capacity = 2
	}
	return &ring{buf: make([]byte, capacity), capacity: capacity}
}

func (r *ring) Write(b []byte) {
	for _, v := range b {
		r.buf[r.writePos] = v
		r.writePos = (r.writePos + 1) % r.capacity
		if r.writePos == 0 {
			r.full = true
		}
	}
}

func (r *ring) Bytes() []byte {
	if !r.full {
		out := make([]byte, r.writePos)
		copy(out, r.buf[:r.writePos])
		return out
	}
	out := make([]byte, r.capacity)
	copy(out, r.buf[r.writePos:])
	copy(out[r.capacity-r.writePos:], r.buf[:r.writePos])
	return out
}

func (r *ring) Reset() {
	r.writePos = 0
	r.full = false
}
