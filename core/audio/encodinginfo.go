package audio

import "time"

const (
	DefaultSampleRate = 16000
	DefaultFormat     = "linear16"
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: encodingFormat(DefaultFormat)}
}

// EncodingInfo describes the PCM stream format shared between a device and
// the engines attached to it.
type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	case EncodingLinear16:
		return 0
	}

	return 0
}

// Silence returns a buffer of silent audio covering the given duration.
func (e EncodingInfo) Silence(d time.Duration) []byte {
	n := e.BytesIn(d)
	buf := make([]byte, n)
	if v := e.SilenceValue(); v != 0 {
		for i := range buf {
			buf[i] = v
		}
	}
	return buf
}

// BytesPerSecond returns the byte rate of the stream, or 0 when the encoding
// is incomplete.
func (e EncodingInfo) BytesPerSecond() int {
	size := e.Format.ByteSize()
	if size <= 0 || e.SampleRate <= 0 {
		return 0
	}
	return e.SampleRate * size
}

// Duration converts a byte count of audio in this encoding to wall time.
func (e EncodingInfo) Duration(numBytes int) time.Duration {
	rate := e.BytesPerSecond()
	if rate == 0 {
		return 0
	}
	return time.Duration(numBytes) * time.Second / time.Duration(rate)
}

// BytesIn converts a wall-time duration to the byte count of audio it spans
// in this encoding.
func (e EncodingInfo) BytesIn(d time.Duration) int {
	rate := e.BytesPerSecond()
	if rate == 0 {
		return 0
	}
	n := int(d * time.Duration(rate) / time.Second)
	if size := e.Format.ByteSize(); size > 1 {
		n -= n % size
	}
	return n
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)
