// Package portaudio provides a duplex capture/playback client on top of the
// PortAudio bindings. Both directions run at the default pipeline rate, so a
// synthesizer paired with this backend has to produce audio at that rate.
package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

const DefaultBufferSize = 480

type Client struct {
	bufferSize    int
	stream        *portaudio.Stream
	leftoverAudio []byte

	in  []int16
	out []int16

	audioMu sync.Mutex
}

func NewClient(bufferSize int) (*Client, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	in := make([]int16, bufferSize)
	out := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 1, audio.DefaultSampleRate, bufferSize, in, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open PortAudio stream: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
		out:        out,
	}, nil
}

func (c *Client) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start PortAudio stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = c.stream.Stop()
			return nil
		default:
			if err := c.stream.Read(); err != nil {
				log.Printf("Failed to read from PortAudio stream: %v", err)
				continue
			}

			audioBuffer := bytes.Buffer{}
			_ = binary.Write(&audioBuffer, binary.LittleEndian, c.in)
			onAudio(audioBuffer.Bytes())
		}
	}
}

func (c *Client) Close() {
	_ = c.stream.Close()
	_ = portaudio.Terminate()
}

func (c *Client) SendAudio(audio []byte) error {
	bufferSize := c.bufferSize * 2

	c.audioMu.Lock()
	defer c.audioMu.Unlock()

	audio = append(c.leftoverAudio, audio...)
	for i := range len(audio)/bufferSize + 1 {
		if (i+1)*bufferSize > len(audio) {
			c.leftoverAudio = make([]byte, len(audio)-i*bufferSize)
			copy(c.leftoverAudio, audio[i*bufferSize:])
			break
		}

		c.writeChunk(audio[i*bufferSize : (i+1)*bufferSize])
	}

	return nil
}

func (c *Client) ClearBuffer() {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.leftoverAudio = make([]byte, 0)
}

// AwaitMark flushes whatever audio is still buffered, padding the final
// partial chunk with silence so nothing queued is dropped.
func (c *Client) AwaitMark() error {
	bufferSize := c.bufferSize * 2

	c.audioMu.Lock()
	defer c.audioMu.Unlock()

	audio := c.leftoverAudio
	c.leftoverAudio = make([]byte, 0)
	for i := range len(audio)/bufferSize + 1 {
		if (i+1)*bufferSize > len(audio) {
			if remainder := audio[i*bufferSize:]; len(remainder) > 0 {
				chunk := make([]byte, bufferSize)
				copy(chunk, remainder)
				c.writeChunk(chunk)
			}
			break
		}

		c.writeChunk(audio[i*bufferSize : (i+1)*bufferSize])
	}
	return nil
}

func (c *Client) writeChunk(chunk []byte) {
	_ = binary.Read(bytes.NewBuffer(chunk), binary.LittleEndian, c.out)
	if err := c.stream.Write(); err != nil {
		log.Printf("Failed to write to PortAudio stream: %v", err)
	}
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
