// Package deepgram adapts Deepgram's speak REST API to the texttospeech
// contract. Each Synthesize call returns one complete clip, which suits the
// chunked look-ahead synthesis the orchestration core runs.
package deepgram

import (
	"fmt"
	"net/http"
	"os"
	"slices"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

const (
	defaultBaseURL    = "https://api.deepgram.com/v1/speak"
	defaultSampleRate = 24000
)

type TextToSpeechClient struct {
	baseURL string
	apiKey  string
	voice   deepgramVoice

	encodingInfo audio.EncodingInfo

	httpClient *http.Client
}

type TextToSpeechClientOption func(*TextToSpeechClient)

// WithAPIKey overrides the DEEPGRAM_API_KEY environment variable.
func WithAPIKey(apiKey string) TextToSpeechClientOption {
	return func(c *TextToSpeechClient) { c.apiKey = apiKey }
}

func WithVoice(voice deepgramVoice) TextToSpeechClientOption {
	return func(c *TextToSpeechClient) { c.voice = voice }
}

// WithEncodingInfo requests a specific output encoding. Linear16 supports
// 8000 to 48000Hz; the companded formats are fixed at 8000Hz.
func WithEncodingInfo(encodingInfo audio.EncodingInfo) TextToSpeechClientOption {
	return func(c *TextToSpeechClient) { c.encodingInfo = encodingInfo }
}

// WithBaseURL points the client at a self-hosted Deepgram deployment.
func WithBaseURL(baseURL string) TextToSpeechClientOption {
	return func(c *TextToSpeechClient) { c.baseURL = baseURL }
}

func NewTextToSpeechClient(opts ...TextToSpeechClientOption) (*TextToSpeechClient, error) {
	client := &TextToSpeechClient{
		baseURL: defaultBaseURL,
		voice:   defaultVoice,
		encodingInfo: audio.EncodingInfo{
			SampleRate: defaultSampleRate,
			Format:     audio.EncodingLinear16,
		},
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
	}
	for _, opt := range opts {
		opt(client)
	}

	if !slices.Contains(GetAvailableVoices(), client.voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	if client.apiKey == "" {
		apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
		if !ok {
			return nil, fmt.Errorf("deepgram api key not found")
		}
		client.apiKey = apiKey
	}

	return client, nil
}

func (c *TextToSpeechClient) EncodingInfo() audio.EncodingInfo {
	return c.encodingInfo
}
