// Package deepgram adapts Deepgram's live-transcription websocket to the
// speechtotext contract.
package deepgram

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultModel    = "nova-3"
	DefaultLanguage = "en-US"
)

type TranscriptionClient struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	lastMsgTs time.Time

	accumulatedTranscript string
	unendedSegment        bool

	apiKey   string
	model    string
	language string
}

type TranscriptionClientOption func(*TranscriptionClient)

// WithAPIKey overrides the DEEPGRAM_API_KEY environment variable.
func WithAPIKey(apiKey string) TranscriptionClientOption {
	return func(c *TranscriptionClient) { c.apiKey = apiKey }
}

func WithModel(model string) TranscriptionClientOption {
	return func(c *TranscriptionClient) { c.model = model }
}

// WithLanguage sets the default recognition language as a BCP-47 tag. A
// per-transcription language option takes precedence.
func WithLanguage(language string) TranscriptionClientOption {
	return func(c *TranscriptionClient) { c.language = language }
}

func NewTranscriptionClient(opts ...TranscriptionClientOption) *TranscriptionClient {
	client := &TranscriptionClient{
		model:    DefaultModel,
		language: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}
