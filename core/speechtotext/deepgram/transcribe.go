package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/speechtotext"
	"github.com/ziclari/prueba-STT-TTS-LLM/internal/utils"
)

// Transcribe opens the live-transcription socket and starts delivering
// results to the configured callbacks. It returns once the socket is open;
// audio is fed through SendAudio.
func (s *TranscriptionClient) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := &speechtotext.TranscriptionOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(options)
	}

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	callbacks, wsConfig := newCallbackConfig(*options)

	model := s.model
	if options.Model != "" {
		model = options.Model
	}
	language := s.language
	if options.Language != "" {
		language = options.Language
	}

	conn, err := s.connectWebsocket(connectionOptions{
		sampleRate: encoding.SampleRate,
		encoding:   encoding.Format.Name(),
		model:      model,
		language:   language,

		websocketConfig: wsConfig,
	})
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	s.conn = conn
	go s.readAndProcessMessages(ctx, conn, options.EncodingInfo, callbacks)

	return nil
}

type transcriptionCallbacks struct {
	partialInterimTranscriptionCallback func(transcript string)
	interimTranscriptionCallback        func(transcript string)
	partialTranscriptionCallback        func(transcript string)
	transcriptionCallback               func(transcript string)
	startSpeechCallback                 func()
	endSpeechCallback                   func()

	accumulateTranscripts  bool
	preferPartialInterim   bool
	wantsInterimTranscript bool
}

type websocketConfig struct {
	shouldDetectSpeechStart            bool
	shouldEnhanceSpeechEndingDetection bool
	shouldRequestInterimResults        bool
}

// newCallbackConfig replaces unset callbacks with noops so the message loop
// can call them unconditionally, and derives the websocket features the
// configured callbacks need.
func newCallbackConfig(options speechtotext.TranscriptionOptions) (transcriptionCallbacks, websocketConfig) {
	callbacks := transcriptionCallbacks{
		partialInterimTranscriptionCallback: func(string) {},
		interimTranscriptionCallback:        func(string) {},
		partialTranscriptionCallback:        func(string) {},
		transcriptionCallback:               func(string) {},
		startSpeechCallback:                 func() {},
		endSpeechCallback:                   func() {},
	}

	if options.PartialInterimTranscriptionCallback != nil {
		callbacks.partialInterimTranscriptionCallback = options.PartialInterimTranscriptionCallback
		callbacks.preferPartialInterim = true
	}
	if options.InterimTranscriptionCallback != nil {
		callbacks.interimTranscriptionCallback = options.InterimTranscriptionCallback
		callbacks.wantsInterimTranscript = true
	}
	if options.PartialTranscriptionCallback != nil {
		callbacks.partialTranscriptionCallback = options.PartialTranscriptionCallback
	}
	if options.TranscriptionCallback != nil {
		callbacks.transcriptionCallback = options.TranscriptionCallback
		callbacks.accumulateTranscripts = true
	}
	if options.SpeechStartedCallback != nil {
		callbacks.startSpeechCallback = options.SpeechStartedCallback
	}
	if options.SpeechEndedCallback != nil {
		callbacks.endSpeechCallback = options.SpeechEndedCallback
	}

	return callbacks, websocketConfig{
		shouldDetectSpeechStart: options.SpeechStartedCallback != nil,
		shouldEnhanceSpeechEndingDetection: options.TranscriptionCallback != nil ||
			options.SpeechEndedCallback != nil,
		shouldRequestInterimResults: options.InterimTranscriptionCallback != nil ||
			options.PartialInterimTranscriptionCallback != nil,
	}
}

type connectionOptions struct {
	sampleRate int
	encoding   string
	model      string
	language   string

	websocketConfig
}

func (s *TranscriptionClient) connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	apiKey := s.apiKey
	if apiKey == "" {
		key, ok := os.LookupEnv("DEEPGRAM_API_KEY")
		if !ok {
			return nil, fmt.Errorf("deepgram api key not found")
		}
		apiKey = key
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", options.model)
	queryParams.Set("language", options.language)
	queryParams.Set("smart_format", "true")
	if options.shouldEnhanceSpeechEndingDetection {
		queryParams.Set("utterance_end_ms", "1000")
		queryParams.Set("interim_results", "true")
	} else if options.shouldRequestInterimResults {
		queryParams.Set("interim_results", "true")
	}
	queryParams.Set("endpointing", "300")
	if options.shouldDetectSpeechStart || options.shouldEnhanceSpeechEndingDetection {
		queryParams.Set("vad_events", "true")
	}

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, err
}

func (s *TranscriptionClient) sendKeepAlive() {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := s.conn.WriteJSON(
		struct {
			Type string `json:"type"`
		}{
			Type: "KeepAlive",
		}); err != nil {
		log.Println("Failed to write to deepgram client", "error", err)
	}
}

func (s *TranscriptionClient) SendAudio(audio []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	s.lastMsgTs = time.Now()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (s *TranscriptionClient) sendSilence(audio []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (s *TranscriptionClient) StopStream() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn != nil {
		if err := s.conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
			return fmt.Errorf("failed to close deepgram stream through websocket: %w", err)
		}
	}
	return nil
}

func (s *TranscriptionClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, encoding audio.EncodingInfo, callbacks transcriptionCallbacks) {
	silenceCtx, silenceCancel := context.WithCancel(ctx)
	defer silenceCancel()

	go s.generateSilence(silenceCtx, encoding)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" {
				log.Println("Failed to read deepgram websocket message", "error", err)
			}

			s.conn = nil
			conn.Close()
			return
		}
		if msgType != websocket.BinaryMessage {
			go s.processMessage(ctx, msg, callbacks)
		}
	}
}

func (s *TranscriptionClient) processMessage(_ context.Context, msg []byte, callbacks transcriptionCallbacks) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	err := json.Unmarshal(msg, &parsedMsg)
	if err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}
		if msgResp.IsFinal {
			if len(msgResp.Channel.Alternatives) > 0 {
				transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
				if len(transcript) > 0 {
					if callbacks.accumulateTranscripts {
						s.accumulatedTranscript += " " + transcript
					}
					callbacks.partialTranscriptionCallback(transcript)
				}
			}
			if msgResp.SpeechFinal {
				s.onSpeechEnded(callbacks)
			}
		}
		if !msgResp.IsFinal {
			if len(msgResp.Channel.Alternatives) > 0 {
				transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
				if len(transcript) > 0 {
					if callbacks.preferPartialInterim {
						callbacks.partialInterimTranscriptionCallback(transcript)
					} else if callbacks.wantsInterimTranscript {
						callbacks.interimTranscriptionCallback(s.accumulatedTranscript + " " + transcript)
					}
				}
			}
		}

	case api.TypeUtteranceEndResponse:
		var msgResp api.UtteranceEndResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		if s.unendedSegment {
			s.onSpeechEnded(callbacks)
		}
	case api.TypeSpeechStartedResponse:
		var msgResp api.SpeechStartedResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		s.unendedSegment = true
		callbacks.startSpeechCallback()
	}
}

func (s *TranscriptionClient) onSpeechEnded(callbacks transcriptionCallbacks) {
	s.unendedSegment = false
	if callbacks.accumulateTranscripts {
		fullTranscript := strings.TrimSpace(s.accumulatedTranscript)
		s.accumulatedTranscript = ""
		if len(fullTranscript) > 0 {
			callbacks.transcriptionCallback(fullTranscript)
		}
	}
	callbacks.endSpeechCallback()
}

// generateSilence keeps the socket fed while the microphone is quiet.
// Deepgram drops connections that stay idle, so after 50ms without audio it
// sends silence chunks, and after a second of that it degrades to periodic
// KeepAlive messages.
func (s *TranscriptionClient) generateSilence(ctx context.Context, encoding audio.EncodingInfo) {
	type silenceGeneratorState string
	const (
		silenceGeneratorStateWaiting   silenceGeneratorState = "waiting"
		silenceGeneratorStateSilence   silenceGeneratorState = "silence"
		silenceGeneratorStateKeepAlive silenceGeneratorState = "keepAlive"
	)

	const durationMs = 50
	ticker := time.NewTicker(durationMs * time.Millisecond)

	chunk := encoding.Silence(durationMs * time.Millisecond)

	var state = silenceGeneratorStateWaiting
	var firstSilenceTime *time.Time
	var lastKeepAliveTime *time.Time
	for {
		select {
		case <-ctx.Done():
			ticker.Stop()
			return
		case <-ticker.C:
			switch state {
			case silenceGeneratorStateWaiting:
				if time.Since(s.lastMsgTs).Milliseconds() > 50 {
					state = silenceGeneratorStateSilence
					firstSilenceTime = utils.Ptr(time.Now())
					continue
				}

			case silenceGeneratorStateSilence:
				if time.Since(s.lastMsgTs).Milliseconds() < 50 {
					state = silenceGeneratorStateWaiting
					firstSilenceTime = nil
					continue
				}
				if time.Since(*firstSilenceTime).Milliseconds() >= 1000 {
					state = silenceGeneratorStateKeepAlive
					lastKeepAliveTime = utils.Ptr(time.Now())
					firstSilenceTime = nil
					continue
				}

				if err := s.sendSilence(chunk); err != nil {
					log.Println("Sending silence audio error", err)
				}

			case silenceGeneratorStateKeepAlive:
				if time.Since(s.lastMsgTs).Milliseconds() < 50 {
					state = silenceGeneratorStateWaiting
					continue
				}

				if time.Since(*lastKeepAliveTime).Seconds() >= 5 {
					lastKeepAliveTime = utils.Ptr(time.Now())
					s.sendKeepAlive()
				}
			}
		}
	}
}
