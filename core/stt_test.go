package orchestration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/events"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/speechtotext"
)

type speechToTextClientStub struct {
	mu            sync.Mutex
	options       speechtotext.TranscriptionOptions
	sent          [][]byte
	transcribeErr error
}

func (s *speechToTextClientStub) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var options speechtotext.TranscriptionOptions
	for _, opt := range opts {
		opt(&options)
	}
	s.options = options
	return s.transcribeErr
}

func (s *speechToTextClientStub) SendAudio(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, audio)
	return nil
}

func (s *speechToTextClientStub) capturedOptions() speechtotext.TranscriptionOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

type stoppableSpeechToTextStub struct {
	speechToTextClientStub
	stopErr error
	stopped int
	closed  int
}

func (s *stoppableSpeechToTextStub) StopStream() error {
	s.stopped++
	return s.stopErr
}

func (s *stoppableSpeechToTextStub) Close() error {
	s.closed++
	return nil
}

type contextClosableSpeechToTextStub struct {
	speechToTextClientStub
	closed int
}

func (s *contextClosableSpeechToTextStub) Close(context.Context) error {
	s.closed++
	return nil
}

func TestSpeechToTextWiresTranscriptionCallbacks(t *testing.T) {
	client := &speechToTextClientStub{}
	recorder := &eventRecorder{}

	stt := newSpeechToText(client)
	stt.SetEventEmitter(recorder.record)

	var started, ended int
	var transcripts []string
	callbacks := speechToTextCallbacks{
		onSpeechStarted: func() { started++ },
		onSpeechEnded:   func() { ended++ },
		onTranscription: func(transcript string) { transcripts = append(transcripts, transcript) },
	}

	encoding := audio.EncodingInfo{SampleRate: 8000, Format: audio.EncodingMulaw}
	if err := stt.Start(context.Background(), callbacks, &encoding); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	options := client.capturedOptions()
	if options.EncodingInfo != encoding {
		t.Fatalf("expected encoding info to be forwarded, got %+v", options.EncodingInfo)
	}
	if options.SpeechStartedCallback == nil || options.SpeechEndedCallback == nil ||
		options.InterimTranscriptionCallback == nil || options.TranscriptionCallback == nil {
		t.Fatal("expected all transcription callbacks to be registered")
	}

	options.SpeechStartedCallback()
	options.SpeechEndedCallback()
	options.InterimTranscriptionCallback("Ho")
	options.TranscriptionCallback("Hola")

	if started != 1 || ended != 1 {
		t.Fatalf("expected 1 speech started and 1 speech ended, got %d and %d", started, ended)
	}
	if len(transcripts) != 1 || transcripts[0] != "Hola" {
		t.Fatalf("expected the final transcript to reach the callback, got %v", transcripts)
	}
	if count := recorder.countKind(events.KindUserSpeechStarted); count != 1 {
		t.Fatalf("expected 1 speech started event, got %d", count)
	}
	if count := recorder.countKind(events.KindUserSpeechEnded); count != 1 {
		t.Fatalf("expected 1 speech ended event, got %d", count)
	}
}

func TestSpeechToTextClearsInterimBeforeFinalTranscript(t *testing.T) {
	client := &speechToTextClientStub{}
	recorder := &eventRecorder{}

	stt := newSpeechToText(client)
	stt.SetEventEmitter(recorder.record)
	if err := stt.Start(context.Background(), speechToTextCallbacks{}, nil); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	options := client.capturedOptions()
	options.InterimTranscriptionCallback("Ho")
	options.TranscriptionCallback("Hola")

	var transcripts []string
	for _, event := range recorder.all() {
		switch e := event.(type) {
		case events.UserTranscriptInterim:
			transcripts = append(transcripts, "interim:"+e.Transcript)
		case events.UserTranscriptFinal:
			transcripts = append(transcripts, "final:"+e.Transcript)
		}
	}

	expected := []string{"interim:Ho", "interim:", "final:Hola"}
	if len(transcripts) != len(expected) {
		t.Fatalf("expected %d transcript events, got %v", len(expected), transcripts)
	}
	for i, want := range expected {
		if transcripts[i] != want {
			t.Fatalf("expected transcript event %d to be %q, got %q", i, want, transcripts[i])
		}
	}
}

func TestSpeechToTextStartWrapsClientFailure(t *testing.T) {
	clientErr := errors.New("websocket refused")
	stt := newSpeechToText(&speechToTextClientStub{transcribeErr: clientErr})

	err := stt.Start(context.Background(), speechToTextCallbacks{}, nil)
	if !errors.Is(err, clientErr) {
		t.Fatalf("expected the client failure to be wrapped, got %v", err)
	}
}

func TestSpeechToTextWithoutClientNoOps(t *testing.T) {
	stt := newSpeechToText(nil)

	if err := stt.Start(context.Background(), speechToTextCallbacks{}, nil); err != nil {
		t.Fatalf("expected start without a client to no-op, got %v", err)
	}
	if err := stt.SendAudio([]byte{1, 2}); err != nil {
		t.Fatalf("expected send without a client to no-op, got %v", err)
	}
	if err := stt.Close(context.Background()); err != nil {
		t.Fatalf("expected close without a client to no-op, got %v", err)
	}
}

func TestSpeechToTextSendAudioForwardsToClient(t *testing.T) {
	client := &speechToTextClientStub{}
	stt := newSpeechToText(client)

	if err := stt.SendAudio([]byte{9, 9, 9}); err != nil {
		t.Fatalf("expected send audio to succeed, got %v", err)
	}
	if len(client.sent) != 1 || len(client.sent[0]) != 3 {
		t.Fatalf("expected the audio to reach the client, got %v", client.sent)
	}
}

func TestSpeechToTextClosePrefersStopStream(t *testing.T) {
	client := &stoppableSpeechToTextStub{}
	stt := newSpeechToText(client)

	if err := stt.Close(context.Background()); err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}
	if client.stopped != 1 {
		t.Fatalf("expected StopStream to be called once, got %d", client.stopped)
	}
	if client.closed != 0 {
		t.Fatalf("expected Close not to be called when StopStream exists, got %d", client.closed)
	}
}

func TestSpeechToTextCloseFallsBackToContextClose(t *testing.T) {
	client := &contextClosableSpeechToTextStub{}
	stt := newSpeechToText(client)

	if err := stt.Close(context.Background()); err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}
	if client.closed != 1 {
		t.Fatalf("expected the context close to be called once, got %d", client.closed)
	}
}

func TestSpeechToTextCloseWrapsStopFailure(t *testing.T) {
	stopErr := errors.New("stream already gone")
	client := &stoppableSpeechToTextStub{stopErr: stopErr}
	stt := newSpeechToText(client)

	if err := stt.Close(context.Background()); !errors.Is(err, stopErr) {
		t.Fatalf("expected the stop failure to be wrapped, got %v", err)
	}
}

func TestSpeechToTextNilEmitterFallsBackToNoop(t *testing.T) {
	client := &speechToTextClientStub{}
	stt := newSpeechToText(client)
	stt.SetEventEmitter(nil)

	if err := stt.Start(context.Background(), speechToTextCallbacks{}, nil); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}

	// Must not panic without an emitter.
	options := client.capturedOptions()
	options.SpeechStartedCallback()
	options.TranscriptionCallback("Hola")
}
