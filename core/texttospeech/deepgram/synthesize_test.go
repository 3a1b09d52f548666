package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio"
)

func TestSynthesizeSendsTextAndReturnsClip(t *testing.T) {
	expectedClip := []byte{0x01, 0x02, 0x03, 0x04}

	var gotAuth string
	var gotQuery url.Values
	var gotBody struct {
		Text string `json:"text"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		_, _ = w.Write(expectedClip)
	}))
	defer server.Close()

	client, err := NewTextToSpeechClient(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
		WithVoice(VoiceCelesteEs),
		WithEncodingInfo(audio.EncodingInfo{SampleRate: 16000, Format: audio.EncodingLinear16}),
	)
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}

	clip, err := client.Synthesize(context.Background(), "hola mundo")
	if err != nil {
		t.Fatalf("expected clip, got error: %v", err)
	}

	if !bytes.Equal(clip, expectedClip) {
		t.Fatalf("expected clip %v, got %v", expectedClip, clip)
	}
	if gotAuth != "Token test-key" {
		t.Fatalf("expected token auth header, got %q", gotAuth)
	}
	if gotBody.Text != "hola mundo" {
		t.Fatalf("expected text in request body, got %q", gotBody.Text)
	}
	if gotQuery.Get("model") != string(VoiceCelesteEs) {
		t.Fatalf("expected voice in query, got %q", gotQuery.Get("model"))
	}
	if gotQuery.Get("encoding") != "linear16" || gotQuery.Get("sample_rate") != "16000" {
		t.Fatalf("unexpected encoding query: %v", gotQuery)
	}
	if gotQuery.Get("container") != "none" {
		t.Fatalf("expected raw container, got %q", gotQuery.Get("container"))
	}
}

func TestSynthesizeReturnsErrorOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err_msg":"bad request"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewTextToSpeechClient(WithAPIKey("test-key"), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}

	if _, err := client.Synthesize(context.Background(), "hola"); err == nil {
		t.Fatalf("expected error on non-OK status")
	}
}

func TestNewTextToSpeechClientRejectsUnknownVoice(t *testing.T) {
	if _, err := NewTextToSpeechClient(WithAPIKey("test-key"), WithVoice("aura-2-unknown-xx")); err == nil {
		t.Fatalf("expected error for unknown voice")
	}
}
