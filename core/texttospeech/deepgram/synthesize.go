package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Synthesize renders text as one complete clip in the client's encoding.
func (c *TextToSpeechClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	reqBody, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("error marshalling JSON: %w", err)
	}

	speakUrl, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	queryParams := speakUrl.Query()
	queryParams.Set("model", string(c.voice))
	queryParams.Set("encoding", c.encodingInfo.Format.Name())
	queryParams.Set("sample_rate", strconv.Itoa(c.encodingInfo.SampleRate))
	queryParams.Set("container", "none")
	speakUrl.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, "POST", speakUrl.String(), bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("non-OK HTTP status: %s: %s", resp.Status, strings.TrimSpace(string(errorBody)))
	}

	clip, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading audio response: %w", err)
	}

	return clip, nil
}
