// Package speech provides the HTTP client for the remote speech-to-text
// service. One audio payload in, one transcript out; retry policy belongs to
// callers, not this client.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DefaultTimeout bounds a transcription call when the caller's context does
// not carry a tighter deadline.
const DefaultTimeout = 12 * time.Second

// transcribeResponse is the service's wire format.
type transcribeResponse struct {
	Transcript string `json:"transcript"`
	Error      string `json:"error,omitempty"`
}

// Client talks to the speech-to-text service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Transcribe uploads audio bytes and returns the transcript text. An empty
// transcript from the service is reported as an error so callers never treat
// silence as a usable narrative.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("audio", "narrative.wav")
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transcribe", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcription response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription service returned %d: %s", resp.StatusCode, payload)
	}

	var decoded transcribeResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("transcription service error: %s", decoded.Error)
	}
	if decoded.Transcript == "" {
		return "", fmt.Errorf("transcription service returned empty transcript")
	}

	return decoded.Transcript, nil
}
