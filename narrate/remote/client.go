// Package remote calls the hosted text-to-speech collaborator. The service
// is an opaque boundary: it either returns a base64-encoded PCM payload or
// nothing, and any transport failure is reported the same way a provider
// error is.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
)

// ErrRemoteCall indicates a transport or provider failure. Callers treat it
// like an empty synthesis result and move to the next fallback tier.
var ErrRemoteCall = errors.New("remote synthesis call failed")

// Client talks to the remote synthesis endpoint with a fixed voice.
type Client struct {
	endpoint   string
	voice      string
	httpClient *http.Client
}

type synthesisRequest struct {
	Text      string `json:"text"`
	Voice     string `json:"voice"`
	AudioOnly bool   `json:"audioOnly"`
}

type synthesisResponse struct {
	Audio string `json:"audio"`
}

// NewClient creates a synthesis client. No request deadline is set here;
// the serverless boundary enforces its own, and a timeout surfaces like any
// other transport failure.
func NewClient(endpoint, voice string) *Client {
	return &Client{
		endpoint:   endpoint,
		voice:      voice,
		httpClient: &http.Client{},
	}
}

// Synthesize requests audio for text. It returns the base64 payload, or an
// empty string when the provider produced no audio (a soft outcome, not an
// error). Transport failures, non-2xx responses, and malformed bodies all
// wrap ErrRemoteCall.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	body, err := sonic.Marshal(synthesisRequest{
		Text:      text,
		Voice:     c.voice,
		AudioOnly: true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrRemoteCall, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteCall, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteCall, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d", ErrRemoteCall, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrRemoteCall, err)
	}

	var parsed synthesisResponse
	if err := sonic.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed response body: %v", ErrRemoteCall, err)
	}

	if parsed.Audio == "" {
		log.Debug("remote synthesis returned no audio", "voice", c.voice, "text_len", len(text))
	}
	return parsed.Audio, nil
}
