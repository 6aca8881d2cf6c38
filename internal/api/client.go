package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"quicknote/internal/domain/note"
	"quicknote/internal/domain/speech"
	"quicknote/internal/domain/voice"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	voicesPath  = "/api/tts-voices"
	processPath = "/api/process"
	ttsPath     = "/api/tts"
)

// StatusError is returned for any non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s: %s", e.StatusCode, e.Status, e.Body)
}

// Client talks to the QuickNote backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. A zero timeout
// leaves requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type processRequest struct {
	Text string `json:"text"`
}

type ttsRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
	Rate    string `json:"rate"`
}

// Voices fetches the voice catalog.
func (c *Client) Voices(ctx context.Context) ([]voice.Voice, error) {
	var voices []voice.Voice
	if err := c.doJSON(ctx, http.MethodGet, voicesPath, nil, &voices); err != nil {
		return nil, fmt.Errorf("failed to fetch voices: %w", err)
	}

	logrus.WithField("voices", len(voices)).Debug("Fetched voice catalog")
	return voices, nil
}

// Process submits text for summarization and action item extraction.
func (c *Client) Process(ctx context.Context, text string) (*note.Result, error) {
	var result note.Result
	if err := c.doJSON(ctx, http.MethodPost, processPath, processRequest{Text: text}, &result); err != nil {
		return nil, fmt.Errorf("failed to process text: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"summary_length": len(result.Summary),
		"action_items":   len(result.ActionItems),
	}).Debug("Processed text")
	return &result, nil
}

// Synthesize asks the backend to read text aloud and returns the audio payload.
// The rate travels as a string, the way the slider reports it.
func (c *Client) Synthesize(ctx context.Context, req speech.Request) (*speech.Audio, error) {
	body := ttsRequest{
		Text:    req.Text,
		VoiceID: req.VoiceID,
		Rate:    strconv.Itoa(req.Rate),
	}

	resp, err := c.do(ctx, http.MethodPost, ttsPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to generate audio: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"voice": req.VoiceID,
		"rate":  req.Rate,
		"bytes": len(data),
	}).Debug("Synthesized audio")

	return &speech.Audio{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// do sends the request and returns the response only for 2xx statuses.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	return resp, nil
}
