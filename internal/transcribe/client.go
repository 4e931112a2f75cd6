// Package transcribe uploads finished recordings to the transcription
// server and returns the recognized text.
//
// The server exposes POST {base}/api/transcribe taking a multipart form
// with the audio under the "audio" field, an optional "model" tier and an
// optional "vad_speech_threshold". The response carries both the raw
// recognition result and the server-side processed text.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNoSpeech is returned when the server detected no speech in the upload.
var ErrNoSpeech = errors.New("no speech detected")

// Model tiers offered by the server.
const (
	ModelFast  = "fast"
	ModelSmart = "smart"
)

// Response is the server's transcription result.
type Response struct {
	// Text is the processed text with server-side replacements applied.
	Text string `json:"text"`

	// RawText is the unmodified recognition output.
	RawText string `json:"raw_text"`
}

// Options configures a Client.
type Options struct {
	// BaseURL is the server base URL, e.g. "http://127.0.0.1:4242".
	BaseURL string

	// Token is the bearer token, empty for unauthenticated servers.
	Token string

	// Model selects the tier, ModelFast or ModelSmart.
	Model string

	// VADThreshold overrides the server's voice activity threshold when > 0.
	VADThreshold float64

	// Timeout bounds each request.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts for failed requests.
	MaxRetries int

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client

	// Logger receives request lifecycle events.
	Logger *slog.Logger
}

// Client performs transcription uploads.
type Client struct {
	opts Options
	http *http.Client
	log  *slog.Logger
}

// New creates a transcription client.
func New(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = ModelFast
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{opts: opts, http: httpClient, log: opts.Logger}
}

// Transcribe uploads the WAV file and returns the server's result.
// Failed requests are retried with exponential backoff; an empty
// transcription maps to ErrNoSpeech.
func (c *Client) Transcribe(ctx context.Context, wavPath string) (Response, error) {
	if c.opts.BaseURL == "" {
		return Response{}, errors.New("transcription server URL not configured")
	}

	delay := time.Second
	var lastErr error

	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			c.log.Debug("retrying transcription", "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Response{}, ctx.Err()
			}
			delay *= 2
		}

		resp, err := c.upload(ctx, wavPath)
		if err == nil {
			if resp.Text == "" && resp.RawText == "" {
				return resp, ErrNoSpeech
			}
			return resp, nil
		}
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		lastErr = err
	}

	return Response{}, fmt.Errorf("transcription failed after %d attempts: %w", c.opts.MaxRetries+1, lastErr)
}

func (c *Client) upload(ctx context.Context, wavPath string) (Response, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return Response{}, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio", filepath.Base(wavPath))
	if err != nil {
		return Response{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return Response{}, fmt.Errorf("read recording: %w", err)
	}

	if err := writer.WriteField("model", c.opts.Model); err != nil {
		return Response{}, fmt.Errorf("write form field: %w", err)
	}
	if c.opts.VADThreshold > 0 {
		v := strconv.FormatFloat(c.opts.VADThreshold, 'f', -1, 64)
		if err := writer.WriteField("vad_speech_threshold", v); err != nil {
			return Response{}, fmt.Errorf("write form field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return Response{}, fmt.Errorf("finalize form: %w", err)
	}

	url := strings.TrimSuffix(c.opts.BaseURL, "/") + "/api/transcribe"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return Response{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}
	req.Header.Set("User-Agent", "voxtyped/1.0")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("transcription request done",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("server returned %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
