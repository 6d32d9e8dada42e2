package whisperapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qascribe/internal/language"
	"qascribe/internal/logging"
	"qascribe/internal/services"
	"qascribe/internal/transcription"
)

const component = "whisperapi"

// DefaultModel is the hosted model name used when none is configured.
const DefaultModel = "whisper-1"

// maxErrorBody caps how much of a failed response ends up in the error.
const maxErrorBody = 512

// Config describes the endpoint and credentials.
type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is a transcription.Provider backed by an HTTP endpoint.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

type verboseResponse struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
	Segments []segment `json:"segments"`
}

type segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// NewClient creates a client for cfg.URL.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logging.NewComponentLogger(logger, component),
	}
}

// WithHTTPClient replaces the underlying HTTP client (for testing).
func (c *Client) WithHTTPClient(client *http.Client) {
	if client != nil {
		c.client = client
	}
}

// Name identifies the backend.
func (c *Client) Name() string { return "openai" }

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.cfg.Model }

// Transcribe uploads audioPath as multipart form data and returns the segments.
func (c *Client) Transcribe(ctx context.Context, audioPath string, opts transcription.Options) (transcription.Result, error) {
	if strings.TrimSpace(c.cfg.URL) == "" {
		return transcription.Result{}, services.Wrap(services.ErrConfiguration, component, "transcribe", "api url not configured", nil)
	}
	f, err := os.Open(audioPath)
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrResource, component, "transcribe", "open audio file", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrResource, component, "transcribe", "create form file", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return transcription.Result{}, services.Wrap(services.ErrResource, component, "transcribe", "copy audio data", err)
	}
	fields := [][2]string{
		{"model", c.cfg.Model},
		{"response_format", "verbose_json"},
		{"timestamp_granularities[]", "segment"},
	}
	if iso := language.ToISO2(opts.Language); iso != "" {
		fields = append(fields, [2]string{"language", iso})
	}
	for _, field := range fields {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return transcription.Result{}, services.Wrap(services.ErrResource, component, "transcribe", "write form field "+field[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return transcription.Result{}, services.Wrap(services.ErrResource, component, "transcribe", "close multipart body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, &buf)
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrConfiguration, component, "transcribe", "create request", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	logger := logging.WithContext(ctx, c.logger)
	start := time.Now()
	logger.Info("transcription request sent",
		logging.String("model", c.cfg.Model),
		logging.Int("bytes", buf.Len()),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, component, "transcribe", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, component, "transcribe", "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, component, "transcribe",
			fmt.Sprintf("api error (status %d): %s", resp.StatusCode, truncate(strings.TrimSpace(string(body)), maxErrorBody)), nil)
	}

	var parsed verboseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, component, "transcribe", "decode response", err)
	}

	result := transcription.Result{
		Text:     parsed.Text,
		Language: language.ToISO2(parsed.Language),
		Segments: make([]transcription.Segment, 0, len(parsed.Segments)),
	}
	for _, seg := range parsed.Segments {
		result.Segments = append(result.Segments, transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	logger.Info("transcription response received",
		logging.Int("segments", len(result.Segments)),
		logging.Float64("audio_seconds", parsed.Duration),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}
