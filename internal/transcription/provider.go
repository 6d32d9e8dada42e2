package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error)
	Name() string  // "whisperx", "openai"
	Model() string // model identifier for history and logs
}

// Options are per-request settings shared by every backend.
type Options struct {
	// Language is an ISO 639-1 code; empty lets the backend detect it.
	Language string
	// WorkDir receives intermediate backend output.
	WorkDir string
}

// Segment is a timestamped span of transcribed speech.
type Segment struct {
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}

// Result is the common transcription result from any provider.
type Result struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// FullText returns Text when the backend supplied it, otherwise the trimmed
// segment texts joined by single spaces.
func (r Result) FullText() string {
	if strings.TrimSpace(r.Text) != "" {
		return r.Text
	}
	parts := make([]string, 0, len(r.Segments))
	for _, seg := range r.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Duration returns the largest segment end time in seconds.
func (r Result) Duration() float64 {
	var last float64
	for _, seg := range r.Segments {
		if seg.End > last {
			last = seg.End
		}
	}
	return last
}

// ParseResult decodes a whisper-style JSON document.
func ParseResult(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("parse transcription json: %w", err)
	}
	return result, nil
}

// LoadResult reads and decodes a whisper-style JSON file.
func LoadResult(path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return ParseResult(data)
}
