package transcription

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFullTextPrefersBackendText(t *testing.T) {
	r := Result{Text: " Who are you? I am Sam.", Segments: []Segment{{Text: "ignored"}}}
	if got := r.FullText(); got != " Who are you? I am Sam." {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestFullTextJoinsSegments(t *testing.T) {
	r := Result{Segments: []Segment{
		{Start: 0, End: 1.5, Text: " Who are you?"},
		{Start: 1.5, End: 1.6, Text: "   "},
		{Start: 1.6, End: 3.25, Text: " I am Sam. "},
	}}
	if got := r.FullText(); got != "Who are you? I am Sam." {
		t.Fatalf("unexpected text %q", got)
	}
	if got := r.Duration(); got != 3.25 {
		t.Fatalf("unexpected duration %v", got)
	}
}

func TestLoadResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.json")
	payload := `{"language":"en","segments":[{"start":0.0,"end":2.5,"text":" Hello there.","words":[{"word":"Hello","start":0.0,"end":0.4}]}]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	result, err := LoadResult(path)
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}
	if result.Language != "en" || len(result.Segments) != 1 || result.Segments[0].End != 2.5 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.FullText() != "Hello there." {
		t.Fatalf("unexpected full text %q", result.FullText())
	}
}

func TestLoadResultErrors(t *testing.T) {
	if _, err := LoadResult(""); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist for empty path, got %v", err)
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if _, err := LoadResult(path); err == nil {
		t.Fatal("expected parse error")
	}
}
