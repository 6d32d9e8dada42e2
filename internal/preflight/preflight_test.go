package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"qascribe/internal/config"
	"qascribe/internal/deps"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestModelsURL(t *testing.T) {
	cases := map[string]string{
		"https://api.openai.com/v1/audio/transcriptions":  "https://api.openai.com/v1/models",
		"http://localhost:8000/v1/audio/transcriptions/ ": "http://localhost:8000/v1/models",
		"http://localhost:9000/asr":                       "http://localhost:9000/asr",
	}
	for in, want := range cases {
		if got := ModelsURL(in); got != want {
			t.Fatalf("ModelsURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheckEndpoint_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckEndpoint(context.Background(), srv.URL+"/v1/audio/transcriptions", "good-key")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckEndpoint_BadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	result := CheckEndpoint(context.Background(), srv.URL+"/v1/audio/transcriptions", "bad-key")
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
	if result.Detail != "auth failed (invalid api key)" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckEndpoint_MissingValues(t *testing.T) {
	if result := CheckEndpoint(context.Background(), "", "key"); result.Passed {
		t.Fatal("expected failure for missing URL")
	}
	if result := CheckEndpoint(context.Background(), "http://localhost", ""); result.Passed {
		t.Fatal("expected failure for missing key")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, ""); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_OpenAIBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Transcription.Backend = config.BackendOpenAI
	cfg.Transcription.APIURL = srv.URL + "/v1/audio/transcriptions"
	cfg.Transcription.APIKey = "test"

	results := RunAll(context.Background(), &cfg, t.TempDir())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}
	if failed := Failures(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_WhisperXReportsMissingUVX(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg := config.Default()
	cfg.History.Enabled = false

	results := RunAll(context.Background(), &cfg, "")
	failed := Failures(results)
	if len(failed) != 1 || failed[0].Name != "uvx" {
		t.Fatalf("expected only uvx to fail, got %+v", results)
	}
}

func TestFromStatusOptional(t *testing.T) {
	result := fromStatus(deps.Status{Name: "FFmpeg", Optional: true, Detail: "binary \"ffmpeg\" not found"})
	if !result.Passed {
		t.Fatal("optional dependency should not fail preflight")
	}
}
