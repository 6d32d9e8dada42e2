package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"qascribe/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HF_TOKEN", "HUGGING_FACE_HUB_TOKEN", "QASCRIBE_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "qascribe", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if want := filepath.Join(tempHome, ".local", "share", "qascribe"); cfg.Paths.StateDir != want {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, want)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected no log dir by default, got %q", cfg.Paths.LogDir)
	}
	if cfg.Transcription.Backend != config.BackendWhisperX || cfg.Transcription.Model != "medium" {
		t.Fatalf("unexpected transcription defaults: %+v", cfg.Transcription)
	}
	if cfg.Transcription.CUDAEnabled {
		t.Fatal("expected CUDA disabled by default")
	}
	if cfg.Transcription.VADMethod != "silero" {
		t.Fatalf("expected silero VAD, got %q", cfg.Transcription.VADMethod)
	}
	if !cfg.Subtitles.SRT || !cfg.Subtitles.VTT {
		t.Fatal("expected both subtitle formats enabled by default")
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.HistoryPath() != filepath.Join(cfg.Paths.StateDir, "history.db") {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
	if cfg.LockDir() != filepath.Join(cfg.Paths.StateDir, "locks") {
		t.Fatalf("unexpected lock dir %q", cfg.LockDir())
	}
	if cfg.Cleaning.Rule != "default" {
		t.Fatalf("unexpected cleaning rule %q", cfg.Cleaning.Rule)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.StateDir); err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "qascribe.toml")

	type payload struct {
		Transcription struct {
			Backend string `toml:"backend"`
			APIURL  string `toml:"api_url"`
			APIKey  string `toml:"api_key"`
		} `toml:"transcription"`
		Cleaning struct {
			Rule string `toml:"rule"`
		} `toml:"cleaning"`
		Subtitles struct {
			VTT bool `toml:"vtt"`
			SRT bool `toml:"srt"`
		} `toml:"subtitles"`
		History struct {
			Path string `toml:"path"`
		} `toml:"history"`
	}
	custom := payload{}
	custom.Transcription.Backend = " OpenAI "
	custom.Transcription.APIURL = "http://localhost:8000/v1/audio/transcriptions"
	custom.Transcription.APIKey = "file-key"
	custom.Cleaning.Rule = "Unicode"
	custom.Subtitles.SRT = true
	custom.History.Path = filepath.Join(tempDir, "runs.db")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q %v", resolved, exists)
	}
	if cfg.Transcription.Backend != config.BackendOpenAI {
		t.Fatalf("expected normalized backend, got %q", cfg.Transcription.Backend)
	}
	if cfg.Transcription.Model != "whisper-1" {
		t.Fatalf("expected API default model, got %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.APIKey != "file-key" {
		t.Fatalf("expected API key from file, got %q", cfg.Transcription.APIKey)
	}
	if cfg.Cleaning.Rule != "unicode" {
		t.Fatalf("expected normalized rule, got %q", cfg.Cleaning.Rule)
	}
	if cfg.Subtitles.VTT {
		t.Fatal("expected VTT disabled by file")
	}
	if cfg.HistoryPath() != custom.History.Path {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
}

func TestEnvFallbacksFillMissingSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("HF_TOKEN", "env-hf")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.APIKey != "env-openai" {
		t.Fatalf("expected API key from env, got %q", cfg.Transcription.APIKey)
	}
	if cfg.Transcription.HFToken != "env-hf" {
		t.Fatalf("expected HF token from env, got %q", cfg.Transcription.HFToken)
	}

	t.Setenv("QASCRIBE_API_KEY", "env-qascribe")
	cfg, _, _, err = config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.APIKey != "env-qascribe" {
		t.Fatalf("expected QASCRIBE_API_KEY to take precedence, got %q", cfg.Transcription.APIKey)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"backend":       "[transcription]\nbackend = \"kaldi\"\n",
		"vad":           "[transcription]\nvad_method = \"webrtc\"\n",
		"api url":       "[transcription]\nbackend = \"openai\"\napi_url = \"not a url\"\n",
		"rule":          "[cleaning]\nrule = \"nltk\"\n",
		"pattern":       "[cleaning]\npattern = '[.!?]\\s+[A-Z]'\n",
		"bad pattern":   "[cleaning]\npattern = '('\n",
		"log level":     "[logging]\nlevel = \"verbose\"\n",
		"language":      "[transcription]\nlanguage = \"klingon please\"\n",
		"unknown field": "[transcription]\nmodle = \"small\"\n",
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, _, _, err := config.Load(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestCustomPatternAccepted(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cleaning]\npattern = '[.!?;](\\s+)\\p{Lu}'\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Cleaning.Pattern != `[.!?;](\s+)\p{Lu}` {
		t.Fatalf("unexpected pattern %q", cfg.Cleaning.Pattern)
	}
}

func TestSampleConfigLoads(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Transcription.Model != "medium" {
		t.Fatalf("unexpected model %q", cfg.Transcription.Model)
	}
	if !strings.Contains(config.SampleConfig(), "[cleaning]") {
		t.Fatal("sample config should document the cleaning section")
	}
}
