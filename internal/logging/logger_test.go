package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qascribe/internal/config"
	"qascribe/internal/logging"
	"qascribe/internal/services"
)

func newFileLogger(t *testing.T, format, level string) (string, func() string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := logging.New(logging.Options{
		Format:      format,
		Level:       level,
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithStage(services.WithRunID(context.Background(), "run-1"), "clean")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "transcript")).Info("cleaned",
		logging.Int("groups", 2),
		logging.String("target", "out file.txt"),
	)
	logger.Debug("debug detail")
	return logPath, func() string {
		data, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("read log: %v", err)
		}
		return string(data)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	_, read := newFileLogger(t, "console", "info")
	content := read()
	for _, fragment := range []string{"INFO transcript: cleaned", "run_id=run-1", "stage=clean", "groups=2", `target="out file.txt"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %q in %q", fragment, content)
		}
	}
	if strings.Contains(content, "debug detail") {
		t.Fatalf("debug records should be filtered at info level: %q", content)
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatalf("file output must not contain ANSI colour codes: %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	_, read := newFileLogger(t, "console", "debug")
	content := read()
	if !strings.Contains(content, "debug detail") {
		t.Fatalf("expected debug record, got %q", content)
	}
	if !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information at debug level, got %q", content)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	_, read := newFileLogger(t, "json", "info")
	line := strings.TrimSpace(strings.SplitN(read(), "\n", 2)[0])
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("unmarshal %q: %v", line, err)
	}
	if record["msg"] != "cleaned" || record["level"] != "info" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key in %v", record)
	}
	if record["component"] != "transcript" || record["run_id"] != "run-1" {
		t.Fatalf("missing context fields in %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"
	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Warn("something odd")
	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "qascribe.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "something odd") {
		t.Fatalf("expected warning in log file, got %q", data)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.WarnWithContext(logger, "cpu transcription", "cuda_unavailable",
		logging.String(logging.FieldImpact, "transcription will be slow"),
		logging.Error(errors.New("no gpu")),
	)
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	for _, fragment := range []string{"event_type=cuda_unavailable", `error_hint="see the surrounding log lines"`, `impact="transcription will be slow"`, `error="no gpu"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %q in %q", fragment, content)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 100) {
		t.Fatal("nop logger should never be enabled")
	}
	logging.WithContext(context.TODO(), nil).Info("ignored")
}

func TestNewWritesToSuppliedWriter(t *testing.T) {
	var buf strings.Builder
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("to writer", logging.String("k", "v"))
	if !strings.Contains(buf.String(), `"msg":"to writer"`) {
		t.Fatalf("expected record in writer, got %q", buf.String())
	}
}

func TestJSONLoggerKeepsInputSourceApartFromCaller(t *testing.T) {
	var buf strings.Builder
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithSource(context.Background(), "/audio/talk.mp3")
	logging.WithContext(ctx, logger).Debug("located")

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &record); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if record["source"] != "/audio/talk.mp3" {
		t.Fatalf("input source overwritten: %v", record)
	}
	src, _ := record["src"].(string)
	if !strings.HasPrefix(src, "logger_test.go:") {
		t.Fatalf("expected caller position under src, got %v", record)
	}
	ts, _ := record["ts"].(string)
	if !strings.Contains(ts, ".") || !strings.HasSuffix(ts, "Z") {
		t.Fatalf("expected millisecond UTC timestamp, got %q", ts)
	}
}
