package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"qascribe/internal/config"
	"qascribe/internal/deps"
)

const endpointTimeout = 10 * time.Second

// CheckEndpoint verifies that an OpenAI-compatible API is reachable and the key
// is accepted. The models listing next to the transcriptions route is queried
// because it is cheap and authenticated.
func CheckEndpoint(ctx context.Context, apiURL, apiKey string) Result {
	const name = "Transcription API"

	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: name, Detail: "missing api key"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, endpointTimeout)
	defer cancel()

	client := &http.Client{Timeout: endpointTimeout}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, ModelsURL(apiURL), nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%v)", err)}
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(apiKey))

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeRequestError(err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (invalid api key)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%d)", resp.StatusCode)}
	}
}

// ModelsURL maps a .../audio/transcriptions endpoint to the sibling .../models
// route. Other URLs are returned unchanged.
func ModelsURL(apiURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if base, ok := strings.CutSuffix(trimmed, "/audio/transcriptions"); ok {
		return base + "/models"
	}
	return trimmed
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries needed by the configured
// backend. The HTTP backend needs none.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	if cfg == nil || cfg.Transcription.Backend != config.BackendWhisperX {
		return nil
	}
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "uvx",
			Command:     deps.ResolveUVX(),
			Description: "Required for WhisperX-driven transcription",
		},
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Used by WhisperX to decode audio",
			Optional:    true,
		},
	})
}

func summarizeRequestError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (API unreachable)"
	}
	return err.Error()
}
