package preflight

import (
	"context"
	"fmt"
	"strings"

	"qascribe/internal/config"
	"qascribe/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// outputDir is checked when non-empty.
func RunAll(ctx context.Context, cfg *config.Config, outputDir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if strings.TrimSpace(outputDir) != "" {
		results = append(results, CheckDirectoryAccess("Output directory", outputDir))
	}
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	switch cfg.Transcription.Backend {
	case config.BackendOpenAI:
		results = append(results, CheckEndpoint(ctx, cfg.Transcription.APIURL, cfg.Transcription.APIKey))
	case config.BackendWhisperX:
		for _, status := range CheckSystemDeps(cfg) {
			results = append(results, fromStatus(status))
		}
	}

	return results
}

// Failures returns the failed results.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// fromStatus converts a binary check; optional binaries never fail preflight.
func fromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available || status.Optional}
	switch {
	case status.Available:
		result.Detail = status.Command
	case status.Optional:
		result.Detail = fmt.Sprintf("optional: %s", status.Detail)
	default:
		result.Detail = status.Detail
	}
	return result
}
