package whisperx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"qascribe/internal/language"
	"qascribe/internal/logging"
	"qascribe/internal/services"
	"qascribe/internal/transcription"
)

const component = "whisperx"

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, component),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// SetVADMethod replaces the configured voice activity detector.
func (s *Service) SetVADMethod(method string) {
	s.cfg.VADMethod = method
}

// VADMethod reports the detector passed to whisperx; silero when unset.
func (s *Service) VADMethod() string {
	if s.cfg.VADMethod == "" {
		return VADMethodSilero
	}
	return s.cfg.VADMethod
}

// Name identifies the backend.
func (s *Service) Name() string { return component }

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

func (s *Service) uvxBinary() string {
	if s.cfg.UVXBinary != "" {
		return s.cfg.UVXBinary
	}
	return UVXCommand
}

// CUDAEnabled reports whether whisperx runs on the GPU.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe runs WhisperX on audioPath and loads the JSON document it writes
// to opts.WorkDir (the audio directory when empty).
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts transcription.Options) (transcription.Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return transcription.Result{}, services.Wrap(services.ErrUsage, component, "transcribe", "audio path required", nil)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return transcription.Result{}, services.Wrap(services.ErrResource, component, "transcribe", "audio file unavailable", err)
	}
	outputDir := opts.WorkDir
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return transcription.Result{}, services.Wrap(services.ErrResource, component, "transcribe", "ensure output dir", err)
	}

	logger := logging.WithContext(ctx, s.logger)
	if !s.CUDAEnabled() {
		logging.WarnWithContext(logger, "transcribing on CPU; this will be slow",
			"cpu_transcription",
			logging.String(logging.FieldErrorHint, "enable transcription.cuda_enabled on a machine with a CUDA GPU"),
			logging.String(logging.FieldImpact, "transcription may take several times the audio length"),
		)
	}

	args := s.buildArgs(audioPath, outputDir, opts.Language)
	logger.Info("whisperx started",
		logging.String("model", s.Model()),
		logging.Bool("cuda", s.CUDAEnabled()),
		logging.String("vad", s.VADMethod()),
		logging.String("output_dir", outputDir),
	)
	if err := s.run(ctx, s.uvxBinary(), args...); err != nil {
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, component, "transcribe", "whisperx run failed", err)
	}

	jsonPath := OutputPath(audioPath, outputDir)
	result, err := transcription.LoadResult(jsonPath)
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, component, "transcribe", "load whisperx json", err)
	}
	if result.Language == "" {
		result.Language = language.ToISO2(opts.Language)
	}
	logger.Info("whisperx finished",
		logging.Int("segments", len(result.Segments)),
		logging.String("language", result.Language),
	)
	return result, nil
}

// OutputPath returns the JSON document WhisperX writes for source.
func OutputPath(source, outputDir string) string {
	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(outputDir, baseName+".json")
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir, lang string) []string {
	args := make([]string, 0, 24)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", s.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
	)

	vadMethod := s.VADMethod()
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if iso := language.ToISO2(lang); iso != "" {
		args = append(args, "--language", iso)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return args
}
