package interview

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"qascribe/internal/fileutil"
	"qascribe/internal/history"
	"qascribe/internal/logging"
	"qascribe/internal/preflight"
	"qascribe/internal/services"
	"qascribe/internal/subtitles"
	"qascribe/internal/transcript"
	"qascribe/internal/transcription"
)

const component = "interview"

// Pipeline stage names attached to the run context.
const (
	StagePreflight  = "preflight"
	StageTranscribe = "transcribe"
	StageClean      = "clean"
	StageSubtitles  = "subtitles"
)

// Recorder persists finished runs. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, run *history.Run) error
}

// CheckFunc runs readiness checks for an output directory.
type CheckFunc func(ctx context.Context, outputDir string) []preflight.Result

// Config wires a Pipeline.
type Config struct {
	Provider transcription.Provider
	// Rule selects sentence boundaries; nil means transcript.DefaultRule.
	Rule     transcript.Rule
	Language string
	WriteSRT bool
	WriteVTT bool
	// History records every run when non-nil.
	History Recorder
	// Checks runs before the provider is called when non-nil.
	Checks CheckFunc
	// LockDir holds per-output lock files; empty uses a directory under os.TempDir.
	LockDir string
	Logger  *slog.Logger
}

// Pipeline turns an audio recording into transcript, cleaned and subtitle files.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// Request names the audio input and where outputs go. An empty OutputDir
// writes next to the audio file.
type Request struct {
	AudioPath string
	OutputDir string
}

// Outputs lists what a successful run produced.
type Outputs struct {
	RunID      string
	Transcript string
	Cleaned    string
	SRT        string
	VTT        string
	Language   string
	Segments   int
	Sentences  int
	Groups     int
}

// Files returns the written output paths in creation order.
func (o Outputs) Files() []string {
	files := make([]string, 0, 4)
	for _, path := range []string{o.Transcript, o.Cleaned, o.SRT, o.VTT} {
		if path != "" {
			files = append(files, path)
		}
	}
	return files
}

// New constructs a pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Provider == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "init", "transcription provider required", nil)
	}
	if cfg.Rule == nil {
		cfg.Rule = transcript.DefaultRule()
	}
	return &Pipeline{cfg: cfg, logger: logging.NewComponentLogger(cfg.Logger, component)}, nil
}

// OutputBase returns the file name prefix shared by every output for audioPath.
func OutputBase(audioPath string) string {
	name := filepath.Base(audioPath)
	return strings.TrimSuffix(name, filepath.Ext(name)) + "_transcription"
}

// LockPath returns the lock file guarding the outputs named base in outputDir.
// The file lives in lockDir, keyed by a hash of the absolute output prefix.
func LockPath(lockDir, outputDir, base string) string {
	if strings.TrimSpace(lockDir) == "" {
		lockDir = filepath.Join(os.TempDir(), "qascribe-locks")
	}
	key := filepath.Join(outputDir, base)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(lockDir, base+"-"+hex.EncodeToString(sum[:8])+".lock")
}

// Run executes the pipeline for one recording.
func (p *Pipeline) Run(ctx context.Context, req Request) (Outputs, error) {
	started := time.Now().UTC()
	out := Outputs{RunID: uuid.NewString()}

	ctx = services.WithRunID(ctx, out.RunID)
	ctx = services.WithSource(ctx, req.AudioPath)

	err := p.run(ctx, req, &out)
	p.record(ctx, req, out, started, err)
	return out, err
}

func (p *Pipeline) run(ctx context.Context, req Request, out *Outputs) error {
	if strings.TrimSpace(req.AudioPath) == "" {
		return services.Wrap(services.ErrUsage, component, "run", "audio path required", nil)
	}
	info, err := os.Stat(req.AudioPath)
	if err != nil {
		return services.Wrap(services.ErrResource, component, "run", "audio file unavailable", err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrUsage, component, "run", fmt.Sprintf("%s is a directory", req.AudioPath), nil)
	}

	outputDir := req.OutputDir
	if strings.TrimSpace(outputDir) == "" {
		outputDir = filepath.Dir(req.AudioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return services.Wrap(services.ErrResource, component, "run", "ensure output directory", err)
	}

	if p.cfg.Checks != nil {
		stageCtx := services.WithStage(ctx, StagePreflight)
		if failed := preflight.Failures(p.cfg.Checks(stageCtx, outputDir)); len(failed) > 0 {
			parts := make([]string, 0, len(failed))
			for _, r := range failed {
				parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
			}
			return services.Wrap(services.ErrConfiguration, component, StagePreflight, strings.Join(parts, "; "), nil)
		}
	}

	base := OutputBase(req.AudioPath)
	lockPath := LockPath(p.cfg.LockDir, outputDir, base)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return services.Wrap(services.ErrResource, component, "lock", "ensure lock directory", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrResource, component, "lock", "acquire output lock", err)
	}
	if !ok {
		return services.Wrap(services.ErrResource, component, "lock",
			fmt.Sprintf("another run is writing %s outputs in %s", base, outputDir), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	result, err := p.transcribe(ctx, req.AudioPath, outputDir)
	if err != nil {
		return err
	}
	out.Language = result.Language
	out.Segments = len(result.Segments)

	out.Transcript = filepath.Join(outputDir, base+".txt")
	if err := fileutil.WriteFileAtomic(out.Transcript, []byte(result.FullText()), 0o644); err != nil {
		return services.Wrap(services.ErrResource, component, "write transcript", out.Transcript, err)
	}

	cleanCtx := services.WithStage(ctx, StageClean)
	cleaned, err := transcript.CleanFile(out.Transcript, "", transcript.Options{
		Rule:   p.cfg.Rule,
		Logger: logging.WithContext(cleanCtx, p.logger),
	})
	if err != nil {
		return err
	}
	out.Cleaned = cleaned.Target
	out.Sentences = cleaned.Sentences
	out.Groups = cleaned.Groups

	if err := p.writeSubtitles(services.WithStage(ctx, StageSubtitles), outputDir, base, result.Segments, out); err != nil {
		return err
	}

	logging.WithContext(ctx, p.logger).Info("interview processed",
		logging.String("transcript", out.Transcript),
		logging.String("cleaned", out.Cleaned),
		logging.Int("segments", out.Segments),
		logging.Int("groups", out.Groups),
	)
	return nil
}

func (p *Pipeline) transcribe(ctx context.Context, audioPath, outputDir string) (transcription.Result, error) {
	ctx = services.WithStage(ctx, StageTranscribe)
	logger := logging.WithContext(ctx, p.logger)

	workDir, err := os.MkdirTemp(outputDir, ".qascribe-work-")
	if err != nil {
		return transcription.Result{}, services.Wrap(services.ErrResource, component, StageTranscribe, "create work directory", err)
	}
	defer os.RemoveAll(workDir)

	logger.Info("transcription started",
		logging.String("backend", p.cfg.Provider.Name()),
		logging.String("model", p.cfg.Provider.Model()),
	)
	start := time.Now()
	result, err := p.cfg.Provider.Transcribe(ctx, audioPath, transcription.Options{
		Language: p.cfg.Language,
		WorkDir:  workDir,
	})
	if err != nil {
		if errors.Is(err, services.ErrExternalTool) || errors.Is(err, services.ErrResource) ||
			errors.Is(err, services.ErrConfiguration) || errors.Is(err, services.ErrUsage) {
			return transcription.Result{}, err
		}
		return transcription.Result{}, services.Wrap(services.ErrExternalTool, component, StageTranscribe, p.cfg.Provider.Name(), err)
	}
	logger.Info("transcription finished",
		logging.Int("segments", len(result.Segments)),
		logging.Float64("audio_seconds", result.Duration()),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (p *Pipeline) writeSubtitles(ctx context.Context, outputDir, base string, segments []transcription.Segment, out *Outputs) error {
	logger := logging.WithContext(ctx, p.logger)
	if (p.cfg.WriteSRT || p.cfg.WriteVTT) && len(segments) == 0 {
		logging.WarnWithContext(logger, "transcription returned no segments; subtitles will be empty",
			"empty_segments",
			logging.String(logging.FieldImpact, "subtitle files contain no cues"),
		)
	}
	if p.cfg.WriteSRT {
		path := filepath.Join(outputDir, base+".srt")
		if err := subtitles.WriteSRT(path, segments); err != nil {
			return services.Wrap(services.ErrResource, component, StageSubtitles, path, err)
		}
		out.SRT = path
	}
	if p.cfg.WriteVTT {
		path := filepath.Join(outputDir, base+".vtt")
		if err := subtitles.WriteVTT(path, segments); err != nil {
			return services.Wrap(services.ErrResource, component, StageSubtitles, path, err)
		}
		out.VTT = path
	}
	if out.SRT != "" && len(segments) > 0 {
		if issues := subtitles.Validate(out.SRT); len(issues) > 0 {
			logging.WarnWithContext(logger, "subtitle validation reported issues",
				"subtitle_validation",
				logging.String("path", out.SRT),
				logging.Any("issues", issues),
			)
		}
	}
	return nil
}

func (p *Pipeline) record(ctx context.Context, req Request, out Outputs, started time.Time, runErr error) {
	if p.cfg.History == nil || strings.TrimSpace(req.AudioPath) == "" {
		return
	}
	run := &history.Run{
		ID:         out.RunID,
		Kind:       history.KindTranscribe,
		Status:     history.StatusCompleted,
		SourcePath: req.AudioPath,
		Backend:    p.cfg.Provider.Name(),
		Model:      p.cfg.Provider.Model(),
		Language:   out.Language,
		Sentences:  out.Sentences,
		Groups:     out.Groups,
		Segments:   out.Segments,
		Outputs:    out.Files(),
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}
	if err := p.cfg.History.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "failed to record run history",
			"history_write",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run will be missing from qascribe history"),
		)
	}
}
