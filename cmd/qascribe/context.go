package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"qascribe/internal/config"
	"qascribe/internal/deps"
	"qascribe/internal/history"
	"qascribe/internal/logging"
	"qascribe/internal/services"
	"qascribe/internal/services/whisperapi"
	"qascribe/internal/services/whisperx"
	"qascribe/internal/transcript"
	"qascribe/internal/transcription"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrResource, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// sentenceRule resolves the boundary rule: a configured pattern wins, then the
// name override, then cleaning.rule.
func (c *commandContext) sentenceRule(override string) (transcript.Rule, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(override)
	if name == "" && cfg.Cleaning.Pattern != "" {
		rule, err := transcript.NewPatternRule(cfg.Cleaning.Pattern)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "cleaning", "pattern", "", err)
		}
		return rule, nil
	}
	if name == "" {
		name = cfg.Cleaning.Rule
	}
	rule, err := transcript.RuleByName(name)
	if err != nil {
		return nil, services.Wrap(services.ErrUsage, "cleaning", "rule", "", err)
	}
	return rule, nil
}

// newProvider builds the configured transcription backend. A non-empty model
// overrides transcription.model.
func (c *commandContext) newProvider(model string) (transcription.Provider, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	t := cfg.Transcription
	if strings.TrimSpace(model) != "" {
		t.Model = strings.TrimSpace(model)
	}
	switch t.Backend {
	case config.BackendWhisperX:
		svc := whisperx.NewService(whisperx.Config{
			Model:       t.Model,
			CUDAEnabled: t.CUDAEnabled,
			VADMethod:   t.VADMethod,
			HFToken:     t.HFToken,
			UVXBinary:   deps.ResolveUVX(),
		}, logger)
		if t.VADMethod == whisperx.VADMethodPyannote && strings.TrimSpace(t.HFToken) == "" {
			logging.WarnWithContext(logger, "pyannote VAD needs a Hugging Face token; using silero",
				"vad_fallback",
				logging.String(logging.FieldErrorHint, "set transcription.hf_token or HF_TOKEN"),
				logging.String(logging.FieldImpact, "speech detection uses silero instead of pyannote"),
			)
			svc.SetVADMethod(whisperx.VADMethodSilero)
		}
		return svc, nil
	case config.BackendOpenAI:
		return whisperapi.NewClient(whisperapi.Config{
			URL:     t.APIURL,
			APIKey:  t.APIKey,
			Model:   t.Model,
			Timeout: time.Duration(t.TimeoutSeconds) * time.Second,
		}, logger), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "transcription", "backend", fmt.Sprintf("unsupported backend %q", t.Backend), nil)
	}
}

// openHistory returns nil when history is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, services.Wrap(services.ErrResource, "history", "open", cfg.HistoryPath(), err)
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
