package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"qascribe/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateCleaning(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	switch t.Backend {
	case BackendWhisperX:
		switch t.VADMethod {
		case "silero", "pyannote":
		default:
			return fmt.Errorf("transcription.vad_method must be silero or pyannote, got %q", t.VADMethod)
		}
	case BackendOpenAI:
		parsed, err := url.Parse(t.APIURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("transcription.api_url must be an absolute URL, got %q", t.APIURL)
		}
	default:
		return fmt.Errorf("transcription.backend must be %q or %q, got %q", BackendWhisperX, BackendOpenAI, t.Backend)
	}
	if err := language.Validate(t.Language); err != nil {
		return fmt.Errorf("transcription.language: %w", err)
	}
	if t.TimeoutSeconds <= 0 {
		return errors.New("transcription.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCleaning() error {
	if c.Cleaning.Pattern != "" {
		re, err := regexp.Compile(c.Cleaning.Pattern)
		if err != nil {
			return fmt.Errorf("cleaning.pattern: %w", err)
		}
		if re.NumSubexp() != 1 {
			return fmt.Errorf("cleaning.pattern must have exactly one capture group marking the delimiter, has %d", re.NumSubexp())
		}
		return nil
	}
	switch c.Cleaning.Rule {
	case "default", "unicode":
		return nil
	default:
		return fmt.Errorf("cleaning.rule must be default or unicode, got %q", c.Cleaning.Rule)
	}
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
