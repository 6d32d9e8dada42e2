package config

const (
	defaultConfigPath     = "~/.config/qascribe/config.toml"
	projectConfigName     = "qascribe.toml"
	defaultStateDir       = "~/.local/share/qascribe"
	defaultHistoryFile    = "history.db"
	defaultLockDir        = "locks"
	defaultBackend        = BackendWhisperX
	defaultModel          = "medium"
	defaultVADMethod      = "silero"
	defaultAPIURL         = "https://api.openai.com/v1/audio/transcriptions"
	defaultAPIModel       = "whisper-1"
	defaultTimeoutSeconds = 600
	defaultCleaningRule   = "default"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultHistoryEnabled = true
	defaultSubtitlesSRT   = true
	defaultSubtitlesVTT   = true
)

// Transcription backends.
const (
	BackendWhisperX = "whisperx"
	BackendOpenAI   = "openai"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Transcription: Transcription{
			Backend:        defaultBackend,
			VADMethod:      defaultVADMethod,
			APIURL:         defaultAPIURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Cleaning: Cleaning{
			Rule: defaultCleaningRule,
		},
		Subtitles: Subtitles{
			SRT: defaultSubtitlesSRT,
			VTT: defaultSubtitlesVTT,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
