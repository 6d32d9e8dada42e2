// Package whisperx runs WhisperX locally through uvx and adapts its JSON output
// to the transcription.Provider interface.
//
// The model, device and VAD settings are passed via Config. CPU runs work but
// are slow; the service logs a warning when CUDA is disabled.
package whisperx
