// Package whisperapi calls an OpenAI-compatible /v1/audio/transcriptions
// endpoint and adapts the verbose_json response to transcription.Result.
package whisperapi
