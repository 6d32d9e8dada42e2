// Package services defines shared utilities consumed by the transcription
// driver, the transcript cleaner and the external speech-to-text backends.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper that let the CLI classify
//     failures (usage, resource, encoding, configuration, external tool) into
//     exit codes without string matching.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across commands.
package services
