// Package transcription defines the contract between qascribe and an external
// speech-to-text backend: a Provider turns an audio file into a Result holding
// the full text and its timestamped segments.
package transcription
