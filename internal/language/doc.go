// Package language normalizes the transcription language setting into the
// ISO 639-1 codes speech backends accept.
package language
