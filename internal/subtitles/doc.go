// Package subtitles renders transcription segments as SRT and WebVTT files and
// provides light validation of SRT output.
package subtitles
