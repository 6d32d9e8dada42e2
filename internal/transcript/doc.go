// Package transcript turns raw speech-to-text output into a readable
// question-and-answer document.
//
// Text is first cut into sentences by a pluggable Rule (the default treats
// `.`, `!` or `?` followed by whitespace and an uppercase letter as a
// boundary). GroupSentences then walks the sentences once, clustering each run
// of questions with the answers that follow it. CleanFile wires both steps to
// the filesystem for the CLI and the transcription driver.
//
// The grouping is total: any sentence slice, including an empty one, yields a
// Document. Only file access and decoding can fail.
package transcript
