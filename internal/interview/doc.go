// Package interview drives one audio file through transcription, Q&A cleaning
// and subtitle rendering.
//
// Outputs land next to each other in the output directory:
//
//	<base>_transcription.txt          raw transcript text
//	<base>_transcription_cleaned.txt  question/answer grouped transcript
//	<base>_transcription.srt          numbered SubRip cues
//	<base>_transcription.vtt          WebVTT cues
//
// A per-base lock file in the output directory keeps two runs from writing the
// same outputs at once.
package interview
