// Package preflight provides readiness checks for the transcription backends
// and filesystem paths that qascribe depends on.
//
// These checks run in two contexts:
//   - The interview pipeline calls RunAll before transcribing, so a missing
//     output directory or unreachable endpoint fails before minutes of audio
//     are uploaded or decoded.
//   - The CLI "qascribe check" command renders every result as a table.
//
// Backend checks are gated by transcription.backend; the unused backend is skipped.
package preflight
