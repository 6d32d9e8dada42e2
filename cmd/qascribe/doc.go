// Package main hosts the qascribe CLI entrypoint and command graph.
//
// The Cobra-based command tree transcribes interview recordings, regroups
// transcripts into question/answer blocks, lists past runs from the history
// database, checks backend readiness, and scaffolds configuration. It
// centralizes configuration resolution and logger setup so subcommands only
// wire internal packages together.
package main
