// Package history keeps a SQLite log of transcribe and clean runs so past
// outputs can be listed with "qascribe history".
//
// The database uses WAL journaling and a busy timeout; writes retry briefly on
// SQLITE_BUSY so a CLI invocation never fails because another run is
// recording at the same moment.
package history
