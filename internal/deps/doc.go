// Package deps reports whether the external binaries qascribe shells out to
// are installed.
package deps
