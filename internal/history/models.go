package history

import "time"

// Kind names the command that produced a run.
type Kind string

const (
	KindTranscribe Kind = "transcribe"
	KindClean      Kind = "clean"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one recorded invocation.
type Run struct {
	ID         string
	Kind       Kind
	Status     Status
	SourcePath string
	Backend    string
	Model      string
	Language   string
	Sentences  int
	Groups     int
	Segments   int
	Outputs    []string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Elapsed returns the run duration, or zero when it never finished.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
