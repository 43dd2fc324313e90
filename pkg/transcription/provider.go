package transcription

import "context"

// Job is the provider-side view of one transcription.
type Job struct {
	Id     string
	Status Status
	Text   string
	Error  string
}

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Done reports whether the provider will not change this job anymore.
func (s Status) Done() bool {
	return s == StatusCompleted || s == StatusError
}

// Provider is the contract for a speech-to-text backend.
type Provider interface {
	// Submit starts a transcription for a publicly reachable audio URL.
	Submit(ctx context.Context, audioUrl string) (*Job, error)

	// Poll fetches the current state of a previously submitted job.
	Poll(ctx context.Context, jobId string) (*Job, error)
}
