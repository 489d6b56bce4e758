package orchestrator

import (
	"github.com/ytget/yt-mp3/internal/model"
)

// Orchestrator defines the interface the presentation layer consumes.
type Orchestrator interface {
	// Enqueue validates the URL and appends a job in Queued state,
	// returning its ID without blocking on execution
	Enqueue(url string, quality model.Quality) (string, error)

	// Start begins scheduling; idempotent
	Start() error

	// Cancel cancels a queued or running job; no-op on terminal jobs
	Cancel(jobID string) error

	// Snapshot returns point-in-time job copies in enqueue order
	Snapshot() []model.Job

	// Summary returns aggregate terminal-state counts
	Summary() model.BatchSummary

	// Subscribe returns the ordered state change event stream; the
	// consumer must drain it until it closes
	Subscribe() <-chan model.StateChange

	// SetProgressCallback registers the progress observer
	SetProgressCallback(func(model.Job))

	// Wait blocks until the queue is drained and nothing is running
	Wait()

	// Fault returns the recorded orchestrator-level error, if any
	Fault() error

	// Shutdown cancels everything, waits for terminations and closes the
	// event stream
	Shutdown()
}
