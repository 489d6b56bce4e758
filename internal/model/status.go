package model

// JobState represents the lifecycle state of a download job
type JobState string

const (
	// JobStateQueued means the job is waiting for a free download slot
	JobStateQueued JobState = "Queued"

	// JobStateRunning means the job's download subprocess is active
	JobStateRunning JobState = "Running"

	// JobStateSucceeded means the job finished and produced an output file
	JobStateSucceeded JobState = "Succeeded"

	// JobStateFailed means the job ended without a usable output file
	JobStateFailed JobState = "Failed"
)

// String returns the string representation of JobState
func (js JobState) String() string {
	return string(js)
}

// IsTerminal returns true if no further transitions can occur from this state
func (js JobState) IsTerminal() bool {
	return js == JobStateSucceeded || js == JobStateFailed
}

// FailureReason classifies why a job ended in JobStateFailed
type FailureReason string

const (
	// FailureCancelled means the job was cancelled by the caller
	FailureCancelled FailureReason = "Cancelled"

	// FailureSubprocessError means the download engine exited non-zero
	FailureSubprocessError FailureReason = "SubprocessError"

	// FailureProcessTerminated means the engine process ended abnormally
	// (killed by a signal) without reporting an exit code
	FailureProcessTerminated FailureReason = "ProcessTerminated"

	// FailureOutputMissing means the engine exited zero but no output
	// file was found in the download directory
	FailureOutputMissing FailureReason = "OutputMissing"
)

// String returns the string representation of FailureReason
func (fr FailureReason) String() string {
	return string(fr)
}
