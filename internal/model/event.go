package model

import "time"

// StateChange is emitted once per job state transition, in the order the
// transitions occur.
type StateChange struct {
	JobID  string
	URL    string
	From   JobState
	To     JobState
	Reason FailureReason // set only when To is JobStateFailed
	Detail string        // bounded failure detail, empty otherwise
	At     time.Time
}

// BatchSummary holds the aggregate outcome of a drained batch. Per-job
// detail stays available through the orchestrator snapshot.
type BatchSummary struct {
	Succeeded int
	Failed    int
}

// Total returns the number of jobs accounted for in the summary
func (bs BatchSummary) Total() int {
	return bs.Succeeded + bs.Failed
}
