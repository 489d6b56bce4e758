package orchestrator

// Package orchestrator implements the batch download core: it owns the job
// table and FIFO queue, admits jobs under a concurrency cap, supervises one
// engine fetch per running job, and publishes state transition events to the
// presentation layer.
