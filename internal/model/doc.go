package model

// Package model defines the job domain types shared across the application:
// download jobs, their lifecycle states and failure reasons, and the state
// change events published to the presentation layer.
