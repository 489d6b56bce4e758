package engine

import (
	"errors"
	"fmt"

	"github.com/ytget/yt-mp3/internal/model"
)

// MaxDetailLength bounds captured diagnostic text so pathological engine
// output cannot grow job records without limit
const MaxDetailLength = 256

// ErrSpawn marks a failure to start the engine process at all. It is the one
// engine error class the orchestrator surfaces to its caller instead of
// recording as job state.
var ErrSpawn = errors.New("failed to spawn download engine")

// Error is a classified fetch failure
type Error struct {
	Reason model.FailureReason
	Detail string
	Err    error
}

// Error returns the string representation of the failure
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason.String()
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified failure with bounded detail text
func NewError(reason model.FailureReason, detail string, err error) *Error {
	return &Error{
		Reason: reason,
		Detail: TruncateDetail(detail),
		Err:    err,
	}
}

// Classify extracts the failure reason and detail from a fetch error.
// Unclassified errors fall back to SubprocessError.
func Classify(err error) (model.FailureReason, string) {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Reason, engineErr.Detail
	}
	return model.FailureSubprocessError, TruncateDetail(err.Error())
}

// TruncateDetail bounds diagnostic text to MaxDetailLength
func TruncateDetail(detail string) string {
	if len(detail) > MaxDetailLength {
		return detail[:MaxDetailLength]
	}
	return detail
}
