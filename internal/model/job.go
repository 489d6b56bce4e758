package model

import (
	"fmt"
	"strings"
	"time"
)

// Quality is the requested audio bitrate for a job
type Quality int

const (
	// QualityStandard is 128kbps MP3 output
	QualityStandard Quality = 128

	// QualityHigh is 256kbps MP3 output
	QualityHigh Quality = 256
)

// String returns the human readable bitrate (e.g., "128kbps")
func (q Quality) String() string {
	return fmt.Sprintf("%dkbps", int(q))
}

// BitrateArg returns the bitrate in the form the download engine expects (e.g., "128K")
func (q Quality) BitrateArg() string {
	return fmt.Sprintf("%dK", int(q))
}

// ParseQuality parses a quality selection from user input ("128", "256",
// "standard", "high")
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "128", "standard":
		return QualityStandard, nil
	case "256", "high":
		return QualityHigh, nil
	default:
		return 0, fmt.Errorf("unknown quality %q (expected 128, 256, standard or high)", s)
	}
}

// Job represents a single URL-to-MP3 download job
type Job struct {
	ID           string
	URL          string
	Quality      Quality
	State        JobState
	Reason       FailureReason // set only when State is JobStateFailed
	ReasonDetail string        // last captured engine error line, bounded length
	Percent      int           // 0 to 100, best-effort from engine progress lines
	LastStatus   string        // last raw progress line from the engine
	OutputPath   string        // path to the downloaded file, set on success
	CreatedAt    time.Time     // when the job was enqueued
	StartedAt    time.Time     // when the job was admitted to Running
	FinishedAt   time.Time     // when the job reached a terminal state
}

// GetDisplayTitle returns the output filename if known, otherwise the URL
func (j *Job) GetDisplayTitle() string {
	if j.OutputPath != "" {
		parts := strings.FieldsFunc(j.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}
	return j.URL
}

// FailureText returns "Reason: detail" for failed jobs, or an empty string
func (j *Job) FailureText() string {
	if j.State != JobStateFailed {
		return ""
	}
	if j.ReasonDetail == "" {
		return j.Reason.String()
	}
	return fmt.Sprintf("%s: %s", j.Reason, j.ReasonDetail)
}
