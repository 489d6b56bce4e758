package engine

import (
	"context"

	"github.com/ytget/yt-mp3/internal/model"
)

// Request describes one download for the engine
type Request struct {
	URL       string
	Quality   model.Quality
	OutputDir string
}

// Progress is a single progress observation forwarded to the orchestrator.
// Line is the raw engine output, kept opaque; Percent is a best-effort
// extraction and only meaningful when HasPercent is true.
type Progress struct {
	Line       string
	Percent    int
	HasPercent bool
}

// ProgressFunc receives incremental progress during a fetch
type ProgressFunc func(Progress)

// Engine is the capability interface over the external download engine.
// Fetch blocks until the download ends and returns the output file path.
// Cancellation goes through ctx; failures are reported as *engine.Error so
// callers can classify them.
type Engine interface {
	Fetch(ctx context.Context, req Request, onProgress ProgressFunc) (string, error)
}
