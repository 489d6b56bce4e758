package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ytget/yt-mp3/internal/model"
	"github.com/ytget/yt-mp3/internal/platform"
)

// yt-dlp invocation constants
const (
	// Command is the engine executable name
	Command = "yt-dlp"

	// OutputTemplate embeds the video ID so distinct videos with identical
	// titles never collide on disk
	OutputTemplate = "%(title)s [%(id)s].%(ext)s"

	// AudioFormat is the target container for extracted audio
	AudioFormat = "mp3"

	// FormatSelector downloads only the audio stream
	FormatSelector = "bestaudio"
)

// YTDLP runs downloads through the external yt-dlp binary
type YTDLP struct {
	binary string
	logger *slog.Logger
}

// NewYTDLP creates an engine bound to the yt-dlp executable on PATH
func NewYTDLP(logger *slog.Logger) *YTDLP {
	return &YTDLP{
		binary: Command,
		logger: logger,
	}
}

// BuildArgs builds the yt-dlp command line for a request
func (y *YTDLP) BuildArgs(req Request) []string {
	return []string{
		"--format", FormatSelector, // audio stream only, no video
		"--extract-audio",
		"--audio-format", AudioFormat,
		"--audio-quality", req.Quality.BitrateArg(),
		"--output", filepath.Join(req.OutputDir, OutputTemplate),
		"--no-playlist",
		"--prefer-ffmpeg",
		"--embed-thumbnail",
		"--add-metadata",
		"--no-warnings",
		"--newline", // one progress update per line
		"--progress",
		req.URL,
	}
}

// Fetch runs the engine subprocess for one request. It classifies the
// outcome: spawn failures wrap ErrSpawn, everything else comes back as
// *engine.Error.
func (y *YTDLP) Fetch(ctx context.Context, req Request, onProgress ProgressFunc) (string, error) {
	before, err := platform.ListAudioFiles(req.OutputDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	started := time.Now()

	cmd := exec.CommandContext(ctx, y.binary, y.BuildArgs(req)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	if err := cmd.Start(); err != nil {
		// A context cancelled before the process launches is a caller
		// cancellation, not a spawn-level failure
		if ctx.Err() != nil {
			return "", NewError(model.FailureCancelled, "", ctx.Err())
		}
		return "", fmt.Errorf("%w: %v", ErrSpawn, err)
	}

	var wg sync.WaitGroup
	var lastErrLine string

	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || onProgress == nil {
				continue
			}
			percent, ok := platform.ExtractPercent(line)
			onProgress(Progress{Line: line, Percent: percent, HasPercent: ok})
		}
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				lastErrLine = TruncateDetail(line)
			}
		}
	}()

	// Pipes must be drained before Wait
	wg.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return "", NewError(model.FailureCancelled, "", ctx.Err())
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && exitErr.ExitCode() == -1 {
			// Ended on a signal without a normal exit code
			y.logger.Warn("engine process terminated abnormally", "url", req.URL, "err", waitErr)
			return "", NewError(model.FailureProcessTerminated, lastErrLine, waitErr)
		}
		y.logger.Warn("engine exited non-zero", "url", req.URL, "err", waitErr, "detail", lastErrLine)
		return "", NewError(model.FailureSubprocessError, lastErrLine, waitErr)
	}

	path, found := platform.FindNewAudioFile(req.OutputDir, before, started)
	if !found {
		y.logger.Warn("engine exited zero but produced no output file", "url", req.URL, "dir", req.OutputDir)
		return "", NewError(model.FailureOutputMissing, "no audio file found in output directory", nil)
	}

	return path, nil
}
