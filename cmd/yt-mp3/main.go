package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ytget/yt-mp3/internal/config"
	"github.com/ytget/yt-mp3/internal/engine"
	"github.com/ytget/yt-mp3/internal/model"
	"github.com/ytget/yt-mp3/internal/orchestrator"
	"github.com/ytget/yt-mp3/internal/platform"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

// Progress lines are printed at most every progressStep percent per job
const progressStep = 20

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "yt-mp3: failed to load configuration: %v\n", err)
		return 1
	}

	qualityFlag := flag.String("quality", settings.Quality, "audio quality: 128, 256, standard or high")
	dirFlag := flag.String("dir", settings.DownloadDir, "output directory")
	parallelFlag := flag.Int("max-parallel", settings.MaxParallel, "maximum concurrent downloads")
	playlistFlag := flag.Bool("playlist", false, "expand playlist URLs into one job per video")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("yt-mp3 v%s\n", version)
		return 0
	}

	quality, err := model.ParseQuality(*qualityFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yt-mp3: %v\n", err)
		return 1
	}

	if err := platform.CreateDirectoryIfNotExists(*dirFlag); err != nil {
		fmt.Fprintf(os.Stderr, "yt-mp3: failed to create output directory: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	urls, err := collectURLs(ctx, flag.Args(), *playlistFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "yt-mp3: %v\n", err)
		return 1
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "yt-mp3: no URLs given (pass them as arguments or on stdin)")
		return 1
	}

	svc := orchestrator.New(engine.NewYTDLP(logger), orchestrator.Options{
		DownloadDir:  *dirFlag,
		MaxParallel:  config.ClampParallel(*parallelFlag),
		MaxURLLength: settings.MaxURLLength,
		Logger:       logger,
	})

	events := svc.Subscribe()
	var printWG sync.WaitGroup
	printWG.Add(1)
	go func() {
		defer printWG.Done()
		printEvents(events)
	}()

	svc.SetProgressCallback(newProgressPrinter())

	enqueued := 0
	for _, url := range urls {
		if _, err := svc.Enqueue(url, quality); err != nil {
			fmt.Fprintf(os.Stderr, "yt-mp3: rejected %s: %v\n", url, err)
			continue
		}
		enqueued++
	}
	if enqueued == 0 {
		svc.Shutdown()
		printWG.Wait()
		return 1
	}

	if err := svc.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "yt-mp3: %v\n", err)
		svc.Shutdown()
		printWG.Wait()
		return 1
	}

	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "\nyt-mp3: interrupted, cancelling downloads...")
	}

	svc.Shutdown()
	printWG.Wait()

	summary := svc.Summary()
	fmt.Printf("\nDone: %d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	for _, job := range svc.Snapshot() {
		if job.State == model.JobStateFailed {
			fmt.Printf("  failed  %s (%s)\n", job.URL, job.FailureText())
		}
	}

	if fault := svc.Fault(); fault != nil {
		fmt.Fprintf(os.Stderr, "yt-mp3: %v\n", fault)
		return 1
	}
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

// collectURLs gathers URLs from the arguments or stdin, sanitizes each one
// and expands playlist URLs when requested
func collectURLs(ctx context.Context, args []string, expandPlaylists bool) ([]string, error) {
	inputs := args
	if len(inputs) == 0 && !isTerminal(os.Stdin) {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line != "" {
				inputs = append(inputs, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	var urls []string
	for _, input := range inputs {
		if expandPlaylists && platform.IsPlaylistURL(input) {
			expanded, err := platform.ExpandPlaylist(ctx, input)
			if err != nil {
				return nil, fmt.Errorf("failed to expand playlist %s: %w", input, err)
			}
			urls = append(urls, expanded...)
			continue
		}

		url := platform.SanitizeInput(input)
		if !platform.IsYouTubeURL(url) {
			fmt.Fprintf(os.Stderr, "yt-mp3: skipping non-YouTube input: %s\n", input)
			continue
		}
		urls = append(urls, url)
	}

	return urls, nil
}

// printEvents renders state transitions until the stream closes
func printEvents(events <-chan model.StateChange) {
	for ev := range events {
		switch ev.To {
		case model.JobStateQueued:
			fmt.Printf("queued   %s\n", ev.URL)
		case model.JobStateRunning:
			fmt.Printf("start    %s\n", ev.URL)
		case model.JobStateSucceeded:
			fmt.Printf("done     %s\n", ev.URL)
		case model.JobStateFailed:
			if ev.Detail != "" {
				fmt.Printf("failed   %s (%s: %s)\n", ev.URL, ev.Reason, ev.Detail)
			} else {
				fmt.Printf("failed   %s (%s)\n", ev.URL, ev.Reason)
			}
		}
	}
}

// newProgressPrinter returns a callback that prints a job's progress at
// progressStep increments
func newProgressPrinter() func(model.Job) {
	var mu sync.Mutex
	lastPrinted := make(map[string]int)

	return func(job model.Job) {
		mu.Lock()
		defer mu.Unlock()

		last, ok := lastPrinted[job.ID]
		if ok && job.Percent < last+progressStep {
			return
		}
		lastPrinted[job.ID] = job.Percent
		fmt.Printf("         %s %d%%\n", job.GetDisplayTitle(), job.Percent)
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
