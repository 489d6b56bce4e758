package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ytget/yt-mp3/internal/engine"
	"github.com/ytget/yt-mp3/internal/model"
)

// Job ID prefix
const (
	JobIDPrefix = "job-"
)

// Defaults applied when Options leave a field unset
const (
	DefaultMaxParallel  = 3
	DefaultMaxURLLength = 500
)

var (
	// ErrInvalidInput is returned by Enqueue for malformed or oversized URLs;
	// no job is created
	ErrInvalidInput = errors.New("invalid input")

	// ErrOrchestratorFault marks a spawn-level failure: the orchestrator
	// itself cannot make progress
	ErrOrchestratorFault = errors.New("orchestrator fault")

	// ErrShutdown is returned by operations invoked after Shutdown
	ErrShutdown = errors.New("orchestrator is shut down")

	// ErrJobNotFound is returned by Cancel for unknown job IDs
	ErrJobNotFound = errors.New("job not found")
)

// Service orchestrates batch downloads: it accepts enqueue requests,
// schedules jobs under a concurrency cap, supervises one engine fetch per
// running job, and reports terminal outcomes.
type Service struct {
	engine       engine.Engine
	logger       *slog.Logger
	downloadDir  string
	maxParallel  int
	maxURLLength int
	validate     *validator.Validate
	urlRule      string

	mu       sync.Mutex
	cond     *sync.Cond
	jobs     map[string]*model.Job
	order    []string // job IDs in enqueue order, for snapshots
	queue    []string // job IDs waiting for admission, FIFO
	cancels  map[string]context.CancelFunc
	running  int
	started  bool
	shutdown bool
	fault    error
	wg       sync.WaitGroup

	hub        *eventHub
	onProgress func(model.Job) // callback for progress updates
}

// Options configures a Service
type Options struct {
	DownloadDir  string
	MaxParallel  int
	MaxURLLength int
	Logger       *slog.Logger
}

// New creates a download orchestrator backed by the given engine
func New(eng engine.Engine, opts Options) *Service {
	if opts.MaxParallel < 1 {
		opts.MaxParallel = DefaultMaxParallel
	}
	if opts.MaxURLLength < 1 {
		opts.MaxURLLength = DefaultMaxURLLength
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Service{
		engine:       eng,
		logger:       opts.Logger,
		downloadDir:  opts.DownloadDir,
		maxParallel:  opts.MaxParallel,
		maxURLLength: opts.MaxURLLength,
		validate:     validator.New(),
		urlRule:      fmt.Sprintf("required,max=%d", opts.MaxURLLength),
		jobs:         make(map[string]*model.Job),
		cancels:      make(map[string]context.CancelFunc),
		hub:          newEventHub(),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// SetProgressCallback sets the callback invoked with a job copy on each
// progress observation. Safe to call at any time.
func (s *Service) SetProgressCallback(callback func(model.Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onProgress = callback
}

// Subscribe returns the state change event stream. One event is delivered
// per transition, in the order transitions occur; the channel closes after
// Shutdown once all events are delivered. Subscribers must keep receiving
// until the channel closes, or the delivery goroutine cannot finish.
func (s *Service) Subscribe() <-chan model.StateChange {
	return s.hub.events()
}

// Enqueue validates the URL, appends a new job in Queued state and returns
// its ID immediately. It never blocks on execution.
func (s *Service) Enqueue(url string, quality model.Quality) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return "", ErrShutdown
	}
	if s.fault != nil {
		return "", s.fault
	}

	if err := s.validate.Var(url, s.urlRule); err != nil {
		return "", fmt.Errorf("%w: url must be non-empty and at most %d characters", ErrInvalidInput, s.maxURLLength)
	}

	job := &model.Job{
		ID:        generateJobID(),
		URL:       url,
		Quality:   quality,
		State:     model.JobStateQueued,
		CreatedAt: time.Now(),
	}

	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	s.queue = append(s.queue, job.ID)

	s.hub.publish(model.StateChange{
		JobID: job.ID,
		URL:   job.URL,
		To:    model.JobStateQueued,
		At:    job.CreatedAt,
	})
	s.logger.Info("job enqueued", "id", job.ID, "url", job.URL, "quality", job.Quality.String())

	if s.started {
		s.scheduleLocked()
	}

	return job.ID, nil
}

// Start begins the scheduling loop. Calling it while already running is a
// no-op. It returns the recorded fault if the orchestrator can no longer
// spawn engine processes.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return ErrShutdown
	}
	if s.fault != nil {
		return s.fault
	}
	if s.started {
		return nil
	}

	s.started = true
	s.scheduleLocked()
	return nil
}

// Cancel cancels a job. Queued jobs fail immediately with reason Cancelled;
// Running jobs get their subprocess terminated and stay Running until the
// termination is observed; terminal jobs are left untouched.
func (s *Service) Cancel(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	switch job.State {
	case model.JobStateQueued:
		s.removeFromQueueLocked(jobID)
		s.transitionLocked(job, model.JobStateFailed, model.FailureCancelled, "")
		s.cond.Broadcast()
	case model.JobStateRunning:
		if cancel, ok := s.cancels[jobID]; ok {
			cancel()
		}
	default:
		// Already terminal
	}

	return nil
}

// Snapshot returns consistent point-in-time copies of all known jobs,
// ordered by enqueue time
func (s *Service) Snapshot() []model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]model.Job, 0, len(s.order))
	for _, id := range s.order {
		jobs = append(jobs, *s.jobs[id])
	}
	return jobs
}

// Summary returns the aggregate outcome over jobs that reached a terminal
// state
func (s *Service) Summary() model.BatchSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary model.BatchSummary
	for _, job := range s.jobs {
		switch job.State {
		case model.JobStateSucceeded:
			summary.Succeeded++
		case model.JobStateFailed:
			summary.Failed++
		}
	}
	return summary
}

// Wait blocks until the queue is drained and no jobs are running
func (s *Service) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) > 0 || s.running > 0 {
		s.cond.Wait()
	}
}

// Fault returns the recorded orchestrator-level error, if any
func (s *Service) Fault() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

// Shutdown cancels all queued jobs, terminates all running subprocesses,
// waits until every job is terminal and closes the event stream. It is the
// one intentionally blocking operation.
func (s *Service) Shutdown() {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		s.wg.Wait()
		return
	}
	s.shutdown = true

	for _, id := range s.queue {
		s.transitionLocked(s.jobs[id], model.JobStateFailed, model.FailureCancelled, "")
	}
	s.queue = nil
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cond.Broadcast()
	s.mu.Unlock()

	s.wg.Wait()
	s.hub.close()
	s.logger.Info("orchestrator shut down")
}

// scheduleLocked admits queued jobs while capacity exists. Caller holds mu.
func (s *Service) scheduleLocked() {
	for s.running < s.maxParallel && len(s.queue) > 0 {
		id := s.queue[0]
		s.queue = s.queue[1:]

		job := s.jobs[id]
		if job.State != model.JobStateQueued {
			continue
		}

		s.running++
		s.transitionLocked(job, model.JobStateRunning, "", "")

		ctx, cancel := context.WithCancel(context.Background())
		s.cancels[id] = cancel

		s.wg.Add(1)
		go s.runJob(ctx, cancel, id, job.URL, job.Quality)
	}
}

// runJob supervises a single engine fetch and records the terminal outcome
func (s *Service) runJob(ctx context.Context, cancel context.CancelFunc, jobID, url string, quality model.Quality) {
	defer s.wg.Done()
	defer cancel()

	req := engine.Request{
		URL:       url,
		Quality:   quality,
		OutputDir: s.downloadDir,
	}

	outputPath, err := s.engine.Fetch(ctx, req, func(p engine.Progress) {
		s.recordProgress(jobID, p)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	job := s.jobs[jobID]
	delete(s.cancels, jobID)
	s.running--

	switch {
	case err == nil:
		job.OutputPath = outputPath
		job.Percent = 100
		s.transitionLocked(job, model.JobStateSucceeded, "", "")
	case errors.Is(err, engine.ErrSpawn):
		// The system cannot launch processes at all; record the fault so
		// callers of Enqueue/Start see it, and fail the job
		if s.fault == nil {
			s.fault = fmt.Errorf("%w: %v", ErrOrchestratorFault, err)
		}
		s.transitionLocked(job, model.JobStateFailed, model.FailureSubprocessError, engine.TruncateDetail(err.Error()))
	case ctx.Err() != nil:
		s.transitionLocked(job, model.JobStateFailed, model.FailureCancelled, "")
	default:
		reason, detail := engine.Classify(err)
		s.transitionLocked(job, model.JobStateFailed, reason, detail)
	}

	if !s.shutdown {
		s.scheduleLocked()
	}
	s.cond.Broadcast()
}

// recordProgress updates the job table from an engine progress observation
// and forwards a copy to the progress callback
func (s *Service) recordProgress(jobID string, p engine.Progress) {
	s.mu.Lock()
	job, exists := s.jobs[jobID]
	if !exists || job.State != model.JobStateRunning {
		s.mu.Unlock()
		return
	}

	job.LastStatus = p.Line
	if p.HasPercent {
		job.Percent = p.Percent
	}
	jobCopy := *job
	callback := s.onProgress
	s.mu.Unlock()

	if callback != nil {
		callback(jobCopy)
	}
}

// transitionLocked performs a single forward state transition: it mutates
// the job, stamps timestamps and publishes the corresponding event. Caller
// holds mu. Terminal states are never overwritten.
func (s *Service) transitionLocked(job *model.Job, to model.JobState, reason model.FailureReason, detail string) {
	if job.State.IsTerminal() {
		return
	}

	from := job.State
	now := time.Now()

	job.State = to
	switch to {
	case model.JobStateRunning:
		job.StartedAt = now
	case model.JobStateSucceeded:
		job.FinishedAt = now
	case model.JobStateFailed:
		job.Reason = reason
		job.ReasonDetail = detail
		job.FinishedAt = now
	}

	s.hub.publish(model.StateChange{
		JobID:  job.ID,
		URL:    job.URL,
		From:   from,
		To:     to,
		Reason: reason,
		Detail: detail,
		At:     now,
	})

	if to == model.JobStateFailed {
		s.logger.Info("job failed", "id", job.ID, "reason", reason.String(), "detail", detail)
	} else {
		s.logger.Info("job state changed", "id", job.ID, "from", from.String(), "to", to.String())
	}
}

// removeFromQueueLocked drops a job ID from the admission queue. Caller
// holds mu.
func (s *Service) removeFromQueueLocked(jobID string) {
	for i, id := range s.queue {
		if id == jobID {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// generateJobID generates a unique job ID using UUID v7 for better
// uniqueness and time ordering
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
