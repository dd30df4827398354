// Package scheduler runs periodic background jobs for SkillSwap Hub, such
// as warming the categories cache and sweeping expired in-memory state.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job defines the interface that all scheduled jobs must implement.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job.
	// The context is cancelled when the scheduler is stopping.
	Run(ctx context.Context) error
}

// Schedule defines when a job should run.
type Schedule interface {
	// Next returns the next time the job should run after the given time.
	Next(t time.Time) time.Time

	String() string
}

// JobFunc adapts a function to Job.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

// Name implements Job.
func (j JobFunc) Name() string { return j.JobName }

// Run implements Job.
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// JobResult contains the result of a job execution.
type JobResult struct {
	JobName   string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
}

// Success reports whether the run finished without error.
func (r JobResult) Success() bool { return r.Err == nil }

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the Scheduler.
type Config struct {
	Logger *logger.Logger

	// TickInterval is how often due jobs are checked (default: 1s).
	TickInterval time.Duration

	// RunOnStart runs every job once when the scheduler starts.
	RunOnStart bool
}

// Scheduler manages and executes scheduled jobs. A job never overlaps
// with itself: a due job that is still running is skipped.
type Scheduler struct {
	mu   sync.Mutex
	log  *logger.Logger
	tick time.Duration
	now  func() time.Time

	runOnStart bool
	jobs       map[string]*scheduledJob

	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type scheduledJob struct {
	job      Job
	schedule Schedule
	nextRun  time.Time
	busy     bool
	runCount int64
	last     *JobResult
}

// New creates a new Scheduler.
func New(cfg Config) *Scheduler {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &Scheduler{
		log:        cfg.Logger.With(logger.Component("scheduler")),
		tick:       cfg.TickInterval,
		now:        time.Now,
		runOnStart: cfg.RunOnStart,
		jobs:       make(map[string]*scheduledJob),
	}
}

// Register adds a job with the given schedule.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil {
		return ErrNilJob
	}
	if schedule == nil {
		return ErrNilSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, name)
	}

	sj := &scheduledJob{job: job, schedule: schedule, nextRun: schedule.Next(s.now())}
	s.jobs[name] = sj

	s.log.Info("job registered",
		logger.String("job", name),
		logger.String("schedule", schedule.String()),
	)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSchedulerAlreadyRunning
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	if s.runOnStart {
		for _, sj := range s.jobs {
			sj.nextRun = time.Time{}
		}
	}
	count := len(s.jobs)
	s.mu.Unlock()

	s.log.Info("scheduler started", logger.Int("jobs_count", count))

	s.wg.Add(1)
	go s.runLoop(ctx)
	return nil
}

// Stop cancels the loop and waits for running jobs to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	s.runDue(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

func (s *Scheduler) runDue(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	var due []*scheduledJob
	for _, sj := range s.jobs {
		if !sj.busy && !now.Before(sj.nextRun) {
			sj.busy = true
			sj.nextRun = sj.schedule.Next(now)
			due = append(due, sj)
		}
	}
	s.mu.Unlock()

	for _, sj := range due {
		s.wg.Add(1)
		go func(sj *scheduledJob) {
			defer s.wg.Done()
			s.execute(ctx, sj)
		}(sj)
	}
}

func (s *Scheduler) execute(ctx context.Context, sj *scheduledJob) JobResult {
	name := sj.job.Name()
	started := s.now()
	err := sj.job.Run(ctx)
	result := JobResult{JobName: name, StartedAt: started, Duration: time.Since(started), Err: err}

	s.mu.Lock()
	sj.busy = false
	sj.runCount++
	sj.last = &result
	s.mu.Unlock()

	switch {
	case err == nil:
		s.log.Debug("job completed", logger.String("job", name), logger.Latency(result.Duration))
	case errors.Is(err, context.Canceled):
		s.log.Info("job cancelled", logger.String("job", name))
	default:
		s.log.Error("job failed", logger.String("job", name), logger.Latency(result.Duration), logger.Err(err))
	}
	return result
}

// RunNow executes a job immediately, ignoring its schedule.
func (s *Scheduler) RunNow(ctx context.Context, jobName string) (JobResult, error) {
	s.mu.Lock()
	sj, exists := s.jobs[jobName]
	if exists && sj.busy {
		s.mu.Unlock()
		return JobResult{}, fmt.Errorf("%w: %s", ErrJobBusy, jobName)
	}
	if exists {
		sj.busy = true
	}
	s.mu.Unlock()

	if !exists {
		return JobResult{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobName)
	}
	result := s.execute(ctx, sj)
	return result, result.Err
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// JobInfo contains information about a registered job.
type JobInfo struct {
	Name       string
	Schedule   string
	NextRun    time.Time
	RunCount   int64
	LastResult *JobResult
}

// ListJobs returns all registered jobs sorted by name.
func (s *Scheduler) ListJobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, sj := range s.jobs {
		infos = append(infos, JobInfo{
			Name:       name,
			Schedule:   sj.schedule.String(),
			NextRun:    sj.nextRun,
			RunCount:   sj.runCount,
			LastResult: sj.last,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrNilJob                  = errors.New("scheduler: job cannot be nil")
	ErrNilSchedule             = errors.New("scheduler: schedule cannot be nil")
	ErrJobAlreadyExists        = errors.New("scheduler: job already exists")
	ErrJobNotFound             = errors.New("scheduler: job not found")
	ErrJobBusy                 = errors.New("scheduler: job is already running")
	ErrSchedulerAlreadyRunning = errors.New("scheduler: already running")
	ErrSchedulerNotRunning     = errors.New("scheduler: not running")
)
