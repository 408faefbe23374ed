package scheduler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	robfig "github.com/robfig/cron/v3"

	"github.com/aatumaykin/cronex/internal/cron"
	"github.com/aatumaykin/cronex/internal/logger"
	"github.com/aatumaykin/cronex/internal/metrics"
	"github.com/aatumaykin/cronex/internal/workers"
)

const (
	defaultOneshotInterval = time.Minute
	defaultCleanupInterval = 24 * time.Hour
	submitTimeout          = 5 * time.Second
)

// TaskSubmitter hands fired jobs to an executor. *workers.WorkerPool
// satisfies it.
type TaskSubmitter interface {
	SubmitWithContext(ctx context.Context, task workers.Task) error
}

// Scheduler manages job scheduling and execution
type Scheduler struct {
	cron     *robfig.Cron
	loc      *time.Location
	logger   *logger.Logger
	pool     TaskSubmitter
	executor workers.TaskExecutor // inline fallback when pool is nil
	storage  *Storage
	metrics  *metrics.Metrics
	now      func() time.Time

	oneshotInterval time.Duration
	cleanupInterval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	mu      sync.RWMutex

	jobs      map[string]Job
	schedules map[string]*cron.Schedule
	entryIDs  map[string]robfig.EntryID
}

// NewScheduler creates a scheduler evaluating expressions in loc (UTC when
// nil). pool, storage and m may be nil.
func NewScheduler(log *logger.Logger, pool TaskSubmitter, storage *Storage, m *metrics.Metrics, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		loc:             loc,
		logger:          log,
		pool:            pool,
		storage:         storage,
		metrics:         m,
		now:             time.Now,
		oneshotInterval: defaultOneshotInterval,
		cleanupInterval: defaultCleanupInterval,
		jobs:            make(map[string]Job),
		schedules:       make(map[string]*cron.Schedule),
		entryIDs:        make(map[string]robfig.EntryID),
	}
	s.cron = robfig.New(
		robfig.WithLocation(loc),
		robfig.WithLogger(cronLogger{log}),
		robfig.WithChain(robfig.Recover(cronLogger{log})),
	)
	return s
}

// SetExecutor sets the executor used when no worker pool is configured.
func (s *Scheduler) SetExecutor(exec workers.TaskExecutor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executor = exec
}

// Location returns the zone schedules are evaluated in.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// Start starts firing jobs. It returns immediately; the scheduler runs until
// ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("scheduler already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.started = true

	s.cron.Start()
	s.logger.Info("scheduler started",
		logger.Field{Key: "jobs", Value: len(s.jobs)},
		logger.Field{Key: "location", Value: s.loc.String()})

	go s.run(s.ctx, s.done)
	return nil
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	oneshots := time.NewTicker(s.oneshotInterval)
	defer oneshots.Stop()
	cleanup := time.NewTicker(s.cleanupInterval)
	defer cleanup.Stop()

	// catch up oneshots that became due while nothing was running
	s.runDueOneshots()

	for {
		select {
		case <-ctx.Done():
			<-s.cron.Stop().Done()
			s.logger.Info("scheduler stopped")
			return
		case <-oneshots.C:
			s.runDueOneshots()
		case <-cleanup.C:
			s.CleanupExecutedOneshots()
		}
	}
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return errors.New("scheduler not started")
	}
	s.cancel()
	s.started = false
	done := s.done
	s.mu.Unlock()

	<-done
	return nil
}

// IsStarted returns true if the scheduler is started
func (s *Scheduler) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// AddJob validates, registers and persists a job and returns its ID.
// A oneshot job that is already due runs immediately.
func (s *Scheduler) AddJob(job Job) (string, error) {
	job.normalize(s.now())

	s.mu.Lock()
	if _, exists := s.jobs[job.ID]; exists {
		s.mu.Unlock()
		return "", fmt.Errorf("job already exists: %s", job.ID)
	}
	if err := s.register(job); err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.UpsertJob(job); err != nil {
			s.logger.Error("failed to persist job to storage", err,
				logger.Field{Key: "job_id", Value: job.ID})
		}
	}

	if job.Type == JobTypeRecurring {
		s.logger.Info("job added",
			logger.Field{Key: "job_id", Value: job.ID},
			logger.Field{Key: "name", Value: job.Name},
			logger.Field{Key: "schedule", Value: job.Schedule})
	} else {
		s.logger.Info("job added",
			logger.Field{Key: "job_id", Value: job.ID},
			logger.Field{Key: "name", Value: job.Name},
			logger.Field{Key: "job_type", Value: job.Type},
			logger.Field{Key: "execute_at", Value: job.ExecuteAt})
	}

	if job.due(s.now()) {
		s.runDueOneshots()
	}
	return job.ID, nil
}

// register validates job and adds it to the registry. s.mu must be held.
func (s *Scheduler) register(job Job) error {
	sched, err := ValidateJob(job)
	if err != nil {
		return err
	}

	if sched != nil {
		id := job.ID
		entryID := s.cron.Schedule(cronSchedule{sched: sched, loc: s.loc}, robfig.FuncJob(func() {
			s.fire(id)
		}))
		s.schedules[id] = sched
		s.entryIDs[id] = entryID
	}
	s.jobs[job.ID] = job

	s.metrics.SetJobCount(len(s.jobs))
	s.metrics.SetNextFire(job.ID, s.nextRun(job))
	return nil
}

// RemoveJob removes a job from the scheduler and the store.
func (s *Scheduler) RemoveJob(jobID string) error {
	s.mu.Lock()
	job, exists := s.jobs[jobID]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("job not found: %s", jobID)
	}
	if entryID, ok := s.entryIDs[jobID]; ok {
		s.cron.Remove(entryID)
		delete(s.entryIDs, jobID)
	}
	delete(s.schedules, jobID)
	delete(s.jobs, jobID)
	s.metrics.SetJobCount(len(s.jobs))
	s.metrics.ForgetJob(jobID)
	s.mu.Unlock()

	if s.storage != nil {
		if _, err := s.storage.Remove(jobID); err != nil {
			s.logger.Error("failed to remove job from storage", err,
				logger.Field{Key: "job_id", Value: jobID})
		}
	}

	s.logger.Info("job removed",
		logger.Field{Key: "job_id", Value: jobID},
		logger.Field{Key: "job_type", Value: job.Type})
	return nil
}

// ListJobs returns all jobs ordered by creation time.
func (s *Scheduler) ListJobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	SortJobs(jobs)
	return jobs
}

// SortJobs orders jobs by creation time, then ID.
func SortJobs(jobs []Job) {
	slices.SortFunc(jobs, func(a, b Job) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// GetJob retrieves a specific job by ID
func (s *Scheduler) GetJob(jobID string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return Job{}, fmt.Errorf("job not found: %s", jobID)
	}
	return job, nil
}

// Restore loads persisted jobs into the registry and returns how many were
// restored. Invalid or duplicate entries are logged and skipped.
func (s *Scheduler) Restore() (int, error) {
	if s.storage == nil {
		return 0, nil
	}
	jobs, err := s.storage.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to restore jobs: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for _, job := range jobs {
		job.normalize(s.now())
		if _, exists := s.jobs[job.ID]; exists {
			s.logger.Warn("skipping duplicate job in storage",
				logger.Field{Key: "job_id", Value: job.ID})
			continue
		}
		if err := s.register(job); err != nil {
			s.logger.Error("skipping invalid job in storage", err,
				logger.Field{Key: "job_id", Value: job.ID})
			continue
		}
		restored++
	}

	s.logger.Info("jobs restored from storage",
		logger.Field{Key: "count", Value: restored},
		logger.Field{Key: "file", Value: s.storage.Path()})
	return restored, nil
}

// NextRuns returns up to n upcoming run times of a job, strictly after now.
func (s *Scheduler) NextRuns(jobID string, n int) ([]time.Time, error) {
	s.mu.RLock()
	job, exists := s.jobs[jobID]
	sched := s.schedules[jobID]
	s.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	if n <= 0 {
		return nil, nil
	}

	now := s.now()
	if sched == nil {
		if job.Executed || job.ExecuteAt == nil || !job.ExecuteAt.After(now) {
			return nil, nil
		}
		return []time.Time{*job.ExecuteAt}, nil
	}
	return cron.Take(sched.Generate(s.loc, now.Truncate(time.Second).Add(time.Second)), n), nil
}

// nextRun is the next planned run of job, or zero when there is none.
// s.mu must be held.
func (s *Scheduler) nextRun(job Job) time.Time {
	now := s.now()
	if sched, ok := s.schedules[job.ID]; ok {
		next, _ := sched.Next(s.loc, now)
		return next
	}
	if job.Executed || job.ExecuteAt == nil {
		return time.Time{}
	}
	return *job.ExecuteAt
}

// fire runs when robfig reports a recurring job as due.
func (s *Scheduler) fire(jobID string) {
	s.mu.RLock()
	job, exists := s.jobs[jobID]
	sched := s.schedules[jobID]
	s.mu.RUnlock()
	if !exists {
		return
	}

	scheduledAt := s.now().In(s.loc).Truncate(time.Second)
	s.dispatch(job, scheduledAt)

	if next, ok := sched.Next(s.loc, scheduledAt); ok {
		s.metrics.SetNextFire(jobID, next)
		return
	}
	s.metrics.SetNextFire(jobID, time.Time{})
	s.metrics.RecordExhausted()
	s.logger.Info("schedule exhausted, job will not fire again",
		logger.Field{Key: "job_id", Value: jobID},
		logger.Field{Key: "schedule", Value: job.Schedule})
}

// runContext is the scheduler context, or Background before Start.
func (s *Scheduler) runContext() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}

// cronLogger routes robfig's internal logging to our logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, pairs(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, err, pairs(keysAndValues)...)
}

func pairs(keysAndValues []any) []logger.Field {
	fields := make([]logger.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, logger.Field{Key: fmt.Sprint(keysAndValues[i]), Value: keysAndValues[i+1]})
	}
	return fields
}
