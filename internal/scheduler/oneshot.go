package scheduler

import (
	"github.com/aatumaykin/cronex/internal/logger"
)

// runDueOneshots executes every oneshot job whose time has come. Jobs are
// marked executed before dispatch so that overlapping checks never run a job
// twice.
func (s *Scheduler) runDueOneshots() {
	now := s.now()

	s.mu.Lock()
	var due []Job
	for id, job := range s.jobs {
		if !job.due(now) {
			continue
		}
		executedAt := now
		job.Executed = true
		job.ExecutedAt = &executedAt
		s.jobs[id] = job
		s.metrics.SetNextFire(id, s.nextRun(job))
		due = append(due, job)
	}
	s.mu.Unlock()

	for _, job := range due {
		s.dispatch(job, job.ExecuteAt.In(s.loc))

		if s.storage != nil {
			if err := s.storage.UpsertJob(job); err != nil {
				s.logger.Error("failed to update oneshot job as executed", err,
					logger.Field{Key: "job_id", Value: job.ID})
			}
		}
		s.logger.Info("executed oneshot job",
			logger.Field{Key: "job_id", Value: job.ID},
			logger.Field{Key: "execute_at", Value: job.ExecuteAt})
	}
}

// CleanupExecutedOneshots forgets oneshot jobs that already ran, in memory and
// in storage, and returns how many were removed from memory.
func (s *Scheduler) CleanupExecutedOneshots() int {
	s.mu.Lock()
	removed := 0
	for id, job := range s.jobs {
		if job.Type == JobTypeOneshot && job.Executed {
			delete(s.jobs, id)
			s.metrics.ForgetJob(id)
			removed++
		}
	}
	remaining := len(s.jobs)
	s.metrics.SetJobCount(remaining)
	s.mu.Unlock()

	if s.storage != nil {
		if _, err := s.storage.RemoveExecutedOneshots(); err != nil {
			s.logger.Error("failed to remove executed oneshots", err)
		}
	}

	s.logger.Info("cleaned up executed oneshot jobs",
		logger.Field{Key: "removed", Value: removed},
		logger.Field{Key: "remaining_jobs", Value: remaining})
	return removed
}
