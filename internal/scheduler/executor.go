package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aatumaykin/cronex/internal/constants"
	"github.com/aatumaykin/cronex/internal/logger"
	"github.com/aatumaykin/cronex/internal/workers"
)

// dispatch hands one run of job to the worker pool, or runs it inline when
// there is no pool.
func (s *Scheduler) dispatch(job Job, scheduledAt time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panic recovered", fmt.Errorf("panic: %v", r),
				logger.Field{Key: "job_id", Value: job.ID})
		}
	}()

	s.metrics.RecordFire(string(job.Type))

	task := workers.Task{
		ID:    uuid.NewString(),
		JobID: job.ID,
		Type:  string(job.Type),
		Payload: workers.CommandPayload{
			Command: job.Command,
			Env:     jobEnv(job, scheduledAt),
		},
		Context: s.runContext(),
	}

	if s.pool != nil {
		ctx, cancel := context.WithTimeout(task.Context, submitTimeout)
		defer cancel()

		if err := s.pool.SubmitWithContext(ctx, task); err != nil {
			s.metrics.RecordSubmitFailure()
			s.logger.Error("failed to submit job to worker pool", err,
				logger.Field{Key: "job_id", Value: job.ID},
				logger.Field{Key: "task_id", Value: task.ID})
			return
		}
		s.logger.Info("job submitted to worker pool",
			logger.Field{Key: "job_id", Value: job.ID},
			logger.Field{Key: "task_id", Value: task.ID},
			logger.Field{Key: "scheduled_at", Value: scheduledAt})
		return
	}

	s.mu.RLock()
	exec := s.executor
	s.mu.RUnlock()
	if exec == nil {
		s.logger.Warn("job fired without an executor",
			logger.Field{Key: "job_id", Value: job.ID})
		return
	}

	start := time.Now()
	output, err := exec(task.Context, task)
	s.HandleResult(workers.Result{
		TaskID:   task.ID,
		JobID:    job.ID,
		Type:     task.Type,
		Output:   output,
		Error:    err,
		Duration: time.Since(start),
	})
}

// HandleResult records the outcome of a finished job run.
func (s *Scheduler) HandleResult(result workers.Result) {
	s.metrics.RecordExecution(result.Error, result.Duration)

	fields := []logger.Field{
		{Key: "job_id", Value: result.JobID},
		{Key: "task_id", Value: result.TaskID},
		{Key: "duration_ms", Value: result.Duration.Milliseconds()},
	}
	if result.Error != nil {
		s.logger.Error("job failed", result.Error,
			append(fields, logger.Field{Key: "output", Value: result.Output})...)
		return
	}
	s.logger.Info("job completed", fields...)
	if result.Output != "" {
		s.logger.Debug("job output", append(fields, logger.Field{Key: "output", Value: result.Output})...)
	}
}

// WatchResults consumes pool results until the channel is closed.
func (s *Scheduler) WatchResults(results <-chan workers.Result) {
	for result := range results {
		s.HandleResult(result)
	}
}

// jobEnv exposes job details to the command as environment variables.
func jobEnv(job Job, scheduledAt time.Time) []string {
	env := []string{
		constants.EnvPrefix + "JOB_ID=" + job.ID,
		constants.EnvPrefix + "JOB_NAME=" + job.Name,
		constants.EnvPrefix + "JOB_TYPE=" + string(job.Type),
		constants.EnvPrefix + "SCHEDULED_AT=" + scheduledAt.Format(time.RFC3339),
	}
	for key, value := range job.Metadata {
		env = append(env, constants.EnvPrefix+"META_"+envKey(key)+"="+value)
	}
	return env
}

func envKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
}
