package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aatumaykin/cronex/internal/logger"
)

// worker is the main worker goroutine that processes tasks from the queue.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	p.logger.DebugCtx(p.ctx, "worker started",
		logger.Field{Key: "worker_id", Value: id})

	for {
		select {
		case task := <-p.taskQueue:
			p.processTask(id, task)

		case <-p.ctx.Done():
			p.logger.DebugCtx(p.ctx, "worker stopping",
				logger.Field{Key: "worker_id", Value: id})
			return
		}
	}
}

// processTask handles a single task execution with metrics and error handling.
func (p *WorkerPool) processTask(workerID int, task Task) {
	startTime := time.Now()

	p.logger.DebugCtx(p.ctx, "processing task",
		logger.Field{Key: "worker_id", Value: workerID},
		logger.Field{Key: "task_id", Value: task.ID},
		logger.Field{Key: "job_id", Value: task.JobID})

	execCtx, cancel := p.taskContext(task)
	defer cancel()

	result := p.executeTask(execCtx, task)
	result.Duration = time.Since(startTime)

	p.recordResult(result.Error != nil, result.Duration)

	select {
	case p.resultCh <- result:
	case <-p.ctx.Done():
		p.logger.WarnCtx(p.ctx, "failed to send result, pool shutting down",
			logger.Field{Key: "task_id", Value: task.ID})
	}

	p.logger.DebugCtx(p.ctx, "task processed",
		logger.Field{Key: "worker_id", Value: workerID},
		logger.Field{Key: "task_id", Value: task.ID},
		logger.Field{Key: "duration_ms", Value: result.Duration.Milliseconds()},
		logger.Field{Key: "error", Value: result.Error})
}

// taskContext derives the execution context: the task context when given,
// bounded by pool shutdown and the task timeout.
func (p *WorkerPool) taskContext(task Task) (context.Context, context.CancelFunc) {
	parent := p.ctx
	if task.Context != nil {
		parent = task.Context
	}
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(p.ctx, cancel)
	if task.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, task.Timeout)
		return ctx, func() { cancelTimeout(); stop(); cancel() }
	}
	return ctx, func() { stop(); cancel() }
}

// executeTask runs the executor with panic recovery. A task whose context
// ends first reports the context error.
func (p *WorkerPool) executeTask(ctx context.Context, task Task) Result {
	result := Result{TaskID: task.ID, JobID: task.JobID, Type: task.Type}

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}
	if p.executor == nil {
		result.Error = errors.New("no task executor configured")
		return result
	}

	done := make(chan struct{})
	var output string
	var err error

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic during task execution: %v", r)
				p.logger.ErrorCtx(ctx, "task panic recovered", err,
					logger.Field{Key: "task_id", Value: task.ID})
			}
		}()

		output, err = p.executor(ctx, task)
	}()

	select {
	case <-done:
		result.Output = output
		result.Error = err
	case <-ctx.Done():
		result.Error = ctx.Err()
	}
	return result
}
