package workers

import (
	"context"
	"sync"

	"github.com/aatumaykin/cronex/internal/logger"
)

// WorkerPool manages a pool of goroutine workers for concurrent task execution.
type WorkerPool struct {
	taskQueue chan Task
	resultCh  chan Result
	workers   int
	executor  TaskExecutor

	wg       sync.WaitGroup
	mu       sync.RWMutex
	metrics  PoolMetrics
	stopOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc
	logger *logger.Logger
}

// NewPool creates a new worker pool. Non-positive sizes fall back to the
// package defaults.
func NewPool(workers int, bufferSize int, log *logger.Logger, executor TaskExecutor) *WorkerPool {
	if workers <= 0 {
		workers = DefaultPoolSize
	}
	if bufferSize <= 0 {
		bufferSize = DefaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		taskQueue: make(chan Task, bufferSize),
		resultCh:  make(chan Result, bufferSize),
		workers:   workers,
		executor:  executor,
		ctx:       ctx,
		cancel:    cancel,
		logger:    log,
	}
}

// Start initializes and starts all worker goroutines.
func (p *WorkerPool) Start() {
	p.logger.Info("starting worker pool",
		logger.Field{Key: "workers", Value: p.workers},
		logger.Field{Key: "buffer_size", Value: cap(p.taskQueue)})

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit sends a task to the worker pool for execution.
// It blocks if the task queue is full.
func (p *WorkerPool) Submit(task Task) error {
	return p.SubmitWithContext(context.Background(), task)
}

// SubmitWithContext is Submit that gives up when ctx is done.
func (p *WorkerPool) SubmitWithContext(ctx context.Context, task Task) error {
	if p.ctx.Err() != nil {
		return ErrPoolStopped
	}

	select {
	case p.taskQueue <- task:
	case <-p.ctx.Done():
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	p.incrementSubmitted()
	p.logger.DebugCtx(ctx, "task submitted",
		logger.Field{Key: "task_id", Value: task.ID},
		logger.Field{Key: "job_id", Value: task.JobID})
	return nil
}

// Results returns a read-only channel for receiving task results.
// The channel is closed by Stop.
func (p *WorkerPool) Results() <-chan Result {
	return p.resultCh
}

// Stop cancels running tasks, waits for the workers to exit and closes the
// result channel. Tasks still queued are dropped. Stop is idempotent.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()

		metrics := p.Metrics()
		p.logger.Info("worker pool stopped",
			logger.Field{Key: "tasks_submitted", Value: metrics.TasksSubmitted},
			logger.Field{Key: "tasks_completed", Value: metrics.TasksCompleted},
			logger.Field{Key: "tasks_failed", Value: metrics.TasksFailed},
			logger.Field{Key: "tasks_dropped", Value: len(p.taskQueue)})

		close(p.resultCh)
	})
}

// WorkerCount returns the number of workers.
func (p *WorkerPool) WorkerCount() int {
	return p.workers
}

// QueueSize returns the current number of tasks waiting in the queue.
func (p *WorkerPool) QueueSize() int {
	return len(p.taskQueue)
}
