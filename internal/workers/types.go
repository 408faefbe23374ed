// Package workers provides an async worker pool for background task execution.
// Every task is run by a single TaskExecutor and its outcome is published on a
// result channel for asynchronous monitoring.
package workers

import (
	"context"
	"errors"
	"time"
)

// ErrPoolStopped is returned when a task is submitted after Stop.
var ErrPoolStopped = errors.New("worker pool stopped")

// Task represents a unit of work to be executed by a worker.
type Task struct {
	ID      string          // Unique task identifier
	JobID   string          // Job that produced the task
	Type    string          // Job type: "recurring" or "oneshot"
	Payload any             // Executor specific payload
	Context context.Context // Optional task context for cancellation
	Timeout time.Duration   // Optional execution limit, zero means none
}

// Result represents the outcome of a task execution.
type Result struct {
	TaskID   string
	JobID    string
	Type     string
	Error    error
	Output   string
	Duration time.Duration
}

// PoolMetrics tracks execution metrics for the worker pool.
type PoolMetrics struct {
	TasksSubmitted uint64
	TasksCompleted uint64
	TasksFailed    uint64
	TotalDuration  time.Duration
}

// TaskExecutor runs a task and returns its output.
type TaskExecutor func(context.Context, Task) (string, error)

const (
	DefaultTaskTimeout = 30 * time.Second
	DefaultPoolSize    = 5
	DefaultQueueSize   = 100
)
