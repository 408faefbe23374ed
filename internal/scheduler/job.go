// Package scheduler fires named jobs on cron schedules.
// Recurring jobs are driven by robfig/cron using schedules from the
// internal/cron package; oneshot jobs run once at a fixed time. Fired jobs are
// handed to a worker pool and every job is persisted in a JSONL store.
package scheduler

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of a job
type JobType string

const (
	// JobTypeRecurring is a repeating job that runs on a schedule
	JobTypeRecurring JobType = "recurring"
	// JobTypeOneshot is a one-time job that runs once at the specified time
	JobTypeOneshot JobType = "oneshot"
)

// Job represents a scheduled job
type Job struct {
	ID         string            `json:"id" yaml:"id"`
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Type       JobType           `json:"type" yaml:"type"`
	Schedule   string            `json:"schedule,omitempty" yaml:"schedule,omitempty"`       // cron expression, recurring only
	ExecuteAt  *time.Time        `json:"execute_at,omitempty" yaml:"execute_at,omitempty"`   // oneshot only
	Command    string            `json:"command" yaml:"command"`                             // run with the configured shell
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`       // exported to the command environment
	Executed   bool              `json:"executed,omitempty" yaml:"executed,omitempty"`       // oneshot only
	ExecutedAt *time.Time        `json:"executed_at,omitempty" yaml:"executed_at,omitempty"` // oneshot only
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at"`
}

// NewJobID returns a fresh random job identifier.
func NewJobID() string {
	return uuid.NewString()
}

// DisplayName returns Name, or ID when the job is unnamed.
func (j Job) DisplayName() string {
	if j.Name != "" {
		return j.Name
	}
	return j.ID
}

// normalize fills defaulted fields in place.
func (j *Job) normalize(now time.Time) {
	if j.ID == "" {
		j.ID = NewJobID()
	}
	if j.Type == "" {
		j.Type = JobTypeRecurring
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
}

// due reports whether a oneshot job should run at now.
func (j Job) due(now time.Time) bool {
	return j.Type == JobTypeOneshot && !j.Executed && j.ExecuteAt != nil && !j.ExecuteAt.After(now)
}
