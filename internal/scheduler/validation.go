package scheduler

import (
	"fmt"
	"strings"

	"github.com/aatumaykin/cronex/internal/cron"
)

// ValidateJob checks a job before it is scheduled or stored. A recurring job
// gets its parsed schedule back; oneshot jobs return nil.
func ValidateJob(job Job) (*cron.Schedule, error) {
	if strings.TrimSpace(job.Command) == "" {
		return nil, fmt.Errorf("job %s: command is required", job.ID)
	}

	switch job.Type {
	case JobTypeOneshot:
		if job.Schedule != "" {
			return nil, fmt.Errorf("job %s: oneshot jobs cannot have schedule field", job.ID)
		}
		if job.ExecuteAt == nil {
			return nil, fmt.Errorf("job %s: oneshot jobs require execute_at", job.ID)
		}
		return nil, nil

	case JobTypeRecurring, "":
		if strings.TrimSpace(job.Schedule) == "" {
			return nil, fmt.Errorf("job %s: invalid cron expression: empty schedule", job.ID)
		}
		if job.ExecuteAt != nil {
			return nil, fmt.Errorf("job %s: recurring jobs cannot have execute_at", job.ID)
		}
		sched, err := cron.Parse(job.Schedule)
		if err != nil {
			return nil, fmt.Errorf("job %s: invalid cron expression: %w", job.ID, err)
		}
		return sched, nil

	default:
		return nil, fmt.Errorf("job %s: unknown job type %q", job.ID, job.Type)
	}
}
