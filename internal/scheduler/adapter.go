package scheduler

import (
	"time"

	"github.com/aatumaykin/cronex/internal/cron"
)

// cronSchedule adapts a cron.Schedule to robfig's Schedule interface.
// robfig treats a zero time as "never again", which is what an exhausted
// schedule returns.
type cronSchedule struct {
	sched *cron.Schedule
	loc   *time.Location
}

func (c cronSchedule) Next(t time.Time) time.Time {
	next, ok := c.sched.Next(c.loc, t)
	if !ok {
		return time.Time{}
	}
	return next
}
