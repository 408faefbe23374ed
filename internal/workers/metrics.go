package workers

import (
	"time"
)

// Metrics returns a snapshot of the pool counters.
func (p *WorkerPool) Metrics() PoolMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.metrics
}

func (p *WorkerPool) incrementSubmitted() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics.TasksSubmitted++
}

// recordResult updates the counters for one finished task.
func (p *WorkerPool) recordResult(failed bool, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if failed {
		p.metrics.TasksFailed++
	} else {
		p.metrics.TasksCompleted++
	}
	p.metrics.TotalDuration += d
}
