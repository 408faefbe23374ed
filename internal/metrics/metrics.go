// Package metrics holds the Prometheus collectors of the scheduler runtime.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

type Metrics struct {
	jobsRegistered   prometheus.Gauge
	fires            *prometheus.CounterVec
	executions       *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	submitFailures   prometheus.Counter
	schedulesDrained prometheus.Counter
	nextFire         *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg, or with the
// default registerer when reg is nil.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		jobsRegistered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "jobs_registered",
				Help:      "Number of jobs known to the scheduler",
			},
		),
		fires: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_fires_total",
				Help:      "Total number of times a job became due",
			},
			[]string{"type"},
		),
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_executions_total",
				Help:      "Total number of finished job executions",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_execution_duration_seconds",
				Help:      "Duration of job executions",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"status"},
		),
		submitFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_submit_failures_total",
				Help:      "Fired jobs that could not be handed to the worker pool",
			},
		),
		schedulesDrained: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schedules_exhausted_total",
				Help:      "Recurring jobs whose schedule produced no further instants",
			},
		),
		nextFire: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "job_next_fire_timestamp_seconds",
				Help:      "Unix time of the next planned run per job",
			},
			[]string{"job_id"},
		),
	}

	reg.MustRegister(
		m.jobsRegistered,
		m.fires,
		m.executions,
		m.duration,
		m.submitFailures,
		m.schedulesDrained,
		m.nextFire,
	)

	return m
}

func (m *Metrics) SetJobCount(n int) {
	if m == nil {
		return
	}
	m.jobsRegistered.Set(float64(n))
}

func (m *Metrics) RecordFire(jobType string) {
	if m == nil {
		return
	}
	m.fires.WithLabelValues(jobType).Inc()
}

// RecordExecution counts a finished run under its status label.
func (m *Metrics) RecordExecution(err error, d time.Duration) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.executions.WithLabelValues(status).Inc()
	m.duration.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) RecordSubmitFailure() {
	if m == nil {
		return
	}
	m.submitFailures.Inc()
}

func (m *Metrics) RecordExhausted() {
	if m == nil {
		return
	}
	m.schedulesDrained.Inc()
}

// SetNextFire publishes the next run of a job. A zero time removes the series.
func (m *Metrics) SetNextFire(jobID string, next time.Time) {
	if m == nil {
		return
	}
	if next.IsZero() {
		m.nextFire.DeleteLabelValues(jobID)
		return
	}
	m.nextFire.WithLabelValues(jobID).Set(float64(next.Unix()))
}

func (m *Metrics) ForgetJob(jobID string) {
	if m == nil {
		return
	}
	m.nextFire.DeleteLabelValues(jobID)
}
