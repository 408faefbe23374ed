// Package config loads and validates cronex configuration.
// Configuration is a TOML file; string values may reference environment
// variables with ${VAR} or ${VAR:default} syntax.
//
// Sections:
//   - [logging]: level, format and output
//   - [schedule]: time zone used to evaluate expressions and preview size
//   - [jobs]: job store location and how job commands are run
//   - [workers]: worker pool sizing
//   - [metrics]: Prometheus endpoint
package config

import "time"

// Config is the root configuration.
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`
	Schedule ScheduleConfig `toml:"schedule"`
	Jobs     JobsConfig     `toml:"jobs"`
	Workers  WorkersConfig  `toml:"workers"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// ScheduleConfig controls how expressions are evaluated.
type ScheduleConfig struct {
	// Timezone is an IANA zone name, "Local" or "UTC".
	Timezone     string `toml:"timezone"`
	PreviewCount int    `toml:"preview_count"`
}

// Location resolves Timezone.
func (c ScheduleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// JobsConfig describes the job store and job execution.
type JobsConfig struct {
	Path           string `toml:"path"`
	Shell          string `toml:"shell"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-job execution timeout.
func (c JobsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type WorkersConfig struct {
	PoolSize  int `toml:"pool_size"`
	QueueSize int `toml:"queue_size"`
}

type MetricsConfig struct {
	Enabled   bool   `toml:"enabled"`
	Listen    string `toml:"listen"`
	Namespace string `toml:"namespace"`
}
