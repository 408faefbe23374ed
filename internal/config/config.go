package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aatumaykin/cronex/internal/constants"
)

// Load reads a TOML configuration file, applies defaults and expands
// environment references.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes TOML configuration text.
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns a configuration made only of defaults.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate returns every problem found, not just the first.
func (c *Config) Validate() []error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}
	if c.Logging.Output == "" {
		errs = append(errs, fmt.Errorf("logging.output is required"))
	}

	if _, err := c.Schedule.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid schedule.timezone %q: %w", c.Schedule.Timezone, err))
	}
	if c.Schedule.PreviewCount < 1 {
		errs = append(errs, fmt.Errorf("schedule.preview_count must be >= 1"))
	}

	if err := validatePath(c.Jobs.Path, "jobs.path"); err != nil {
		errs = append(errs, err)
	}
	if c.Jobs.Shell == "" {
		errs = append(errs, fmt.Errorf("jobs.shell is required"))
	}
	if c.Jobs.TimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("jobs.timeout_seconds must be >= 1"))
	}

	if c.Workers.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("workers.pool_size must be >= 1"))
	}
	if c.Workers.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("workers.queue_size must be >= 1"))
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errs = append(errs, fmt.Errorf("metrics.listen is required when metrics are enabled"))
	}

	return errs
}

func validatePath(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains potentially dangerous path traversal sequence", fieldName)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}

	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Local"
	}
	if c.Schedule.PreviewCount == 0 {
		c.Schedule.PreviewCount = constants.DefaultPreviewCount
	}

	if c.Jobs.Path == "" {
		c.Jobs.Path = expandHome(constants.DefaultJobsPath)
	}
	if c.Jobs.Shell == "" {
		c.Jobs.Shell = "/bin/sh"
	}
	if c.Jobs.TimeoutSeconds == 0 {
		c.Jobs.TimeoutSeconds = 30
	}

	if c.Workers.PoolSize == 0 {
		c.Workers.PoolSize = 5
	}
	if c.Workers.QueueSize == 0 {
		c.Workers.QueueSize = 100
	}

	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9090"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "cronex"
	}
}

func expandEnvVars(c *Config) {
	for _, field := range []*string{
		&c.Logging.Level,
		&c.Logging.Output,
		&c.Schedule.Timezone,
		&c.Jobs.Path,
		&c.Jobs.Shell,
		&c.Metrics.Listen,
	} {
		*field = expandEnv(*field)
	}
	c.Logging.Output = expandHome(c.Logging.Output)
	c.Jobs.Path = expandHome(c.Jobs.Path)
}

// expandEnv expands a value of the form ${VAR} or ${VAR:default}.
// Other values are returned unchanged.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}
	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if key, defaultVal, ok := strings.Cut(content, ":"); ok {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return defaultVal
	}
	return os.Getenv(content)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
