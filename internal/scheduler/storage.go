package scheduler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aatumaykin/cronex/internal/logger"
)

// Storage persists jobs in JSON Lines format, one job per line.
// Rewrites go through a temporary file and a rename so a crash never leaves
// a half written store behind.
type Storage struct {
	mu       sync.Mutex
	filePath string
	logger   *logger.Logger
}

// NewStorage creates a Storage backed by the file at filePath.
func NewStorage(filePath string, log *logger.Logger) *Storage {
	return &Storage{
		filePath: filePath,
		logger:   log,
	}
}

// Path returns the backing file path.
func (s *Storage) Path() string {
	return s.filePath
}

// Load reads all jobs. A missing file yields an empty slice and malformed
// lines are logged and skipped.
func (s *Storage) Load() ([]Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Storage) load() ([]Job, error) {
	file, err := os.Open(s.filePath)
	if os.IsNotExist(err) {
		return []Job{}, nil
	}
	if err != nil {
		s.logger.Error("failed to open storage file", err,
			logger.Field{Key: "file", Value: s.filePath})
		return nil, fmt.Errorf("failed to open job store: %w", err)
	}
	defer file.Close()

	jobs := []Job{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var job Job
		if err := json.Unmarshal(line, &job); err != nil {
			s.logger.Error("failed to unmarshal job line", err,
				logger.Field{Key: "file", Value: s.filePath},
				logger.Field{Key: "line", Value: lineNum})
			continue
		}
		jobs = append(jobs, job)
	}

	if err := scanner.Err(); err != nil {
		s.logger.Error("error scanning storage file", err,
			logger.Field{Key: "file", Value: s.filePath})
		return nil, fmt.Errorf("failed to read job store: %w", err)
	}

	return jobs, nil
}

// Append adds a job to the end of the file without rewriting it.
func (s *Storage) Append(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDir(); err != nil {
		return err
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}

	file, err := os.OpenFile(s.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		s.logger.Error("failed to open storage file for append", err,
			logger.Field{Key: "file", Value: s.filePath})
		return fmt.Errorf("failed to open job store: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		s.logger.Error("failed to write job to storage", err,
			logger.Field{Key: "file", Value: s.filePath},
			logger.Field{Key: "job_id", Value: job.ID})
		return fmt.Errorf("failed to append job %s: %w", job.ID, err)
	}

	s.logger.Debug("job appended to storage",
		logger.Field{Key: "job_id", Value: job.ID},
		logger.Field{Key: "file", Value: s.filePath})
	return nil
}

// Save replaces the whole store with jobs.
func (s *Storage) Save(jobs []Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(jobs)
}

func (s *Storage) save(jobs []Job) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		s.logger.Error("failed to create temporary storage file", err,
			logger.Field{Key: "file", Value: tmpPath})
		return fmt.Errorf("failed to create temporary job store: %w", err)
	}

	writer := bufio.NewWriter(file)
	for _, job := range jobs {
		data, err := json.Marshal(job)
		if err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
		}
		writer.Write(data)
		writer.WriteByte('\n')
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary job store: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temporary job store: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary job store: %w", err)
	}

	if err := os.Rename(tmpPath, s.filePath); err != nil {
		s.logger.Error("failed to rename temporary file", err,
			logger.Field{Key: "from", Value: tmpPath},
			logger.Field{Key: "to", Value: s.filePath})
		return fmt.Errorf("failed to replace job store: %w", err)
	}

	s.logger.Debug("jobs saved to storage",
		logger.Field{Key: "count", Value: len(jobs)},
		logger.Field{Key: "file", Value: s.filePath})
	return nil
}

// UpsertJob replaces the job with the same ID or appends it.
func (s *Storage) UpsertJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs, err := s.load()
	if err != nil {
		return err
	}

	if job.Type == JobTypeOneshot {
		job.Schedule = ""
	}

	found := false
	for i := range jobs {
		if jobs[i].ID == job.ID {
			jobs[i] = job
			found = true
			break
		}
	}
	if !found {
		jobs = append(jobs, job)
	}

	if err := s.save(jobs); err != nil {
		return err
	}

	s.logger.Debug("job upserted to storage",
		logger.Field{Key: "job_id", Value: job.ID},
		logger.Field{Key: "updated", Value: found})
	return nil
}

// Remove deletes the job with jobID. It reports whether the job existed.
func (s *Storage) Remove(jobID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs, err := s.load()
	if err != nil {
		return false, err
	}

	filtered := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if job.ID != jobID {
			filtered = append(filtered, job)
		}
	}
	if len(filtered) == len(jobs) {
		s.logger.Warn("job not found for removal",
			logger.Field{Key: "job_id", Value: jobID})
		return false, nil
	}

	if err := s.save(filtered); err != nil {
		return false, err
	}

	s.logger.Debug("job removed from storage",
		logger.Field{Key: "job_id", Value: jobID})
	return true, nil
}

// RemoveExecutedOneshots drops oneshot jobs that already ran and returns how
// many were removed.
func (s *Storage) RemoveExecutedOneshots() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs, err := s.load()
	if err != nil {
		return 0, err
	}

	filtered := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if job.Type == JobTypeOneshot && job.Executed {
			continue
		}
		filtered = append(filtered, job)
	}

	removed := len(jobs) - len(filtered)
	if removed == 0 {
		s.logger.Debug("no executed oneshot jobs to remove")
		return 0, nil
	}

	if err := s.save(filtered); err != nil {
		return 0, err
	}

	s.logger.Info("removed executed oneshot jobs",
		logger.Field{Key: "count", Value: removed})
	return removed, nil
}

func (s *Storage) ensureDir() error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.logger.Error("failed to create storage directory", err,
			logger.Field{Key: "dir", Value: dir})
		return fmt.Errorf("failed to create job store directory: %w", err)
	}
	return nil
}
