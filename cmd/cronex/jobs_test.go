package main

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/cronex/internal/logger"
	"github.com/aatumaykin/cronex/internal/scheduler"
)

var idPattern = regexp.MustCompile(`ID:\s+(\S+)`)

func TestJobsAddListRemove(t *testing.T) {
	configPath, jobsPath := writeConfig(t, "")

	out, err := execute(t, "jobs", "add", "0 0 3 * * *", "backup.sh",
		"--name", "nightly-backup", "--meta", "env=prod", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Job added successfully")
	assert.Contains(t, out, "nightly-backup")

	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2)
	id := m[1]

	jobs, err := scheduler.NewStorage(jobsPath, logger.Nop()).Load()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].ID)
	assert.Equal(t, scheduler.JobTypeRecurring, jobs[0].Type)
	assert.Equal(t, "0 0 3 * * *", jobs[0].Schedule)
	assert.Equal(t, map[string]string{"env": "prod"}, jobs[0].Metadata)

	out, err = execute(t, "jobs", "list", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduled Jobs:")
	assert.Contains(t, out, "backup.sh")
	assert.Contains(t, out, "env=prod")
	assert.Contains(t, out, "Next run:")
	assert.Contains(t, out, "Total: 1 job(s)")

	out, err = execute(t, "jobs", "list", "-o", "json", "--config", configPath)
	require.NoError(t, err)
	var views []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, id, views[0]["id"])
	assert.Contains(t, views[0], "next_run")

	out, err = execute(t, "jobs", "remove", id, "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "removed successfully")

	out, err = execute(t, "jobs", "list", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No scheduled jobs found.")
}

func TestJobsAdd_Oneshot(t *testing.T) {
	configPath, jobsPath := writeConfig(t, "")

	_, err := execute(t, "jobs", "add", "--at", "2030-01-01T00:00:00Z", "echo hi", "--config", configPath)
	require.NoError(t, err)

	jobs, err := scheduler.NewStorage(jobsPath, logger.Nop()).Load()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, scheduler.JobTypeOneshot, jobs[0].Type)
	require.NotNil(t, jobs[0].ExecuteAt)
	assert.Equal(t, 2030, jobs[0].ExecuteAt.Year())
	assert.Empty(t, jobs[0].Schedule)

	out, err := execute(t, "jobs", "list", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Run at:   2030-01-01T00:00:00Z")
	assert.Contains(t, out, "Next run: 2030-01-01T00:00:00Z")
}

func TestJobsAdd_Errors(t *testing.T) {
	configPath, jobsPath := writeConfig(t, "")

	_, err := execute(t, "jobs", "add", "not a cron", "echo", "--config", configPath)
	assert.Error(t, err)

	_, err = execute(t, "jobs", "add", "echo only", "--config", configPath)
	assert.ErrorContains(t, err, "expected <expression> <command>")

	_, err = execute(t, "jobs", "add", "--at", "tomorrow", "echo", "--config", configPath)
	assert.ErrorContains(t, err, "invalid --at")

	jobs, err := scheduler.NewStorage(jobsPath, logger.Nop()).Load()
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestJobsRemove_NotFound(t *testing.T) {
	configPath, _ := writeConfig(t, "")

	out, err := execute(t, "jobs", "remove", "missing", "--config", configPath)
	assert.ErrorContains(t, err, "job 'missing' not found")
	assert.Contains(t, out, "cronex jobs list")
}

func TestJobsList_ExhaustedSchedule(t *testing.T) {
	configPath, jobsPath := writeConfig(t, "")

	storage := scheduler.NewStorage(jobsPath, logger.Nop())
	require.NoError(t, storage.UpsertJob(scheduler.Job{
		ID:       "old",
		Type:     scheduler.JobTypeRecurring,
		Schedule: "0 0 0 1 1 2020",
		Command:  "true",
	}))

	out, err := execute(t, "jobs", "list", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Next run: never")
}
