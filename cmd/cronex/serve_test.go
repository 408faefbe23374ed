package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/cronex/internal/config"
	"github.com/aatumaykin/cronex/internal/logger"
	"github.com/aatumaykin/cronex/internal/metrics"
	"github.com/aatumaykin/cronex/internal/scheduler"
)

func TestMetricsServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New("cronex", reg)
	m.SetJobCount(2)

	srv := httptest.NewServer(newMetricsServer(":0", reg).Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "cronex_jobs_registered 2")
}

func TestRunServe_RunsJobs(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "out.txt")

	cfg := config.Default()
	cfg.Schedule.Timezone = "UTC"
	cfg.Jobs.Path = filepath.Join(dir, "jobs.jsonl")
	cfg.Jobs.TimeoutSeconds = 5
	cfg.Workers.PoolSize = 2

	storage := scheduler.NewStorage(cfg.Jobs.Path, logger.Nop())
	require.NoError(t, storage.UpsertJob(scheduler.Job{
		ID:       "tick",
		Type:     scheduler.JobTypeRecurring,
		Schedule: "* * * * * *",
		Command:  `echo "$CRONEX_JOB_ID" >> ` + outFile,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg, logger.Nop()) }()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(outFile)
		return err == nil && strings.Contains(string(data), "tick")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not stop")
	}
}

func TestRunServe_InvalidStore(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Schedule.Timezone = "UTC"
	cfg.Jobs.Path = filepath.Join(dir, "jobs.jsonl")
	// a directory in place of the store file makes loading fail
	require.NoError(t, os.Mkdir(cfg.Jobs.Path, 0755))

	err := runServe(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
