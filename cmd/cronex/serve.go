package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronex/internal/config"
	"github.com/aatumaykin/cronex/internal/constants"
	"github.com/aatumaykin/cronex/internal/logger"
	"github.com/aatumaykin/cronex/internal/metrics"
	"github.com/aatumaykin/cronex/internal/scheduler"
	"github.com/aatumaykin/cronex/internal/version"
	"github.com/aatumaykin/cronex/internal/workers"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the job scheduler",
		Long: `Restore jobs from the job store and run them on their schedules until
SIGINT or SIGTERM. Jobs run through a bounded worker pool with the configured
shell and timeout. With [metrics] enabled, Prometheus metrics are served on
/metrics.`,
		Args: cobra.NoArgs,
		RunE: serveHandler,
	}
	serveCmd.Flags().StringP("log-level", "l", "", "override logging.level")
	return serveCmd
}

func serveHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), constants.MsgConfigLoadError, err)
		return err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), constants.MsgConfigValidationError)
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), constants.MsgConfigValidatePrefix, e)
		}
		return fmt.Errorf("%d configuration error(s)", len(errs))
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServe(ctx, cfg, log)
}

// runServe runs the scheduler until ctx is done.
func runServe(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	loc, err := cfg.Schedule.Location()
	if err != nil {
		return err
	}

	log.Info(version.FormatStartupMessage(),
		logger.Field{Key: "jobs_path", Value: cfg.Jobs.Path},
		logger.Field{Key: "timezone", Value: loc.String()},
		logger.Field{Key: "workers", Value: cfg.Workers.PoolSize})

	var m *metrics.Metrics
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(cfg.Metrics.Namespace, reg)
		metricsServer = newMetricsServer(cfg.Metrics.Listen, reg)

		go func() {
			log.Info("metrics endpoint listening", logger.Field{Key: "addr", Value: cfg.Metrics.Listen})
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", err)
			}
		}()
	}

	pool := workers.NewPool(cfg.Workers.PoolSize, cfg.Workers.QueueSize, log,
		workers.ShellExecutor(cfg.Jobs.Shell, cfg.Jobs.Timeout()))
	pool.Start()

	storage := scheduler.NewStorage(cfg.Jobs.Path, log)
	sched := scheduler.NewScheduler(log, pool, storage, m, loc)

	if _, err := sched.Restore(); err != nil {
		pool.Stop()
		return err
	}

	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		sched.WatchResults(pool.Results())
	}()

	if err := sched.Start(ctx); err != nil {
		pool.Stop()
		return err
	}

	<-ctx.Done()
	log.Info("shutting down")

	if err := sched.Stop(); err != nil {
		log.Warn("scheduler stop", logger.Field{Key: "error", Value: err.Error()})
	}
	pool.Stop()
	<-watchDone

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error("metrics server shutdown failed", err)
		}
	}

	log.Info("cronex stopped")
	return nil
}

func newMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
