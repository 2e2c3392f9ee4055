package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/deusflow/ytannounce/internal/app"
	"github.com/deusflow/ytannounce/internal/config"
	"github.com/deusflow/ytannounce/internal/logger"
	"github.com/deusflow/ytannounce/internal/metrics"
)

func newWatchCmd() *cobra.Command {
	var (
		schedule   string
		immediate  bool
		monitoring bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run announcement passes on a schedule",
		Long: "Run announcement passes on a cron schedule (WATCH_SCHEDULE, default @every 10m) and " +
			"serve /health and /metrics on MONITORING_PORT. A tick is skipped while the previous " +
			"pass is still running.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup((*config.Config).Validate)
			if err != nil {
				return err
			}
			if schedule != "" {
				cfg.WatchSchedule = schedule
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			if monitoring {
				srv := startMonitoringServer(cfg.MonitoringPort, a.Metrics)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			return watch(ctx, cfg, a, immediate)
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron spec or descriptor, overrides WATCH_SCHEDULE")
	cmd.Flags().BoolVar(&immediate, "now", true, "run once immediately before the first tick")
	cmd.Flags().BoolVar(&monitoring, "monitoring", true, "serve /health and /metrics")
	return cmd
}

func watch(ctx context.Context, cfg *config.Config, a *app.App, immediate bool) error {
	log := logger.With("watch")
	cronLog := cron.PrintfLogger(&log)

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	pass := func() {
		if _, err := a.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("announcement pass failed")
		}
	}
	id, err := c.AddFunc(cfg.WatchSchedule, pass)
	if err != nil {
		return err
	}

	log.Info().Str("schedule", cfg.WatchSchedule).Msg("watching channel")
	c.Start()
	if immediate {
		// Runs through the chain so a slow first pass also blocks ticks.
		go c.Entry(id).WrappedJob.Run()
	}

	<-ctx.Done()
	log.Info().Msg("stopping, waiting for the running pass")
	<-c.Stop().Done()
	return nil
}

func startMonitoringServer(port string, m *metrics.Metrics) *http.Server {
	log := logger.With("monitoring")

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler(m))
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("port", port).Msg("starting monitoring server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("monitoring server error")
		}
	}()
	return srv
}

func healthHandler(m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := m.GetStats()

		status := "ok"
		if !stats["is_healthy"].(bool) {
			status = "error"
		}

		response := map[string]interface{}{
			"status":      status,
			"last_run":    stats["last_run_time"],
			"last_status": stats["last_status"],
			"last_error":  stats["last_error"],
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}
