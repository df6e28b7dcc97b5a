package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JonMunkholm/datasweep/internal/config"
	"github.com/JonMunkholm/datasweep/internal/core"
	"github.com/JonMunkholm/datasweep/internal/logging"
	"github.com/JonMunkholm/datasweep/internal/metrics"
	"github.com/JonMunkholm/datasweep/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"upload_max_files", cfg.Upload.MaxFiles,
		"workspace_ttl", cfg.Pipeline.WorkspaceTTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipeline, err := metrics.NewPipeline(reg)
	if err != nil {
		slog.Error("failed to register pipeline metrics", "error", err)
		os.Exit(1)
	}

	service := core.NewService(core.Options{
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		Observer:      pipeline,
		Defaults: &core.Recipe{
			PreviewRows: cfg.Pipeline.PreviewRows,
			ChartLimit:  cfg.Pipeline.ChartLimit,
			Format:      core.FormatCSV,
		},
	})

	server, err := web.NewServer(service, cfg, reg)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	go service.StartJanitor(jobCtx, core.JanitorConfig{
		Interval: cfg.Pipeline.JanitorInterval,
		TTL:      cfg.Pipeline.WorkspaceTTL,
	})
	server.StartBackground(jobCtx)

	// Graceful shutdown
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.UploadLimiterStatus(); status.Active > 0 {
			slog.Info("waiting for uploads to complete", "active", status.Active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			} else {
				slog.Info("all uploads completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-stopped
	slog.Info("server stopped")
}
