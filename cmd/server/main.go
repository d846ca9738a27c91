package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iconidentify/archivelens/internal/api"
	"github.com/iconidentify/archivelens/internal/api/handler"
	"github.com/iconidentify/archivelens/internal/config"
	"github.com/iconidentify/archivelens/internal/conversation"
	"github.com/iconidentify/archivelens/internal/metrics"
	"github.com/iconidentify/archivelens/internal/repository"
	"github.com/iconidentify/archivelens/internal/session"
	"github.com/iconidentify/archivelens/pkg/archive"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("archivelens %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting archivelens",
		"version", Version,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize archive client
	client := archive.NewClient(archive.Config{
		BaseURL:           cfg.Archive.BaseURL,
		APIKey:            cfg.Archive.APIKey,
		Timeout:           cfg.Archive.Timeout,
		RequestsPerSecond: cfg.Archive.RequestsPerSecond,
		Retry: archive.RetryConfig{
			MaxAttempts:   cfg.Archive.RetryAttempts,
			InitialDelay:  cfg.Archive.RetryDelay,
			MaxDelay:      cfg.Archive.MaxRetryDelay,
			BackoffFactor: 2.0,
		},
	}, logger)
	client.SetRecorder(metrics.ArchiveRecorder{})

	// Optional on-disk post cache in front of the live client
	var fetcher session.Fetcher = client
	if cfg.Cache.Enabled {
		cache, err := repository.Open(cfg.Cache.Path, cfg.Cache.TTL, logger)
		if err != nil {
			logger.Error("failed to open post cache", "path", cfg.Cache.Path, "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		fetcher = repository.NewCachingFetcher(cache, client, logger)
		logger.Info("post cache enabled", "path", cfg.Cache.Path, "ttl", cfg.Cache.TTL)
	}

	// Initialize services
	sessions := session.NewManager(fetcher, logger)
	sessions.SetGauge(metrics.ActiveSessions)
	conversations := conversation.NewService(client, logger)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(client, logger)
	sessionHandler := handler.NewSessionHandler(sessions, client, conversations, handler.Limits{
		TopPosts: cfg.Analysis.TopPostsLimit,
		Ratios:   cfg.Analysis.RatioLimit,
	}, logger)
	healthHandler := handler.NewHealthHandler(sessions)

	// Setup router
	router := api.NewRouter(accountHandler, sessionHandler, healthHandler, cfg.Server.APIKey)

	// Sweep idle sessions in the background
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(cfg.Session.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n := sessions.CloseIdle(cfg.Session.MaxIdle); n > 0 {
					logger.Info("closed idle sessions", "count", n)
				}
			}
		}
	}()

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Cancel background tasks
	cancelSweep()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
