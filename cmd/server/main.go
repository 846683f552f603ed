package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/fortune-lab/internal/config"
	"github.com/aristath/fortune-lab/internal/modules/accuracy"
	"github.com/aristath/fortune-lab/internal/modules/analysis"
	"github.com/aristath/fortune-lab/internal/scheduler"
	"github.com/aristath/fortune-lab/internal/server"
	"github.com/aristath/fortune-lab/internal/storage"
	"github.com/aristath/fortune-lab/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; fall back to stderr.
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Fortune Lab")

	// Initialize storage
	store, err := storage.New(cfg.DataPath, cfg.AnalysisPath, cfg.AccuracyPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Initialize services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	analysisSvc := analysis.NewService(rng, cfg.PredictionCount, log)
	accuracySvc := accuracy.NewService(store, cfg.AccuracyHighlightMin, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	// Register background jobs
	maintenance := scheduler.NewAccuracyMaintenanceJob(accuracySvc, log)
	if err := sched.AddJob("0 0 3 * * *", maintenance); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	// Sweep once at startup so stale duplicates from a previous run are
	// cleared before the first request.
	if err := sched.RunNow(maintenance); err != nil {
		log.Error().Err(err).Msg("Startup accuracy sweep failed")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		Store:    store,
		Analysis: analysisSvc,
		Accuracy: accuracySvc,
		Config:   cfg,
		DevMode:  cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
