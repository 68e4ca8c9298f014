package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recallhq/recall/internal/api"
	"github.com/recallhq/recall/internal/config"
	"github.com/recallhq/recall/internal/db"
	"github.com/recallhq/recall/internal/logger"
	"github.com/recallhq/recall/internal/repository/sqlite"
	"github.com/recallhq/recall/internal/scheduler"
	"github.com/recallhq/recall/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Recall Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("default_new_limit=%d", cfg.DefaultNewLimit)
	log.Debug("default_review_limit=%d", cfg.DefaultReviewLimit)
	log.Debug("disable_fuzz=%t", cfg.DisableFuzz)

	// A bad policy aborts startup; it is never repaired silently.
	policy, err := cfg.Policy()
	if err != nil {
		log.Error("invalid scheduling policy: %v", err)
		os.Exit(1)
	}
	log.Debug("learning_steps_minutes=%v", policy.LearningStepsMinutes)
	log.Debug("relearning_steps_minutes=%v", policy.RelearningStepsMinutes)
	log.Debug("initial_ease_factor=%d", policy.InitialEaseFactor)
	log.Debug("maximum_interval_days=%d", policy.MaximumIntervalDays)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	calcOpts := []scheduler.Option{}
	if cfg.DisableFuzz {
		calcOpts = append(calcOpts, scheduler.WithoutFuzz())
	}
	calc, err := scheduler.NewCalculator(policy, calcOpts...)
	if err != nil {
		log.Error("failed to build calculator: %v", err)
		os.Exit(1)
	}

	learnerRepo := sqlite.NewLearnerRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	stateRepo := sqlite.NewCardStateRepository(database.DB)

	// Shared across all request goroutines; must be a locked source.
	rng := scheduler.NewLockedRand(time.Now().UnixNano())

	srv := &api.Server{
		LearnerService:     services.NewLearnerService(learnerRepo, stateRepo),
		CardService:        services.NewCardService(cardRepo, stateRepo, learnerRepo, policy),
		ReviewService:      services.NewReviewService(stateRepo, calc, rng),
		DefaultNewLimit:    cfg.DefaultNewLimit,
		DefaultReviewLimit: cfg.DefaultReviewLimit,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Recall Server Stopped")
	log.Info("===========================================")
}
