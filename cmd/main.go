package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/SamannyoPal/Circulate/internal/config"
	"github.com/SamannyoPal/Circulate/internal/logger"
	"github.com/SamannyoPal/Circulate/internal/repository/postgres"
	"github.com/SamannyoPal/Circulate/internal/service"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// The maintenance daemon: applies migrations and runs the expiration reaper
// on a schedule. The request-serving web layer links the repositories and
// the access gate directly and runs as a separate process.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	fileRepo := postgres.NewFileRepository(db)
	reaper := service.NewReaper(fileRepo, logger)

	logger.Info("build info",
		"version", buildVersion,
		"date", buildDate,
		"commit", buildCommit)

	if _, err := reaper.RunOnce(ctx); err != nil {
		logger.Error("initial reaper pass failed", "error", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting reaper", "interval", cfg.Reaper.Interval.String())
		reaper.Run(ctx, cfg.Reaper.Interval)
	}()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	wg.Wait()
	logger.Info("shutdown complete")
}
