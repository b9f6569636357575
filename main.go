package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rankpage/clinicrank-api/catalogparser"
	"github.com/rankpage/clinicrank-api/config"
	"github.com/rankpage/clinicrank-api/data"
	"github.com/rankpage/clinicrank-api/handlers"
	"github.com/rankpage/clinicrank-api/health"
	"github.com/rankpage/clinicrank-api/logging"
	"github.com/rankpage/clinicrank-api/scheduler"
	"github.com/rankpage/clinicrank-api/server"
	"github.com/rankpage/clinicrank-api/validation"
)

func main() {
	// .env is optional; deployments set real environment variables.
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogLevel, cfg.LogRetentionWeeks, cfg.MaxLogFileSize)
	defer logging.Shutdown()

	container := data.NewDataContainer()
	container.SetServerStartTime(time.Now())

	parser := catalogparser.New(cfg.DataDir, cfg.CommonDataDir)
	validator := validation.NewDataValidator()

	// Initial load is synchronous and fatal: without a valid catalog there
	// is nothing to serve.
	sched := scheduler.NewScheduler(container, parser, validator)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start catalog scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	healthChecker := health.NewHealthChecker(container)
	handler := handlers.NewHTTPHandler(container, validator, healthChecker, cfg.RedirectPageURL)
	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown failed", "error", err)
	}
}
