// Package main provides the API server entry point for the treasury
// reporting service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/treasury-reporter/internal/adapter"
	"github.com/treasury-reporter/internal/api"
	"github.com/treasury-reporter/internal/bot"
	"github.com/treasury-reporter/internal/config"
	"github.com/treasury-reporter/internal/logging"
	"github.com/treasury-reporter/internal/service"
	"github.com/treasury-reporter/internal/storage"
	"github.com/treasury-reporter/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Connect to the treasury store (read-only)
	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	// Registry store: Redis when configured, in-memory otherwise
	var registry service.RegistryStore
	if cfg.RedisEnabled() {
		redis, err := storage.NewRedisClient(&cfg.Database.Redis)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redis.Close()
		registry = storage.NewRedisAccessStore(redis)
		logger.Info("Using Redis registry store")
	} else {
		registry = storage.NewMemoryAccessStore()
		logger.Warn("Redis not configured, registrations will not survive restarts")
	}

	logger.Info("Database connections established")

	// Initialize repositories and services
	chequeRepo := storage.NewChequeRepository(postgres)
	balanceRepo := storage.NewBalanceRepository(postgres)

	reportService := service.NewReportService(chequeRepo, balanceRepo)
	accessService := service.NewAccessService(registry, &cfg.Access)
	renderer := bot.NewRenderer()

	logger.Info("Services initialized")

	// Scheduled broadcasts
	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load scheduler timezone")
	}

	gateway := adapter.NewGatewayClient(&cfg.Gateway)
	broadcaster := worker.NewBroadcaster(accessService, gateway, logger)
	scheduler := worker.NewScheduler(location, worker.BuildJobs(reportService, renderer, &cfg.Scheduler), broadcaster, logger)

	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	if err := scheduler.Start(schedCtx); err != nil {
		logger.WithError(err).Fatal("Failed to start scheduler")
	}
	defer scheduler.Stop()

	// Create server configuration
	serverConfig := &api.ServerConfig{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
	}

	server := api.NewServer(serverConfig, reportService, accessService, renderer)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
