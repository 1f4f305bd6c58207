package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cars-api-go/internal/auth"
	"cars-api-go/internal/config"
	"cars-api-go/internal/constants"
	"cars-api-go/internal/links"
	"cars-api-go/internal/metrics"
	"cars-api-go/internal/repository"
	"cars-api-go/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info(fmt.Sprintf("%s Starting Cars API server", constants.APIName()),
		zap.Int("port", cfg.ServerPort),
		zap.String("log_level", cfg.LogLevel),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Bool("auth_enabled", cfg.Auth.Enabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cars, closeRepository, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open car repository", zap.Error(err))
	}
	defer closeRepository()

	var validator auth.TokenValidator
	if cfg.Auth.Enabled {
		validator, err = auth.NewValidator(cfg.Auth)
		if err != nil {
			logger.Fatal("Failed to configure token validation", zap.Error(err))
		}
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(router.Dependencies{
		Logger:         logger,
		Cars:           cars,
		Links:          links.NewBuilder(cfg.PublicBaseURL),
		AuthEnabled:    cfg.Auth.Enabled,
		TokenValidator: validator,
		Metrics:        metrics.NewHTTPMetrics(),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("%s Server listening", constants.APIName()), zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info(fmt.Sprintf("%s Shutting down", constants.APIName()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	var logger *zap.Logger
	if level == "debug" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	return logger
}
