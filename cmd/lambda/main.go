package main

import (
	"context"
	"fmt"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cars-api-go/internal/auth"
	"cars-api-go/internal/config"
	"cars-api-go/internal/constants"
	"cars-api-go/internal/lambda"
	"cars-api-go/internal/links"
	"cars-api-go/internal/repository"
	"cars-api-go/internal/router"
)

var handler lambda.HTTPHandler

func init() {
	cfg, err := config.LoadLambdaConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load Lambda config: %v", err))
	}

	var logger *zap.Logger
	if cfg.LogLevel == "debug" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
		gin.SetMode(gin.ReleaseMode)
	}

	cars, err := openRepository(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize car repository", zap.Error(err))
	}

	var validator auth.TokenValidator
	if cfg.Auth.Enabled {
		if validator, err = auth.NewValidator(cfg.Auth); err != nil {
			logger.Fatal("Failed to configure token validation", zap.Error(err))
		}
	}

	engine := router.New(router.Dependencies{
		Logger:         logger,
		Cars:           cars,
		Links:          links.NewBuilder(cfg.PublicBaseURL),
		AuthEnabled:    cfg.Auth.Enabled,
		TokenValidator: validator,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	handler = lambda.NewProxy(engine)

	logger.Info(fmt.Sprintf("%s Lambda handler initialized", constants.APIName()),
		zap.String("storage_backend", cfg.StorageBackend))
}

// openRepository reuses the warm-container pool for postgres and defers to
// repository.Open for every other backend.
func openRepository(cfg *config.LambdaConfig, logger *zap.Logger) (repository.CarRepository, error) {
	if cfg.StorageBackend != config.BackendPostgres {
		cars, _, err := repository.Open(context.Background(), cfg.Config, logger)
		return cars, err
	}

	pool, err := lambda.GetConnectionPool(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := repository.RunMigrations(context.Background(), pool, cfg.MigrationsPath, logger); err != nil {
		logger.Warn("Failed to run migrations", zap.Error(err))
	}

	return repository.NewPostgresCarRepository(pool), nil
}

func main() {
	awslambda.Start(handler)
}
