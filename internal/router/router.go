// Package router assembles the gin engine: middleware chain and route table.
package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"cars-api-go/internal/auth"
	"cars-api-go/internal/constants"
	apperrors "cars-api-go/internal/errors"
	"cars-api-go/internal/handlers"
	"cars-api-go/internal/links"
	"cars-api-go/internal/metrics"
	"cars-api-go/internal/middleware"
	"cars-api-go/internal/repository"
)

type Dependencies struct {
	Logger         *zap.Logger
	Cars           repository.CarRepository
	Links          *links.Builder
	AuthEnabled    bool
	TokenValidator auth.TokenValidator
	Metrics        *metrics.HTTPMetrics
	AllowedOrigins []string
}

// Route is one entry of the route table. Protected routes run behind the
// bearer token middleware.
type Route struct {
	Method    string
	Path      string
	Handler   gin.HandlerFunc
	Protected bool
}

// Routes returns the route table served by New.
func Routes(cars *handlers.CarHandler, health *handlers.HealthHandler, m *metrics.HTTPMetrics) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/health", Handler: health.HealthCheck},
		{Method: http.MethodGet, Path: "/metrics", Handler: gin.WrapH(m.Handler())},
		{Method: http.MethodGet, Path: links.CarsPath, Handler: cars.List, Protected: true},
		{Method: http.MethodGet, Path: links.CarsPath + "/:id", Handler: cars.GetByID, Protected: true},
		{Method: http.MethodPost, Path: links.CarsPath, Handler: cars.Create, Protected: true},
	}
}

func New(deps Dependencies) *gin.Engine {
	if deps.Links == nil {
		deps.Links = links.NewBuilder("")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewHTTPMetrics()
	}

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(ginzap.Ginzap(deps.Logger, time.RFC3339, true))
	router.Use(ginzap.CustomRecoveryWithZap(deps.Logger, true, recoverWithInternalError))
	router.Use(otelgin.Middleware(constants.ServiceName))
	router.Use(corsMiddleware(deps.AllowedOrigins))
	router.Use(deps.Metrics.Middleware())

	carHandler := handlers.NewCarHandler(deps.Cars, deps.Links, deps.Logger)
	healthHandler := handlers.NewHealthHandler()
	authMiddleware := middleware.JWTAuthMiddleware(deps.Logger, deps.AuthEnabled, deps.TokenValidator)

	for _, route := range Routes(carHandler, healthHandler, deps.Metrics) {
		if route.Protected {
			router.Handle(route.Method, route.Path, authMiddleware, route.Handler)
			continue
		}
		router.Handle(route.Method, route.Path, route.Handler)
	}

	return router
}

// recoverWithInternalError answers a recovered panic with the JSON error body
// used by every other failure.
func recoverWithInternalError(c *gin.Context, recovered interface{}) {
	appErr := apperrors.NewInternalError(fmt.Errorf("panic: %v", recovered))
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error":  appErr.Message,
		"status": appErr.StatusCode,
	})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{handlers.TotalCountHeader, "Location", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
