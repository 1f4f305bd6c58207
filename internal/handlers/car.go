package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"cars-api-go/internal/constants"
	apperrors "cars-api-go/internal/errors"
	"cars-api-go/internal/links"
	"cars-api-go/internal/middleware"
	"cars-api-go/internal/models"
	"cars-api-go/internal/repository"
)

// TotalCountHeader carries the number of cars returned by List.
const TotalCountHeader = "total-count"

type CarHandler struct {
	repository repository.CarRepository
	links      *links.Builder
	logger     *zap.Logger
}

func NewCarHandler(repo repository.CarRepository, linkBuilder *links.Builder, logger *zap.Logger) *CarHandler {
	return &CarHandler{
		repository: repo,
		links:      linkBuilder,
		logger:     logger,
	}
}

// List handles GET /cars.
func (h *CarHandler) List(c *gin.Context) {
	cars, err := h.repository.All(c.Request.Context())
	if err != nil {
		h.logger.Error(fmt.Sprintf("%s Error listing cars", constants.APIName()),
			zap.String("request_id", middleware.RequestID(c)), zap.Error(err))
		respondError(c, apperrors.NewDatabaseError(err))
		return
	}

	representations := make([]models.CarRepresentation, 0, len(cars))
	for _, car := range cars {
		representations = append(representations, h.toRepresentation(c, car))
	}

	c.Header(TotalCountHeader, strconv.Itoa(len(representations)))
	c.JSON(http.StatusOK, representations)
}

// GetByID handles GET /cars/:id. Unknown ids yield 404 with no body.
func (h *CarHandler) GetByID(c *gin.Context) {
	rawID := c.Param("id")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		h.logger.Warn(fmt.Sprintf("%s Invalid car id", constants.APIName()),
			zap.String("id", rawID), zap.String("request_id", middleware.RequestID(c)))
		respondError(c, apperrors.NewInvalidIDError(rawID, err))
		return
	}

	car, found, err := h.repository.ByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error(fmt.Sprintf("%s Error loading car", constants.APIName()),
			zap.Int64("id", id), zap.String("request_id", middleware.RequestID(c)), zap.Error(err))
		respondError(c, apperrors.NewDatabaseError(err))
		return
	}
	if !found {
		c.Status(http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, h.toRepresentation(c, car))
}

// Create handles POST /cars. The new car is only reachable through the
// Location header; the response has no body.
func (h *CarHandler) Create(c *gin.Context) {
	if contentType := c.ContentType(); contentType != binding.MIMEJSON {
		respondError(c, apperrors.NewUnsupportedMediaTypeError(contentType))
		return
	}

	var car models.Car
	if err := c.ShouldBindJSON(&car); err != nil {
		h.logger.Warn(fmt.Sprintf("%s Invalid JSON", constants.APIName()),
			zap.String("request_id", middleware.RequestID(c)), zap.Error(err))
		respondError(c, apperrors.NewJSONError(err))
		return
	}

	if err := h.repository.Save(c.Request.Context(), &car); err != nil {
		var dupErr *repository.DuplicateCarError
		if errors.As(err, &dupErr) {
			h.logger.Warn(fmt.Sprintf("%s Duplicate car ID: %d", constants.APIName(), dupErr.CarID),
				zap.String("request_id", middleware.RequestID(c)))
			respondError(c, apperrors.NewConflictError(dupErr))
			return
		}

		h.logger.Error(fmt.Sprintf("%s Error saving car", constants.APIName()),
			zap.String("request_id", middleware.RequestID(c)), zap.Error(err))
		respondError(c, apperrors.NewDatabaseError(err))
		return
	}

	fields := []zap.Field{
		zap.Int64("id", car.ID),
		zap.String("make", car.Make),
		zap.String("request_id", middleware.RequestID(c)),
	}
	if principal, ok := middleware.PrincipalFrom(c); ok {
		fields = append(fields, zap.String("subject", principal.Subject))
	}
	h.logger.Info(fmt.Sprintf("%s Created car", constants.APIName()), fields...)

	c.Header("Location", h.links.CarURI(c.Request, car.ID))
	c.Status(http.StatusCreated)
}

func (h *CarHandler) toRepresentation(c *gin.Context, car models.Car) models.CarRepresentation {
	return models.NewCarRepresentation(car, h.links.CarSelf(c.Request, car.ID))
}

func respondError(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.StatusCode, gin.H{
		"error":  appErr.Message,
		"status": appErr.StatusCode,
	})
}
