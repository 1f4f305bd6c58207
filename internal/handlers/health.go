package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cars-api-go/internal/constants"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": constants.ServiceName,
		"message": "Cars API is healthy",
	})
}
