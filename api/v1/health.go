package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController reports API and database status
type HealthController struct {
	db *gorm.DB
}

// NewHealthController creates a new health controller
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// RegisterRoutes registers the health route
func (h *HealthController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health/", h.HealthCheck)
}

// HealthCheck returns the API status
func (h *HealthController) HealthCheck(c *gin.Context) {
	status, database := http.StatusOK, "ok"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status, database = http.StatusServiceUnavailable, "unavailable"
	}

	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"service":   "taskboard-api",
		"database":  database,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
