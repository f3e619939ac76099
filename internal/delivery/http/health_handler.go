package http

import (
	"net/http"

	"github.com/marketcalls/FinSights/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	db        *gorm.DB
	scheduler service.SchedulerService
	cache     service.NewsCacheService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, scheduler service.SchedulerService, cache service.NewsCacheService) *HealthHandler {
	return &HealthHandler{db: db, scheduler: scheduler, cache: cache}
}

// RegisterRoutes registers the health route on the Echo instance.
func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
}

// Health godoc
// @Summary Health check
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	dbStatus := "up"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "down"
	} else if err := sqlDB.PingContext(c.Request().Context()); err != nil {
		dbStatus = "down"
	}

	status := http.StatusOK
	if dbStatus != "up" {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, echo.Map{
		"status":    dbStatus,
		"scheduler": h.scheduler.IsRunning(),
		"cache":     h.cache.GetCacheStats(),
	})
}
