package http

import (
	"net/http"
	"strings"

	"github.com/marketcalls/FinSights/internal/dto"
	"github.com/marketcalls/FinSights/internal/service"
	"github.com/marketcalls/FinSights/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SettingsHandler handles HTTP requests for provider credential management.
type SettingsHandler struct {
	perplexityService service.PerplexityService
	logger            *logger.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(perplexityService service.PerplexityService, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{perplexityService: perplexityService, logger: logger}
}

// RegisterRoutes registers the settings routes to the Echo group.
func (h *SettingsHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/api-key", h.SetAPIKey)
	g.POST("/api-key/validate", h.ValidateAPIKey)
	g.GET("/api-key/status", h.GetAPIKeyStatus)
}

// SetAPIKey godoc
// @Summary Store the provider API key
// @Description Validate the key with a test call, then store it if valid
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   request  body  dto.SetAPIKeyRequest  true  "API key"
// @Success 200 {object} dto.APIKeyStatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /settings/api-key [post]
func (h *SettingsHandler) SetAPIKey(c echo.Context) error {
	var req dto.SetAPIKeyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "API key is required"})
	}

	valid, message := h.perplexityService.ValidateAPIKey(c.Request().Context(), req.APIKey)
	if !valid {
		return c.JSON(http.StatusOK, dto.APIKeyStatusResponse{Configured: false, Valid: false, Message: message})
	}

	updatedBy := "user"
	if user := c.QueryParam("user"); user != "" {
		updatedBy = user
	}

	if err := h.perplexityService.SetAPIKey(c.Request().Context(), req.APIKey, updatedBy); err != nil {
		h.logger.Error("Failed to store API key", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to store API key"})
	}

	return c.JSON(http.StatusOK, dto.APIKeyStatusResponse{Configured: true, Valid: true, Message: message})
}

// ValidateAPIKey godoc
// @Summary Validate a provider API key without storing it
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   request  body  dto.SetAPIKeyRequest  true  "API key"
// @Success 200 {object} dto.APIKeyStatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /settings/api-key/validate [post]
func (h *SettingsHandler) ValidateAPIKey(c echo.Context) error {
	var req dto.SetAPIKeyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "API key is required"})
	}

	valid, message := h.perplexityService.ValidateAPIKey(c.Request().Context(), req.APIKey)
	return c.JSON(http.StatusOK, dto.APIKeyStatusResponse{
		Configured: h.perplexityService.IsConfigured(c.Request().Context()),
		Valid:      valid,
		Message:    message,
	})
}

// GetAPIKeyStatus godoc
// @Summary Report whether an API key is configured
// @Tags settings
// @Produce  json
// @Success 200 {object} dto.APIKeyStatusResponse
// @Router /settings/api-key/status [get]
func (h *SettingsHandler) GetAPIKeyStatus(c echo.Context) error {
	configured := h.perplexityService.IsConfigured(c.Request().Context())
	return c.JSON(http.StatusOK, dto.APIKeyStatusResponse{Configured: configured})
}
