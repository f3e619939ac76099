package http

import (
	"net/http"
	"strconv"

	"github.com/marketcalls/FinSights/internal/dto"
	"github.com/marketcalls/FinSights/internal/service"
	"github.com/marketcalls/FinSights/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScenarioHandler handles HTTP requests for scenario generation.
type ScenarioHandler struct {
	scenarioService service.ScenarioService
	logger          *logger.Logger
}

// NewScenarioHandler creates a new ScenarioHandler.
func NewScenarioHandler(scenarioService service.ScenarioService, logger *logger.Logger) *ScenarioHandler {
	return &ScenarioHandler{scenarioService: scenarioService, logger: logger}
}

// RegisterRoutes registers the scenario routes to the news Echo group.
func (h *ScenarioHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/:id/scenarios", h.GenerateScenarios)
	g.GET("/:id/scenarios", h.GetScenarios)
}

// GenerateScenarios godoc
// @Summary Generate scenarios for a news record
// @Description Generate what-if scenarios, reusing stored ones when no custom parameters are given
// @Tags scenarios
// @Accept  json
// @Produce  json
// @Param   id  path  int  true  "News ID"
// @Param   request  body  dto.GenerateScenariosRequest  false  "Generation options"
// @Success 200 {array} entity.Scenario
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /news/{id}/scenarios [post]
func (h *ScenarioHandler) GenerateScenarios(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid news ID"})
	}

	var req dto.GenerateScenariosRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	triggeredBy := "user"
	if user := c.QueryParam("user"); user != "" {
		triggeredBy = "user:" + user
	}

	scenarios, err := h.scenarioService.GenerateScenarios(c.Request().Context(), uint(id), &req, triggeredBy)
	if err != nil {
		h.logger.Error("Scenario generation failed", logger.ErrorField(err), logger.IntField("news_id", int(id)))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, scenarios)
}

// GetScenarios godoc
// @Summary Get stored scenarios for a news record
// @Tags scenarios
// @Produce  json
// @Param   id  path  int  true  "News ID"
// @Success 200 {array} entity.Scenario
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /news/{id}/scenarios [get]
func (h *ScenarioHandler) GetScenarios(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid news ID"})
	}

	scenarios, err := h.scenarioService.GetScenariosForNews(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("Failed to get scenarios", logger.ErrorField(err), logger.IntField("news_id", int(id)))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get scenarios"})
	}

	return c.JSON(http.StatusOK, scenarios)
}
