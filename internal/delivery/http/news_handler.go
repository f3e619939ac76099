package http

import (
	"net/http"

	"github.com/marketcalls/FinSights/internal/dto"
	"github.com/marketcalls/FinSights/internal/repository"
	"github.com/marketcalls/FinSights/internal/service"
	"github.com/marketcalls/FinSights/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewsHandler handles HTTP requests for news fetching and the recent-news
// cache.
type NewsHandler struct {
	fetcher service.NewsFetcherService
	cache   service.NewsCacheService
	jobRepo repository.ScheduleJobRepository
	logger  *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(fetcher service.NewsFetcherService, cache service.NewsCacheService, jobRepo repository.ScheduleJobRepository, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{fetcher: fetcher, cache: cache, jobRepo: jobRepo, logger: logger}
}

// RegisterRoutes registers the news routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/fetch/:job_name", h.FetchJob)
	g.POST("/fetch-all", h.FetchAll)
	g.POST("/stock/:symbol/fetch", h.FetchStock)
	g.GET("/latest", h.GetLatest)
	g.GET("/stock/:symbol", h.GetStock)
	g.GET("/cache/stats", h.GetCacheStats)
}

// FetchJob godoc
// @Summary Trigger one fetch job
// @Description Run a single named fetch job immediately
// @Tags news
// @Produce  json
// @Param   job_name  path  string  true  "Job name"
// @Success 200 {object} dto.FetchJobResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /news/fetch/{job_name} [post]
func (h *NewsHandler) FetchJob(c echo.Context) error {
	jobName := c.Param("job_name")

	job, err := h.jobRepo.FindByName(c.Request().Context(), jobName)
	if err != nil {
		h.logger.Error("Failed to look up job", logger.ErrorField(err), logger.StringField("job_name", jobName))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to look up job"})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Job not found"})
	}

	count, err := h.fetcher.FetchByJob(c.Request().Context(), job, "manual")
	if err != nil {
		h.logger.Error("Manual job fetch failed", logger.ErrorField(err), logger.StringField("job_name", jobName))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.FetchJobResponse{
		JobName:      jobName,
		NewsInserted: count,
		TriggeredBy:  "manual",
	})
}

// FetchAll godoc
// @Summary Run every enabled fetch job
// @Description Run all enabled jobs once, isolating per-job failures
// @Tags news
// @Produce  json
// @Success 200 {object} dto.FetchAllResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /news/fetch-all [post]
func (h *NewsHandler) FetchAll(c echo.Context) error {
	result, err := h.fetcher.FetchAllJobs(c.Request().Context(), "manual")
	if err != nil {
		h.logger.Error("Fetch-all failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// FetchStock godoc
// @Summary Fetch news for a stock symbol
// @Description Fetch and persist the latest news for one symbol
// @Tags news
// @Produce  json
// @Param   symbol  path  string  true  "Stock symbol"
// @Success 200 {array} entity.News
// @Failure 500 {object} dto.ErrorResponse
// @Router /news/stock/{symbol}/fetch [post]
func (h *NewsHandler) FetchStock(c echo.Context) error {
	symbol := c.Param("symbol")

	items, err := h.fetcher.FetchStockNews(c.Request().Context(), symbol, "manual")
	if err != nil {
		h.logger.Error("Stock fetch failed", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

// GetLatest godoc
// @Summary Get recent news
// @Description Get the cached recent-news list, newest first
// @Tags news
// @Produce  json
// @Success 200 {array} entity.News
// @Router /news/latest [get]
func (h *NewsHandler) GetLatest(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cache.GetLatestNews())
}

// GetStock godoc
// @Summary Get cached news for a stock symbol
// @Tags news
// @Produce  json
// @Param   symbol  path  string  true  "Stock symbol"
// @Success 200 {array} entity.News
// @Router /news/stock/{symbol} [get]
func (h *NewsHandler) GetStock(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cache.GetStockNews(c.Param("symbol")))
}

// GetCacheStats godoc
// @Summary Get cache statistics
// @Tags news
// @Produce  json
// @Success 200 {object} dto.CacheStats
// @Router /news/cache/stats [get]
func (h *NewsHandler) GetCacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cache.GetCacheStats())
}
