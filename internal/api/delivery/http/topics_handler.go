package http

import (
	"errors"
	"net/http"
	"time"

	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/api/service"
	"bitewise-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TopicsHandler handles HTTP requests for per-topic article digests.
type TopicsHandler struct {
	topicsService service.TopicsService
	logger        *logger.Logger
}

// NewTopicsHandler creates a new TopicsHandler.
func NewTopicsHandler(topicsService service.TopicsService, logger *logger.Logger) *TopicsHandler {
	return &TopicsHandler{topicsService: topicsService, logger: logger}
}

// RegisterRoutes registers the topics routes to the Echo group.
func (h *TopicsHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/topics/generate", h.GenerateTopics)
	g.GET("/topics", h.GetTopics)
}

// GenerateTopics godoc
// @Summary Generate today's topic digests
// @Description Fetch and store the top articles for each topic, skipping topics already generated today
// @Tags topics
// @Accept  json
// @Produce  json
// @Param   request  body    dto.GenerateTopicsRequest   true    "Topics to generate"
// @Success 200 {object} dto.GenerateTopicsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /topics/generate [post]
func (h *TopicsHandler) GenerateTopics(c echo.Context) error {
	var req dto.GenerateTopicsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.topicsService.GenerateTopics(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to generate topics", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate topics"})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetTopics godoc
// @Summary Get topic digests for a date
// @Description Get all stored topic digests for a date, defaulting to today
// @Tags topics
// @Produce  json
// @Param   date  query   string  false   "Date in YYYY-MM-DD format, defaults to today"
// @Success 200 {object} dto.TopicsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /topics [get]
func (h *TopicsHandler) GetTopics(c echo.Context) error {
	date := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		date = parsed
	}

	resp, err := h.topicsService.GetTopics(c.Request().Context(), date)
	if err != nil {
		h.logger.Error("Failed to get topics", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get topics"})
	}

	return c.JSON(http.StatusOK, resp)
}
