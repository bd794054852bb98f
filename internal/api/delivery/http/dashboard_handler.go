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

// DashboardHandler handles HTTP requests for daily dashboards and podcasts.
type DashboardHandler struct {
	dashboardService service.DashboardService
	podcastService   service.PodcastService
	logger           *logger.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService, podcastService service.PodcastService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, podcastService: podcastService, logger: logger}
}

// RegisterRoutes registers the dashboard routes to the Echo group.
func (h *DashboardHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.GetDashboard)
	g.GET("/dashboard/dates", h.GetDashboardDates)
	g.POST("/dashboard/podcast", h.GeneratePodcast)
}

// GetDashboard godoc
// @Summary Get a daily dashboard
// @Description Get the dashboard for a date, generating today's dashboard on a cache miss and backfilling from recent days while the crawl is still producing
// @Tags dashboard
// @Produce  json
// @Param   kind      query   string  false   "Dashboard kind: global or local"       default(global)
// @Param   location  query   string  false   "Location for local dashboards"
// @Param   date      query   string  false   "Date in YYYY-MM-DD format, defaults to today"
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	kind := c.QueryParam("kind")
	if kind == "" {
		kind = dto.DigestKindGlobal
	}
	location := c.QueryParam("location")

	date := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		date = parsed
	}

	resp, err := h.dashboardService.GetDashboard(c.Request().Context(), kind, location, date)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if errors.Is(err, service.ErrNoHistoricalDashboard) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get dashboard", logger.ErrorField(err),
			logger.StringField("kind", kind), logger.StringField("location", location))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get dashboard"})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetDashboardDates godoc
// @Summary List dates with stored dashboards
// @Description List the dates that have a stored dashboard for the given location, newest first
// @Tags dashboard
// @Produce  json
// @Param   location  query   string  false   "Location, empty for the global dashboard"
// @Success 200 {object} dto.DashboardDatesResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /dashboard/dates [get]
func (h *DashboardHandler) GetDashboardDates(c echo.Context) error {
	dates, err := h.dashboardService.ValidDates(c.Request().Context(), c.QueryParam("location"))
	if err != nil {
		h.logger.Error("Failed to list dashboard dates", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list dashboard dates"})
	}
	return c.JSON(http.StatusOK, dto.DashboardDatesResponse{Dates: dates})
}

// GeneratePodcast godoc
// @Summary Generate a dashboard podcast
// @Description Synthesize a narrated podcast for a stored dashboard and attach its audio locator, reusing an already attached podcast
// @Tags dashboard
// @Accept  json
// @Produce  json
// @Param   request  body    dto.PodcastRequest  true    "Dashboard date and location"
// @Success 200 {object} dto.PodcastResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /dashboard/podcast [post]
func (h *DashboardHandler) GeneratePodcast(c echo.Context) error {
	var req dto.PodcastRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	resp, err := h.podcastService.GeneratePodcast(c.Request().Context(), date, req.Location)
	if err != nil {
		if errors.Is(err, service.ErrPodcastDashboardMissing) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to generate podcast", logger.ErrorField(err),
			logger.StringField("date", req.Date))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate podcast"})
	}

	return c.JSON(http.StatusOK, resp)
}
