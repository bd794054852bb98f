package http

import (
	"errors"
	"net/http"

	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/api/service"
	"bitewise-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SearchHandler handles HTTP requests for article search and filtering.
type SearchHandler struct {
	searchService service.SearchService
	logger        *logger.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService service.SearchService, logger *logger.Logger) *SearchHandler {
	return &SearchHandler{searchService: searchService, logger: logger}
}

// RegisterRoutes registers the search routes to the Echo group.
func (h *SearchHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/search", h.Search)
	g.POST("/articles/filter", h.FilterArticles)
}

// Search godoc
// @Summary Search news articles
// @Description Search for news articles, serving a cached result set when the same query was issued within the last day
// @Tags search
// @Accept  json
// @Produce  json
// @Param   request  body    dto.SearchRequest   true    "Search query and preferences"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /search [post]
func (h *SearchHandler) Search(c echo.Context) error {
	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Query is required"})
	}

	resp, err := h.searchService.Search(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Search failed", logger.ErrorField(err),
			logger.StringField("query", req.Query))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Search failed"})
	}

	return c.JSON(http.StatusOK, resp)
}

// FilterArticles godoc
// @Summary Filter articles by preference labels
// @Description Keep only articles whose read time and bias match the given preference labels
// @Tags search
// @Accept  json
// @Produce  json
// @Param   request  body    dto.FilterRequest   true    "Articles and preference labels"
// @Success 200 {object} dto.FilterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /articles/filter [post]
func (h *SearchHandler) FilterArticles(c echo.Context) error {
	var req dto.FilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.searchService.FilterArticles(&req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Filtering failed"})
	}

	return c.JSON(http.StatusOK, resp)
}
