package http

import (
	"errors"
	"net/http"

	"bitewise-api/internal/api/dto"
	"bitewise-api/internal/api/service"
	"bitewise-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SummarizeHandler handles HTTP requests for article summarization.
type SummarizeHandler struct {
	summarizeService service.SummarizeService
	logger           *logger.Logger
}

// NewSummarizeHandler creates a new SummarizeHandler.
func NewSummarizeHandler(summarizeService service.SummarizeService, logger *logger.Logger) *SummarizeHandler {
	return &SummarizeHandler{summarizeService: summarizeService, logger: logger}
}

// RegisterRoutes registers the summarize routes to the Echo group.
func (h *SummarizeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/summarize/article", h.SummarizeArticle)
	g.POST("/summarize/articles", h.SummarizeArticles)
}

// SummarizeArticle godoc
// @Summary Summarize a single article
// @Description Summarize one article for the given style preferences, reusing a stored summary when one matches
// @Tags summarize
// @Accept  json
// @Produce  json
// @Param   request  body    dto.SummarizeArticleRequest   true    "Article and style preferences"
// @Success 200 {object} dto.SummarizeArticleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /summarize/article [post]
func (h *SummarizeHandler) SummarizeArticle(c echo.Context) error {
	var req dto.SummarizeArticleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Article.URL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Article URL is required"})
	}

	resp, err := h.summarizeService.SummarizeArticle(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to summarize article", logger.ErrorField(err),
			logger.StringField("url", req.Article.URL))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to summarize article"})
	}

	return c.JSON(http.StatusOK, resp)
}

// SummarizeArticles godoc
// @Summary Summarize a collection of articles
// @Description Produce a shared title and summary covering a group of related articles
// @Tags summarize
// @Accept  json
// @Produce  json
// @Param   request  body    dto.SummarizeArticlesRequest  true    "Articles and style preferences"
// @Success 200 {object} dto.SummarizeArticlesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /summarize/articles [post]
func (h *SummarizeHandler) SummarizeArticles(c echo.Context) error {
	var req dto.SummarizeArticlesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if len(req.Articles) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "At least one article is required"})
	}

	result, err := h.summarizeService.SummarizeArticles(c.Request().Context(), req.Articles, req.Preferences, false)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to summarize articles", logger.ErrorField(err),
			logger.IntField("count", len(req.Articles)))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to summarize articles"})
	}

	return c.JSON(http.StatusOK, dto.SummarizeArticlesResponse{
		Title:   result.Title,
		Summary: result.Summary,
	})
}
