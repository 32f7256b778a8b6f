package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/internal/services"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

type CatalogHandler struct {
	catalog *services.CatalogService
	log     logger.Logger
}

type SearchResponse struct {
	Results []domain.GameRecord `json:"results"`
}

type DetailsResponse struct {
	GameDetails *domain.GameDetails `json:"gameDetails"`
}

func NewCatalogHandler(catalog *services.CatalogService, log logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		log:     log,
	}
}

// Search accepts the term as either ?query= or ?q=.
func (h *CatalogHandler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		query = c.QueryParam("q")
	}
	if query == "" {
		return errorJSON(c, http.StatusBadRequest, "Search query is required")
	}

	results, err := h.catalog.Search(c.Request().Context(), query)
	if err != nil {
		return writeError(c, h.log, err, "Failed to fetch from BoardGameGeek API")
	}
	return c.JSON(http.StatusOK, SearchResponse{Results: results})
}

func (h *CatalogHandler) Details(c echo.Context) error {
	gameID := c.QueryParam("id")
	if gameID == "" {
		return errorJSON(c, http.StatusBadRequest, "Game ID is required")
	}

	details, err := h.catalog.Details(c.Request().Context(), gameID)
	if err != nil {
		return writeError(c, h.log, err, "Failed to fetch game details from BoardGameGeek API")
	}
	return c.JSON(http.StatusOK, DetailsResponse{GameDetails: details})
}
