package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/internal/services"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

type ListingHandler struct {
	bids *services.BidService
	log  logger.Logger
}

// PlaceBidRequest takes the amount as a JSON number or a numeric string.
type PlaceBidRequest struct {
	BidderID string      `json:"bidder_id" validate:"required"`
	Amount   json.Number `json:"amount" validate:"required,numeric"`
}

func NewListingHandler(bids *services.BidService, log logger.Logger) *ListingHandler {
	return &ListingHandler{
		bids: bids,
		log:  log,
	}
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	view, err := h.bids.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.log, err, "Failed to load listing")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *ListingHandler) PlaceBid(c echo.Context) error {
	listingID := c.Param("id")

	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err, "Invalid request body")
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		return writeError(c, h.log, fmt.Errorf("amount %q: %w", req.Amount, domain.ErrInvalidInput), "Invalid request body")
	}

	view, err := h.bids.PlaceBid(c.Request().Context(), listingID, req.BidderID, amount)
	if err != nil {
		return writeError(c, h.log, err, "Failed to place bid")
	}
	return c.JSON(http.StatusCreated, view)
}
