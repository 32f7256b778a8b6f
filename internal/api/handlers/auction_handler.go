package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dboots/bg-broadcast/internal/services"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

type AuctionHandler struct {
	auctions *services.AuctionService
	log      logger.Logger
}

func NewAuctionHandler(auctions *services.AuctionService, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{
		auctions: auctions,
		log:      log,
	}
}

func (h *AuctionHandler) GetAuction(c echo.Context) error {
	auctionID := c.Param("id")
	h.log.Debug("GetAuction endpoint called", "auction_id", auctionID)

	view, err := h.auctions.GetAuction(c.Request().Context(), auctionID)
	if err != nil {
		return writeError(c, h.log, err, "Failed to load auction")
	}
	return c.JSON(http.StatusOK, view)
}
