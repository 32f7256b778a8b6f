package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/internal/services"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

type ProfileHandler struct {
	profiles *services.ProfileService
	log      logger.Logger
}

type ProfileResponse struct {
	*domain.Profile
	Listings []*domain.Listing `json:"listings"`
}

func NewProfileHandler(profiles *services.ProfileService, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		log:      log,
	}
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profiles.GetProfile(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return writeError(c, h.log, err, "Failed to load profile")
	}

	listings := profile.Listings
	if listings == nil {
		listings = []*domain.Listing{}
	}
	return c.JSON(http.StatusOK, ProfileResponse{Profile: profile, Listings: listings})
}

func (h *ProfileHandler) ToggleSaved(c echo.Context) error {
	profile, err := h.profiles.ToggleSaved(c.Request().Context(), c.Param("uid"), c.Param("listing_id"))
	if err != nil {
		return writeError(c, h.log, err, "Failed to update saved listings")
	}
	return c.JSON(http.StatusOK, profile)
}
