package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/internal/services"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

type SessionHandler struct {
	sessions *services.SessionService
	slugs    *services.SlugGenerator
	log      logger.Logger
}

type SessionsResponse struct {
	Sessions []*domain.Session `json:"sessions"`
}

// sessionDateLayouts are tried in order. The last is the long US form the
// create page sends.
var sessionDateLayouts = []string{time.RFC3339, time.DateOnly, "January 2, 2006"}

// CreateSessionRequest names the game either directly or by BoardGameGeek id.
// IsPublic defaults to true.
type CreateSessionRequest struct {
	Game        string      `json:"game" validate:"required_without=BGGID"`
	BGGID       json.Number `json:"bgg_id" validate:"omitempty,numeric"`
	Date        string      `json:"session_date" validate:"required"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ZipCode     string      `json:"zip" validate:"omitempty,len=5,numeric"`
	HostID      string      `json:"host_id"`
	HostName    string      `json:"host_name"`
	MaxPlayers  int         `json:"max_players" validate:"gte=0"`
	IsPublic    *bool       `json:"is_public"`
}

func NewSessionHandler(sessions *services.SessionService, slugs *services.SlugGenerator, log logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		slugs:    slugs,
		log:      log,
	}
}

func (h *SessionHandler) ListNearby(c echo.Context) error {
	query := services.NearbyQuery{
		Zip:      c.QueryParam("zip"),
		UID:      c.QueryParam("uid"),
		GameType: c.QueryParam("game_type"),
		Status:   c.QueryParam("status"),
	}
	if raw := c.QueryParam("max_distance"); raw != "" {
		maxDistance, err := strconv.Atoi(raw)
		if err != nil || maxDistance < 0 {
			return errorJSON(c, http.StatusBadRequest, "max_distance must be a non-negative integer")
		}
		query.MaxDistance = maxDistance
	}

	sessions, err := h.sessions.Nearby(c.Request().Context(), query)
	if err != nil {
		return writeError(c, h.log, err, "Failed to load sessions")
	}
	return c.JSON(http.StatusOK, SessionsResponse{Sessions: sessions})
}

func (h *SessionHandler) GetSession(c echo.Context) error {
	session, err := h.sessions.GetSession(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, h.log, err, "Failed to load session")
	}
	return c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) GenerateSlug(c echo.Context) error {
	return c.JSON(http.StatusOK, h.slugs.Generate())
}

func (h *SessionHandler) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, h.log, err, "Invalid request body")
	}

	date, err := parseSessionDate(req.Date)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	in := services.NewSession{
		Game:        req.Game,
		BGGID:       req.BGGID.String(),
		Date:        date,
		Title:       req.Title,
		Description: req.Description,
		ZipCode:     req.ZipCode,
		HostID:      req.HostID,
		HostName:    req.HostName,
		MaxPlayers:  req.MaxPlayers,
		IsPublic:    req.IsPublic == nil || *req.IsPublic,
	}
	session, err := h.sessions.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err, "Failed to create session")
	}
	return c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) DeleteSession(c echo.Context) error {
	if err := h.sessions.Delete(c.Request().Context(), c.Param("slug")); err != nil {
		return writeError(c, h.log, err, "Failed to delete session")
	}
	return c.NoContent(http.StatusNoContent)
}

func parseSessionDate(raw string) (time.Time, error) {
	for _, layout := range sessionDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("session_date %q is not a date", raw)
}
