package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dboots/bg-broadcast/internal/api/handlers"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

const version = "1.0.0"

type Handlers struct {
	Catalog   *handlers.CatalogHandler
	Listings  *handlers.ListingHandler
	Auctions  *handlers.AuctionHandler
	Profiles  *handlers.ProfileHandler
	Sessions  *handlers.SessionHandler
	WebSocket *handlers.WebSocketHandlers
}

// NewRouter builds the echo instance with middleware and every route. A nil
// handler group leaves its routes unregistered.
func NewRouter(h Handlers, log logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			kv := []interface{}{
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"remote_ip", v.RemoteIP,
				"latency", v.Latency.String(),
			}
			if v.Error != nil {
				log.Error("Request", append(kv, "error", v.Error)...)
				return nil
			}
			log.Info("Request", kv...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			echo.GET, echo.HEAD, echo.PUT, echo.PATCH,
			echo.POST, echo.DELETE, echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			echo.HeaderXRequestedWith,
		},
		MaxAge: 86400,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "bg-broadcast",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
		})
	})

	if h.Catalog != nil {
		e.GET("/search", h.Catalog.Search)
		e.GET("/details", h.Catalog.Details)
	}

	api := e.Group("/api/v1")
	if h.Listings != nil {
		api.GET("/listings/:id", h.Listings.GetListing)
		api.POST("/listings/:id/bids", h.Listings.PlaceBid)
	}
	if h.Auctions != nil {
		api.GET("/auctions/:id", h.Auctions.GetAuction)
	}
	if h.Profiles != nil {
		api.GET("/profiles/:uid", h.Profiles.GetProfile)
		api.POST("/profiles/:uid/saved/:listing_id", h.Profiles.ToggleSaved)
	}
	if h.Sessions != nil {
		api.GET("/sessions", h.Sessions.ListNearby)
		api.POST("/sessions", h.Sessions.CreateSession)
		api.GET("/sessions/:slug", h.Sessions.GetSession)
		api.DELETE("/sessions/:slug", h.Sessions.DeleteSession)
		api.GET("/slug", h.Sessions.GenerateSlug)
	}

	if h.WebSocket != nil {
		e.GET("/ws/listings/:id", h.WebSocket.HandleConnection)
	}

	return e
}
