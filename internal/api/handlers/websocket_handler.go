package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/dboots/bg-broadcast/internal/infrastructure/websocket"
)

type WebSocketHandlers struct {
	wsHandler *websocket.WebSocketHandler
}

func NewWebSocketHandlers(wsHandler *websocket.WebSocketHandler) *WebSocketHandlers {
	return &WebSocketHandlers{
		wsHandler: wsHandler,
	}
}

func (h *WebSocketHandlers) HandleConnection(c echo.Context) error {
	h.wsHandler.HandleConnection(c.Response(), c.Request(), c.Param("id"))
	return nil
}
