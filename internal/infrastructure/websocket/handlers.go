package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/internal/services"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// BidPlacer is the part of the bid service a watcher can drive.
type BidPlacer interface {
	GetListing(ctx context.Context, listingID string) (*services.ListingView, error)
	PlaceBid(ctx context.Context, listingID, bidderID string, amount decimal.Decimal) (*services.ListingView, error)
}

type WebSocketHandler struct {
	bids        BidPlacer
	connManager domain.ConnectionManager
	log         logger.Logger
}

func NewWebSocketHandler(bids BidPlacer, connManager domain.ConnectionManager, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		bids:        bids,
		connManager: connManager,
		log:         log,
	}
}

type clientMessage struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// HandleConnection upgrades a watcher of listingID. The first frame sent is
// the current listing state.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request, listingID string) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}

	listing, err := h.bids.GetListing(r.Context(), listingID)
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "listing not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("Failed to load listing", "error", err, "listing_id", listingID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if listing.Ended {
		h.log.Info("Rejected connection - listing has ended", "listing_id", listingID)
		http.Error(w, "listing has already ended", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	wsConn := NewWebSocketConnection(conn, userID, listingID, h.log)
	if err := h.connManager.RegisterConnection(userID, listingID, wsConn); err != nil {
		h.log.Error("Failed to register connection", "error", err)
		_ = conn.Close()
		return
	}

	if err := wsConn.Send(map[string]interface{}{"type": "listing_state", "listing": listing}); err != nil {
		h.log.Warn("Failed to send listing state", "user_id", userID, "listing_id", listingID, "error", err)
	}

	go h.handleMessages(wsConn)
}

func (h *WebSocketHandler) handleMessages(conn *WebSocketConnection) {
	defer func() {
		_ = h.connManager.UnregisterConnection(conn)
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Error("Failed to read message", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = conn.Send(map[string]string{"type": "error", "message": "invalid message"})
			continue
		}

		switch msg.Type {
		case "place_bid":
			h.handleBidMessage(conn, msg)
		case "ping":
			_ = conn.Send(map[string]string{"type": "pong"})
		}
	}
}

func (h *WebSocketHandler) handleBidMessage(conn *WebSocketConnection, msg clientMessage) {
	view, err := h.bids.PlaceBid(context.Background(), conn.ListingID(), conn.UserID(), msg.Amount)
	if err != nil {
		h.log.Info("Bid over websocket failed", "user_id", conn.UserID(), "listing_id", conn.ListingID(), "error", err)
		_ = conn.Send(map[string]string{"type": "error", "message": bidErrorMessage(err)})
		return
	}
	_ = conn.Send(map[string]interface{}{"type": "bid_accepted", "listing": view})
}

func bidErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrBidTooLow):
		return "bid must be higher than the current highest bid"
	case errors.Is(err, domain.ErrListingClosed):
		return "listing has ended"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid amount"
	}
	return "failed to place bid"
}

// WebSocketConnection serializes writes; gorilla connections allow only one
// concurrent writer.
type WebSocketConnection struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	userID    string
	listingID string
	log       logger.Logger
}

func NewWebSocketConnection(conn *websocket.Conn, userID, listingID string, log logger.Logger) *WebSocketConnection {
	return &WebSocketConnection{
		conn:      conn,
		userID:    userID,
		listingID: listingID,
		log:       log,
	}
}

func (wsc *WebSocketConnection) Send(message interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()

	_ = wsc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return wsc.conn.WriteJSON(message)
}

func (wsc *WebSocketConnection) Close() error {
	return wsc.conn.Close()
}

func (wsc *WebSocketConnection) UserID() string {
	return wsc.userID
}

func (wsc *WebSocketConnection) ListingID() string {
	return wsc.listingID
}
