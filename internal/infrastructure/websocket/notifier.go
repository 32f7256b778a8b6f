package websocket

import (
	"context"

	"github.com/dboots/bg-broadcast/internal/domain"
)

type WebSocketNotifier struct {
	connManager domain.ConnectionManager
}

func NewWebSocketNotifier(connManager domain.ConnectionManager) *WebSocketNotifier {
	return &WebSocketNotifier{connManager: connManager}
}

func (n *WebSocketNotifier) BroadcastToListing(ctx context.Context, listingID string, message interface{}) error {
	return n.connManager.BroadcastToListing(listingID, message)
}

func (n *WebSocketNotifier) CloseListing(ctx context.Context, listingID string) error {
	return n.connManager.CloseAndUnregisterConnections(listingID)
}
