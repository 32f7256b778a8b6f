package websocket

import (
	"sync"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

type ConnectionManager struct {
	connections map[string]map[string]domain.WebSocketConnection // listingID -> userID -> connection
	mutex       sync.RWMutex
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]map[string]domain.WebSocketConnection),
		log:         log,
	}
}

// RegisterConnection replaces any earlier connection the user held on the
// same listing; the old one is closed.
func (cm *ConnectionManager) RegisterConnection(userID, listingID string, conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if cm.connections[listingID] == nil {
		cm.connections[listingID] = make(map[string]domain.WebSocketConnection)
	}
	if previous, exists := cm.connections[listingID][userID]; exists && previous != conn {
		if err := previous.Close(); err != nil {
			cm.log.Warn("Failed to close replaced connection", "user_id", userID, "listing_id", listingID, "error", err)
		}
	}
	cm.connections[listingID][userID] = conn

	cm.log.Info("Connection registered", "user_id", userID, "listing_id", listingID)
	return nil
}

// UnregisterConnection removes conn only if it is still the user's current
// connection, so a replaced connection cannot evict its successor.
func (cm *ConnectionManager) UnregisterConnection(conn domain.WebSocketConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	userID, listingID := conn.UserID(), conn.ListingID()
	if listingConns, exists := cm.connections[listingID]; exists && listingConns[userID] == conn {
		delete(listingConns, userID)
		if len(listingConns) == 0 {
			delete(cm.connections, listingID)
		}
		cm.log.Info("Connection unregistered", "user_id", userID, "listing_id", listingID)
	}
	return nil
}

func (cm *ConnectionManager) CloseAndUnregisterConnections(listingID string) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if listingConns, exists := cm.connections[listingID]; exists {
		for userID, conn := range listingConns {
			if err := conn.Close(); err != nil {
				cm.log.Error("Failed to close connection", "user_id", userID,
					"listing_id", listingID, "error", err)
			}
		}
		delete(cm.connections, listingID)
	}

	cm.log.Info("Connections closed for listing", "listing_id", listingID)
	return nil
}

func (cm *ConnectionManager) GetConnectionsForListing(listingID string) []domain.WebSocketConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var connections []domain.WebSocketConnection
	for _, conn := range cm.connections[listingID] {
		connections = append(connections, conn)
	}
	return connections
}

func (cm *ConnectionManager) BroadcastToListing(listingID string, message interface{}) error {
	connections := cm.GetConnectionsForListing(listingID)
	cm.log.Debug("Broadcasting to listing", "listing_id", listingID, "connections", len(connections))

	for _, conn := range connections {
		if err := conn.Send(message); err != nil {
			// One broken watcher must not starve the others.
			cm.log.Error("Failed to send message", "user_id", conn.UserID(),
				"listing_id", listingID, "error", err)
		}
	}

	return nil
}
