package services

import (
	"context"
	"fmt"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

// EventListener relays listing events to websocket watchers.
type EventListener struct {
	listingRepo domain.ListingRepository
	broadcaster domain.ListingBroadcaster
	log         logger.Logger
}

func NewEventListener(listingRepo domain.ListingRepository, broadcaster domain.ListingBroadcaster,
	log logger.Logger) *EventListener {
	return &EventListener{
		listingRepo: listingRepo,
		broadcaster: broadcaster,
		log:         log,
	}
}

// Start blocks until ctx is done or the subscription fails.
func (el *EventListener) Start(ctx context.Context, subscriber domain.EventSubscriber) error {
	el.log.Info("Starting event listener")
	return subscriber.SubscribeToBidEvents(ctx, func(event *domain.BidEvent) error {
		return el.HandleEvent(ctx, event)
	})
}

func (el *EventListener) HandleEvent(ctx context.Context, event *domain.BidEvent) error {
	el.log.Debug("Handling event", "type", event.Type, "listing_id", event.ListingID, "auction_id", event.AuctionID)

	switch event.Type {
	case domain.BidPlaced:
		return el.handleBidPlaced(ctx, event)
	case domain.AuctionEnded:
		return el.handleAuctionClosed(ctx, event)
	}

	return fmt.Errorf("unknown event type %q", event.Type)
}

func (el *EventListener) handleBidPlaced(ctx context.Context, event *domain.BidEvent) error {
	return el.broadcaster.BroadcastToListing(ctx, event.ListingID, map[string]interface{}{
		"type":           "bid_update",
		"listing_id":     event.ListingID,
		"current_bid":    event.Amount,
		"current_winner": event.BidderID,
		"timestamp":      event.Timestamp,
	})
}

// handleAuctionClosed sends a final message on every listing of the auction
// and then drops its watchers.
func (el *EventListener) handleAuctionClosed(ctx context.Context, event *domain.BidEvent) error {
	listings, err := el.listingRepo.ListListingsByAuction(ctx, event.AuctionID)
	if err != nil {
		return fmt.Errorf("list listings of auction %s: %w", event.AuctionID, err)
	}

	for _, listing := range listings {
		if err := el.broadcaster.BroadcastToListing(ctx, listing.ID, map[string]interface{}{
			"type":       "auction_closed",
			"listing_id": listing.ID,
			"auction_id": event.AuctionID,
			"timestamp":  event.Timestamp,
		}); err != nil {
			el.log.Error("Failed to broadcast auction closed", "listing_id", listing.ID, "error", err)
		}

		if err := el.broadcaster.CloseListing(ctx, listing.ID); err != nil {
			el.log.Error("Failed to close connections for listing", "listing_id", listing.ID, "error", err)
		}
	}
	return nil
}
