package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

type AuctionView struct {
	*domain.Auction
	Listings []*ListingView `json:"listings"`
}

type AuctionService struct {
	auctionRepo domain.AuctionRepository
	listingRepo domain.ListingRepository
	resolver    *BidResolver
	eventPub    domain.EventPublisher
	now         func() time.Time
	log         logger.Logger
}

func NewAuctionService(
	auctionRepo domain.AuctionRepository,
	listingRepo domain.ListingRepository,
	resolver *BidResolver,
	eventPub domain.EventPublisher,
	log logger.Logger,
) *AuctionService {
	return &AuctionService{
		auctionRepo: auctionRepo,
		listingRepo: listingRepo,
		resolver:    resolver,
		eventPub:    eventPub,
		now:         time.Now,
		log:         log,
	}
}

// GetAuction returns the auction with its listings resolved by auction id.
func (as *AuctionService) GetAuction(ctx context.Context, auctionID string) (*AuctionView, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("auction id is required: %w", domain.ErrInvalidInput)
	}

	auction, err := as.auctionRepo.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	listings, err := as.listingRepo.ListListingsByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	auction.Listings = listings

	now := as.now()
	view := &AuctionView{Auction: auction, Listings: make([]*ListingView, 0, len(listings))}
	for _, listing := range listings {
		view.Listings = append(view.Listings, viewListing(as.resolver, listing, auction, now))
	}
	return view, nil
}

// CloseAuction marks the auction closed and announces it. Closing an
// already closed auction does nothing.
func (as *AuctionService) CloseAuction(ctx context.Context, auctionID string) error {
	auction, err := as.auctionRepo.GetAuction(ctx, auctionID)
	if err != nil {
		return err
	}
	return as.close(ctx, auction)
}

func (as *AuctionService) close(ctx context.Context, auction *domain.Auction) error {
	if auction.Status == domain.AuctionClosed {
		return nil
	}

	as.log.Info("Closing auction", "auction_id", auction.ID)

	auction.Status = domain.AuctionClosed
	if err := as.auctionRepo.UpdateAuction(ctx, auction); err != nil {
		return err
	}

	if err := as.eventPub.PublishBidEvent(ctx, &domain.BidEvent{
		Type:      domain.AuctionEnded,
		AuctionID: auction.ID,
		Timestamp: as.now(),
	}); err != nil {
		as.log.Error("Failed to publish auction closed event", "auction_id", auction.ID, "error", err)
	}
	return nil
}

// CloseExpired closes every open auction whose end date has passed. A
// failure on one auction is logged and the rest are still processed.
func (as *AuctionService) CloseExpired(ctx context.Context) (int, error) {
	open, err := as.auctionRepo.ListAuctionsByStatus(ctx, domain.AuctionOpen)
	if err != nil {
		return 0, err
	}

	now := as.now()
	closed := 0
	for _, auction := range open {
		if auction.EndDate.IsZero() || auction.EndDate.After(now) {
			continue
		}
		if err := as.close(ctx, auction); err != nil {
			as.log.Error("Failed to close auction", "auction_id", auction.ID, "error", err)
			continue
		}
		closed++
	}
	return closed, nil
}
