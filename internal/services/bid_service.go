package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

// ListingView is a listing with the values a bidder needs to act on it.
type ListingView struct {
	*domain.Listing
	HighestBid    decimal.Decimal `json:"highest_bid"`
	HighestBidder string          `json:"highest_bidder,omitempty"`
	NextBid       decimal.Decimal `json:"next_bid"`
	TimeLeft      string          `json:"time_left,omitempty"`
	Ended         bool            `json:"ended"`
}

type BidService struct {
	listings domain.ListingRepository
	auctions domain.AuctionRepository
	resolver *BidResolver
	locker   domain.ListingLocker
	eventPub domain.EventPublisher
	now      func() time.Time
	log      logger.Logger
}

func NewBidService(
	listings domain.ListingRepository,
	auctions domain.AuctionRepository,
	resolver *BidResolver,
	locker domain.ListingLocker,
	eventPub domain.EventPublisher,
	log logger.Logger,
) *BidService {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &BidService{
		listings: listings,
		auctions: auctions,
		resolver: resolver,
		locker:   locker,
		eventPub: eventPub,
		now:      time.Now,
		log:      log,
	}
}

func (s *BidService) GetListing(ctx context.Context, listingID string) (*ListingView, error) {
	if listingID == "" {
		return nil, fmt.Errorf("listing id is required: %w", domain.ErrInvalidInput)
	}

	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	auction, err := s.auctionFor(ctx, listing)
	if err != nil {
		return nil, err
	}
	return s.view(listing, auction), nil
}

// PlaceBid re-reads the listing so validation runs against the stored bid
// history rather than whatever the caller last saw, then appends the bid.
func (s *BidService) PlaceBid(ctx context.Context, listingID, bidderID string, amount decimal.Decimal) (*ListingView, error) {
	s.log.Info("Placing bid", "listing_id", listingID, "bidder_id", bidderID, "amount", amount.String())

	if listingID == "" || bidderID == "" {
		return nil, fmt.Errorf("listing id and bidder id are required: %w", domain.ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("bid amount must be positive: %w", domain.ErrInvalidInput)
	}

	unlock, err := s.locker.Lock(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("lock listing %s: %w", listingID, err)
	}
	defer unlock()

	listing, err := s.listings.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	auction, err := s.auctionFor(ctx, listing)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if listing.Ended(auction, now) {
		return nil, fmt.Errorf("listing %s: %w", listingID, domain.ErrListingClosed)
	}

	if err := s.resolver.Validate(listing, amount); err != nil {
		s.log.Info("Bid rejected", "listing_id", listingID, "bidder_id", bidderID, "reason", err.Error())
		return nil, err
	}

	listing.Bids = append(listing.Bids, domain.Bid{
		BidderID: bidderID,
		Amount:   amount,
		Date:     now,
	})
	if err := s.listings.UpdateListing(ctx, listing); err != nil {
		s.log.Error("Failed to persist bid", "listing_id", listingID, "error", err)
		return nil, err
	}

	event := &domain.BidEvent{
		Type:      domain.BidPlaced,
		ListingID: listing.ID,
		AuctionID: listing.AuctionID,
		BidderID:  bidderID,
		Amount:    amount,
		Timestamp: now,
	}
	if err := s.eventPub.PublishBidEvent(ctx, event); err != nil {
		s.log.Error("Failed to publish bid event", "listing_id", listingID, "error", err)
	}

	s.log.Info("Bid accepted", "listing_id", listingID, "bidder_id", bidderID, "amount", amount.String())
	return s.view(listing, auction), nil
}

// auctionFor loads the listing's auction. A dangling auction id is treated
// as no auction.
func (s *BidService) auctionFor(ctx context.Context, listing *domain.Listing) (*domain.Auction, error) {
	if listing.AuctionID == "" {
		return nil, nil
	}

	auction, err := s.auctions.GetAuction(ctx, listing.AuctionID)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Warn("Listing references missing auction", "listing_id", listing.ID, "auction_id", listing.AuctionID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return auction, nil
}

func (s *BidService) view(listing *domain.Listing, auction *domain.Auction) *ListingView {
	return viewListing(s.resolver, listing, auction, s.now())
}

func viewListing(resolver *BidResolver, listing *domain.Listing, auction *domain.Auction, now time.Time) *ListingView {
	v := &ListingView{
		Listing:       listing,
		HighestBid:    HighestBid(listing.Bids),
		HighestBidder: HighestBidder(listing.Bids),
		NextBid:       resolver.NextBidAmount(listing, auction),
		Ended:         listing.Ended(auction, now),
	}
	if v.Ended {
		v.TimeLeft = ListingEnded
	} else if end := listing.EndsAt(auction); !end.IsZero() {
		v.TimeLeft = TimeLeft(end, now)
	}
	return v
}
