package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dboots/bg-broadcast/internal/domain"
)

// DefaultIncrement applies when no increment rule covers the current bid.
var DefaultIncrement = decimal.NewFromInt(10)

// ParseIncrement reads a configured increment. Empty means DefaultIncrement.
func ParseIncrement(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return DefaultIncrement, nil
	}
	inc, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("default increment %q: %w", raw, err)
	}
	if !inc.IsPositive() {
		return decimal.Zero, fmt.Errorf("default increment %q must be positive: %w", raw, domain.ErrInvalidInput)
	}
	return inc, nil
}

// HighestBid returns the largest amount in bids, or zero when there are
// none. On ties the earliest bid wins.
func HighestBid(bids []domain.Bid) decimal.Decimal {
	if len(bids) == 0 {
		return decimal.Zero
	}
	return highest(bids).Amount
}

func highest(bids []domain.Bid) domain.Bid {
	best := bids[0]
	for _, bid := range bids[1:] {
		if bid.Amount.GreaterThan(best.Amount) {
			best = bid
		}
	}
	return best
}

// HighestBidder returns the bidder holding the highest bid, or "".
func HighestBidder(bids []domain.Bid) string {
	if len(bids) == 0 {
		return ""
	}
	return highest(bids).BidderID
}

type BidResolver struct {
	defaultIncrement decimal.Decimal
}

func NewBidResolver(defaultIncrement decimal.Decimal) *BidResolver {
	return &BidResolver{defaultIncrement: defaultIncrement}
}

// NextBidAmount is the smallest raise the auction's increment table allows
// over the listing's current highest bid. Rules are tried in order and the
// first whose range holds the current bid wins. A nil auction has no rules.
func (r *BidResolver) NextBidAmount(listing *domain.Listing, auction *domain.Auction) decimal.Decimal {
	current := HighestBid(listing.Bids)

	if auction != nil {
		for _, rule := range auction.Increments {
			if rule.Contains(current) {
				return current.Add(rule.Increment)
			}
		}
	}
	return current.Add(r.defaultIncrement)
}

// Validate rejects any amount that does not beat the current highest bid.
// Matching the highest bid is not enough.
func (r *BidResolver) Validate(listing *domain.Listing, amount decimal.Decimal) error {
	current := HighestBid(listing.Bids)
	if amount.LessThanOrEqual(current) {
		return fmt.Errorf("bid %s on listing %s does not exceed %s: %w",
			amount, listing.ID, current, domain.ErrBidTooLow)
	}
	return nil
}
