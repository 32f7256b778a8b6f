package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is one entry in a listing's bid history. Bids are appended in
// chronological order and never reordered.
type Bid struct {
	BidderID string          `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
}

type Listing struct {
	ID          string `json:"id"`
	AuctionID   string `json:"auction_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// EndDate is zero when the listing ends with its auction.
	EndDate time.Time `json:"end_date"`
	Bids    []Bid     `json:"bids"`
	Images  []string  `json:"images"`
}

// EndsAt returns the listing's own end date, falling back to the auction's.
// The zero time means the listing has no end.
func (l *Listing) EndsAt(auction *Auction) time.Time {
	if !l.EndDate.IsZero() {
		return l.EndDate
	}
	if auction != nil {
		return auction.EndDate
	}
	return time.Time{}
}

// Ended reports whether bidding on the listing is over at now.
func (l *Listing) Ended(auction *Auction, now time.Time) bool {
	if auction != nil && auction.Status == AuctionClosed {
		return true
	}
	end := l.EndsAt(auction)
	return !end.IsZero() && !now.Before(end)
}

type AuctionStatus string

const (
	AuctionOpen   AuctionStatus = "open"
	AuctionClosed AuctionStatus = "closed"
)

// IncrementRule maps the half-open range [Start, End) of the current
// highest bid to the minimum raise.
type IncrementRule struct {
	Start     decimal.Decimal `json:"start"`
	End       decimal.Decimal `json:"end"`
	Increment decimal.Decimal `json:"increment"`
}

// Contains reports whether amount falls in [Start, End).
func (r IncrementRule) Contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(r.Start) && amount.LessThan(r.End)
}

type Auction struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	EndDate     time.Time       `json:"end_date"`
	Status      AuctionStatus   `json:"status"`
	Increments  []IncrementRule `json:"increments"`

	// Listings are resolved on read and never persisted with the auction.
	Listings []*Listing `json:"-"`
}

type Profile struct {
	ID       string   `json:"id"`
	UID      string   `json:"uid"`
	Saved    []string `json:"saved"`
	StripeID string   `json:"stripe_id,omitempty"`
	ZipCode  string   `json:"zip_code,omitempty"`

	Listings []*Listing `json:"-"`
}

type SessionStatus string

const (
	SessionUpcoming  SessionStatus = "upcoming"
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed"
)

type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
}

// Session is a scheduled game night. ID doubles as the public slug.
type Session struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	ImageURL    string        `json:"image_url"`
	Date        time.Time     `json:"date"`
	GameType    string        `json:"game_type"`
	Location    string        `json:"location"`
	ZipCode     string        `json:"zip_code"`
	Status      SessionStatus `json:"status"`
	HostID      string        `json:"host_id"`
	HostName    string        `json:"host_name"`
	PlayerCount int           `json:"player_count"`
	MaxPlayers  int           `json:"max_players"`
	Players     []Player      `json:"players"`
	// BGGID is the BoardGameGeek object id of the game being played.
	BGGID    string `json:"bgg_id,omitempty"`
	IsPublic bool   `json:"is_public"`

	// Distance in miles from the requesting user, computed per request.
	Distance int `json:"distance,omitempty"`
}

// GameRecord is one BoardGameGeek search hit.
type GameRecord struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	YearPublished string `json:"yearPublished"`
}

// GameDetails is the normalized BoardGameGeek detail record. Every field
// defaults to an empty string or empty list when the source omits it.
type GameDetails struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	YearPublished string   `json:"yearPublished"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Thumbnail     string   `json:"thumbnail"`
	MinPlayers    string   `json:"minPlayers"`
	MaxPlayers    string   `json:"maxPlayers"`
	PlayingTime   string   `json:"playingTime"`
	MinAge        string   `json:"minAge"`
	Designers     []string `json:"designers"`
	Categories    []string `json:"categories"`
	Mechanics     []string `json:"mechanics"`
	Publishers    []string `json:"publishers"`
}

type BidEvent struct {
	Type      BidEventType    `json:"type"`
	ListingID string          `json:"listing_id,omitempty"`
	AuctionID string          `json:"auction_id,omitempty"`
	BidderID  string          `json:"bidder_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

type BidEventType string

const (
	BidPlaced    BidEventType = "bid_placed"
	AuctionEnded BidEventType = "auction_closed"
)
