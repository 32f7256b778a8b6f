package domain

import (
	"context"
	"iter"
)

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks github.com/dboots/bg-broadcast/internal/domain BoardGameSource,EventPublisher,GameCache

// Document is one record in a DocumentStore. Stored documents always carry
// their own id under the "id" key.
type Document map[string]any

type FilterOp string

const (
	OpEqual FilterOp = "=="
	OpIn    FilterOp = "in"
)

// Filter is a field-equality (or membership) constraint on List.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

func In(field string, values any) Filter {
	return Filter{Field: field, Op: OpIn, Value: values}
}

// DocumentStore is the hosted-backend data interface. One implementation per
// backend; the backend is chosen once at startup.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	List(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	// Insert stores doc under doc["id"] when set, otherwise under a new id.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	Update(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
}

// Repository interfaces
type ListingRepository interface {
	GetListing(ctx context.Context, listingID string) (*Listing, error)
	ListListingsByAuction(ctx context.Context, auctionID string) ([]*Listing, error)
	ListListingsByIDs(ctx context.Context, listingIDs []string) ([]*Listing, error)
	UpdateListing(ctx context.Context, listing *Listing) error
}

type AuctionRepository interface {
	GetAuction(ctx context.Context, auctionID string) (*Auction, error)
	ListAuctionsByStatus(ctx context.Context, status AuctionStatus) ([]*Auction, error)
	UpdateAuction(ctx context.Context, auction *Auction) error
}

type ProfileRepository interface {
	GetProfileByUID(ctx context.Context, uid string) (*Profile, error)
	CreateProfile(ctx context.Context, profile *Profile) error
	UpdateProfile(ctx context.Context, profile *Profile) error
}

type SessionRepository interface {
	GetSession(ctx context.Context, slug string) (*Session, error)
	ListSessions(ctx context.Context) ([]*Session, error)
	// CreateSession fails with ErrAlreadyExists when the slug is taken.
	CreateSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, slug string) error
}

// BoardGameSource fetches and normalizes BoardGameGeek records.
type BoardGameSource interface {
	SearchGames(ctx context.Context, term string) (iter.Seq[GameRecord], error)
	GetGameDetails(ctx context.Context, gameID string) (*GameDetails, error)
}

// Cache interfaces
type GameCache interface {
	GetGameDetails(ctx context.Context, gameID string) (*GameDetails, bool, error)
	SetGameDetails(ctx context.Context, gameID string, details *GameDetails) error
}

// ListingLocker serializes bid placement per listing. The returned func
// releases the lock.
type ListingLocker interface {
	Lock(ctx context.Context, listingID string) (func(), error)
}

// Event interfaces
type EventPublisher interface {
	PublishBidEvent(ctx context.Context, event *BidEvent) error
}

type EventSubscriber interface {
	SubscribeToBidEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *BidEvent) error

// Notification interfaces
type ListingBroadcaster interface {
	BroadcastToListing(ctx context.Context, listingID string, message interface{}) error
	CloseListing(ctx context.Context, listingID string) error
}

// WebSocket interfaces
type WebSocketConnection interface {
	Send(message interface{}) error
	Close() error
	UserID() string
	ListingID() string
}

type ConnectionManager interface {
	RegisterConnection(userID, listingID string, conn WebSocketConnection) error
	UnregisterConnection(conn WebSocketConnection) error
	GetConnectionsForListing(listingID string) []WebSocketConnection
	BroadcastToListing(listingID string, message interface{}) error
	CloseAndUnregisterConnections(listingID string) error
}
