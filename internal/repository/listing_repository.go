package repository

import (
	"context"
	"fmt"

	"github.com/dboots/bg-broadcast/internal/domain"
)

type DocumentListingRepository struct {
	store domain.DocumentStore
}

func NewListingRepository(store domain.DocumentStore) *DocumentListingRepository {
	return &DocumentListingRepository{store: store}
}

func (r *DocumentListingRepository) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	doc, err := r.store.Get(ctx, ListingsCollection, listingID)
	if err != nil {
		return nil, err
	}

	var listing domain.Listing
	if err := fromDocument(doc, &listing); err != nil {
		return nil, fmt.Errorf("listing %s: %w", listingID, err)
	}
	return &listing, nil
}

func (r *DocumentListingRepository) ListListingsByAuction(ctx context.Context, auctionID string) ([]*domain.Listing, error) {
	docs, err := r.store.List(ctx, ListingsCollection, domain.Eq("auction_id", auctionID))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Listing](docs)
}

// ListListingsByIDs skips ids that do not resolve; an empty id list never
// reaches the store.
func (r *DocumentListingRepository) ListListingsByIDs(ctx context.Context, listingIDs []string) ([]*domain.Listing, error) {
	if len(listingIDs) == 0 {
		return []*domain.Listing{}, nil
	}

	docs, err := r.store.List(ctx, ListingsCollection, domain.In("id", listingIDs))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Listing](docs)
}

func (r *DocumentListingRepository) UpdateListing(ctx context.Context, listing *domain.Listing) error {
	doc, err := toDocument(listing)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, ListingsCollection, listing.ID, doc)
}
