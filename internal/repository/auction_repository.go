package repository

import (
	"context"
	"fmt"

	"github.com/dboots/bg-broadcast/internal/domain"
)

type DocumentAuctionRepository struct {
	store domain.DocumentStore
}

func NewAuctionRepository(store domain.DocumentStore) *DocumentAuctionRepository {
	return &DocumentAuctionRepository{store: store}
}

func (r *DocumentAuctionRepository) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	doc, err := r.store.Get(ctx, AuctionsCollection, auctionID)
	if err != nil {
		return nil, err
	}

	var auction domain.Auction
	if err := fromDocument(doc, &auction); err != nil {
		return nil, fmt.Errorf("auction %s: %w", auctionID, err)
	}
	return &auction, nil
}

func (r *DocumentAuctionRepository) ListAuctionsByStatus(ctx context.Context, status domain.AuctionStatus) ([]*domain.Auction, error) {
	docs, err := r.store.List(ctx, AuctionsCollection, domain.Eq("status", string(status)))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Auction](docs)
}

func (r *DocumentAuctionRepository) UpdateAuction(ctx context.Context, auction *domain.Auction) error {
	doc, err := toDocument(auction)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, AuctionsCollection, auction.ID, doc)
}
