package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/internal/infrastructure/memory"
	"github.com/dboots/bg-broadcast/internal/repository"
)

// fixedNow is the clock every service test runs at.
var fixedNow = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

const fixtures = `{
	"auctions": [
		{"id": "a1", "title": "Spring Auction", "status": "open", "end_date": "2025-04-20T00:00:00Z",
		 "increments": [{"start": "0", "end": "50", "increment": "5"}, {"start": "50", "end": "200", "increment": "10"}]},
		{"id": "a2", "title": "Past Auction", "status": "open", "end_date": "2025-04-01T00:00:00Z"},
		{"id": "a3", "title": "Closed Auction", "status": "closed", "end_date": "2025-05-01T00:00:00Z"}
	],
	"listings": [
		{"id": "l1", "auction_id": "a1", "title": "Catan",
		 "bids": [{"bidder_id": "u1", "amount": "40", "date": "2025-04-09T10:00:00Z"},
		          {"bidder_id": "u2", "amount": "100", "date": "2025-04-09T11:00:00Z"}]},
		{"id": "l2", "auction_id": "a1", "title": "Carcassonne", "end_date": "2025-04-05T00:00:00Z"},
		{"id": "l3", "title": "Azul"},
		{"id": "l4", "auction_id": "a2", "title": "Root"},
		{"id": "l5", "auction_id": "a3", "title": "Wingspan"},
		{"id": "l6", "auction_id": "gone", "title": "Orphan"}
	],
	"profiles": [
		{"id": "p1", "uid": "u1", "saved": ["l3", "l1"], "zip_code": "90403"},
		{"id": "p2", "uid": "u2", "saved": []}
	],
	"sessions": [
		{"id": "session1", "title": "Dragon's Lair Adventure", "game_type": "Dungeons & Dragons 5E", "zip_code": "90210", "status": "upcoming"},
		{"id": "session2", "title": "Catan Championship", "game_type": "Catan", "zip_code": "90220", "status": "upcoming"},
		{"id": "session3", "title": "Pandemic Legacy", "game_type": "Pandemic Legacy", "zip_code": "90250", "status": "upcoming"},
		{"id": "session4", "title": "Gloomhaven Campaign", "game_type": "Gloomhaven", "zip_code": "90305", "status": "ongoing"},
		{"id": "session5", "title": "MTG Draft", "game_type": "Magic: The Gathering", "zip_code": "90290", "status": "upcoming"},
		{"id": "session6", "title": "Terraforming Mars", "game_type": "Terraforming Mars", "zip_code": "97403", "status": "upcoming"},
		{"id": "session7", "title": "Mystery Night", "game_type": "Catan", "zip_code": "", "status": "upcoming"}
	]
}`

type testRepos struct {
	store    domain.DocumentStore
	listings *repository.DocumentListingRepository
	auctions *repository.DocumentAuctionRepository
	profiles *repository.DocumentProfileRepository
	sessions *repository.DocumentSessionRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()

	store := memory.NewDocumentStore()
	_, err := repository.Seed(context.Background(), store, strings.NewReader(fixtures))
	require.NoError(t, err)

	return testRepos{
		store:    store,
		listings: repository.NewListingRepository(store),
		auctions: repository.NewAuctionRepository(store),
		profiles: repository.NewProfileRepository(store),
		sessions: repository.NewSessionRepository(store),
	}
}
