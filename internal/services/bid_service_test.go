package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/internal/domain/mocks"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

func newBidService(t *testing.T, repos testRepos, pub domain.EventPublisher, locker domain.ListingLocker) *BidService {
	t.Helper()
	svc := NewBidService(repos.listings, repos.auctions, NewBidResolver(DefaultIncrement), locker, pub, logger.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestBidService_PlaceBid_Accepts(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)
	repos := newTestRepos(t)
	svc := newBidService(t, repos, pub, nil)

	pub.EXPECT().PublishBidEvent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, event *domain.BidEvent) error {
			require.Equal(t, domain.BidPlaced, event.Type)
			require.Equal(t, "l1", event.ListingID)
			require.Equal(t, "a1", event.AuctionID)
			require.Equal(t, "u3", event.BidderID)
			require.True(t, event.Amount.Equal(d(101)))
			require.Equal(t, fixedNow, event.Timestamp)
			return nil
		})

	view, err := svc.PlaceBid(context.Background(), "l1", "u3", d(101))
	require.NoError(t, err)
	require.Len(t, view.Bids, 3)
	require.True(t, view.HighestBid.Equal(d(101)))
	require.Equal(t, "u3", view.HighestBidder)
	require.True(t, view.NextBid.Equal(d(111)))

	stored, err := repos.listings.GetListing(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, stored.Bids, 3)
	last := stored.Bids[2]
	require.Equal(t, "u3", last.BidderID)
	require.True(t, last.Amount.Equal(d(101)))
	require.True(t, last.Date.Equal(fixedNow))
}

func TestBidService_PlaceBid_RejectsWithoutMutation(t *testing.T) {
	tests := []struct {
		name      string
		listingID string
		bidderID  string
		amount    decimal.Decimal
		wantErr   error
	}{
		{"equal to highest", "l1", "u3", d(100), domain.ErrBidTooLow},
		{"below highest", "l1", "u3", d(60), domain.ErrBidTooLow},
		{"listing end date passed", "l2", "u3", d(500), domain.ErrListingClosed},
		{"auction end date passed", "l4", "u3", d(500), domain.ErrListingClosed},
		{"auction closed", "l5", "u3", d(500), domain.ErrListingClosed},
		{"missing listing", "nope", "u3", d(500), domain.ErrNotFound},
		{"no bidder", "l1", "", d(500), domain.ErrInvalidInput},
		{"no listing id", "", "u3", d(500), domain.ErrInvalidInput},
		{"zero amount", "l3", "u3", d(0), domain.ErrInvalidInput},
		{"negative amount", "l3", "u3", d(-5), domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			pub := mocks.NewMockEventPublisher(ctrl)
			repos := newTestRepos(t)
			svc := newBidService(t, repos, pub, nil)

			before, _ := repos.listings.GetListing(context.Background(), tt.listingID)

			_, err := svc.PlaceBid(context.Background(), tt.listingID, tt.bidderID, tt.amount)
			require.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			if before != nil {
				after, err := repos.listings.GetListing(context.Background(), tt.listingID)
				require.NoError(t, err)
				require.Equal(t, len(before.Bids), len(after.Bids))
			}
		})
	}
}

func TestBidService_PlaceBid_WithoutAuctionUsesDefaultIncrement(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)
	pub.EXPECT().PublishBidEvent(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	svc := newBidService(t, newTestRepos(t), pub, nil)

	view, err := svc.PlaceBid(context.Background(), "l3", "u1", d(20))
	require.NoError(t, err)
	require.True(t, view.NextBid.Equal(d(30)))
	require.Empty(t, view.TimeLeft)

	// l6 points at an auction that no longer exists.
	view, err = svc.PlaceBid(context.Background(), "l6", "u1", d(20))
	require.NoError(t, err)
	require.True(t, view.NextBid.Equal(d(30)))
}

func TestBidService_PlaceBid_PublishFailureStillAccepts(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)
	pub.EXPECT().PublishBidEvent(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
	repos := newTestRepos(t)
	svc := newBidService(t, repos, pub, nil)

	_, err := svc.PlaceBid(context.Background(), "l1", "u3", d(150))
	require.NoError(t, err)

	stored, err := repos.listings.GetListing(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, stored.Bids, 3)
}

func TestBidService_PlaceBid_LocalLockSerializesSameAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockEventPublisher(ctrl)
	pub.EXPECT().PublishBidEvent(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	repos := newTestRepos(t)
	svc := newBidService(t, repos, pub, NewLocalLocker())

	const bidders = 8
	var wg sync.WaitGroup
	errs := make(chan error, bidders)
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.PlaceBid(context.Background(), "l1", fmt.Sprintf("bidder-%d", i), d(150))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	accepted, tooLow := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, domain.ErrBidTooLow):
			tooLow++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, accepted)
	require.Equal(t, bidders-1, tooLow)

	stored, err := repos.listings.GetListing(context.Background(), "l1")
	require.NoError(t, err)
	require.Len(t, stored.Bids, 3)
}

func TestBidService_GetListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := newBidService(t, newTestRepos(t), mocks.NewMockEventPublisher(ctrl), nil)

	view, err := svc.GetListing(context.Background(), "l1")
	require.NoError(t, err)
	require.Equal(t, "Catan", view.Title)
	require.True(t, view.HighestBid.Equal(d(100)))
	require.Equal(t, "u2", view.HighestBidder)
	require.True(t, view.NextBid.Equal(d(110)))
	require.Equal(t, "Days Left: 9", view.TimeLeft)
	require.False(t, view.Ended)

	ended, err := svc.GetListing(context.Background(), "l2")
	require.NoError(t, err)
	require.True(t, ended.Ended)
	require.Equal(t, ListingEnded, ended.TimeLeft)

	_, err = svc.GetListing(context.Background(), "")
	require.True(t, errors.Is(err, domain.ErrInvalidInput))
}
