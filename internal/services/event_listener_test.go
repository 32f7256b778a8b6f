package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/internal/infrastructure/memory"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

type sentMessage struct {
	listingID string
	message   map[string]interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	sent   []sentMessage
	closed []string
}

func (f *fakeBroadcaster) BroadcastToListing(_ context.Context, listingID string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{listingID: listingID, message: message.(map[string]interface{})})
	return nil
}

func (f *fakeBroadcaster) CloseListing(_ context.Context, listingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, listingID)
	return nil
}

func (f *fakeBroadcaster) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestEventListener_BidPlaced(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &fakeBroadcaster{}
	listener := NewEventListener(repos.listings, broadcaster, logger.NewNop())

	err := listener.HandleEvent(context.Background(), &domain.BidEvent{
		Type:      domain.BidPlaced,
		ListingID: "l1",
		BidderID:  "u3",
		Amount:    d(150),
		Timestamp: fixedNow,
	})
	require.NoError(t, err)

	require.Len(t, broadcaster.sent, 1)
	msg := broadcaster.sent[0]
	require.Equal(t, "l1", msg.listingID)
	require.Equal(t, "bid_update", msg.message["type"])
	require.Equal(t, "u3", msg.message["current_winner"])
	require.Empty(t, broadcaster.closed)
}

func TestEventListener_AuctionClosed(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &fakeBroadcaster{}
	listener := NewEventListener(repos.listings, broadcaster, logger.NewNop())

	err := listener.HandleEvent(context.Background(), &domain.BidEvent{
		Type:      domain.AuctionEnded,
		AuctionID: "a1",
		Timestamp: fixedNow,
	})
	require.NoError(t, err)

	require.Len(t, broadcaster.sent, 2)
	for _, msg := range broadcaster.sent {
		require.Equal(t, "auction_closed", msg.message["type"])
	}
	require.ElementsMatch(t, []string{"l1", "l2"}, broadcaster.closed)
}

func TestEventListener_UnknownType(t *testing.T) {
	listener := NewEventListener(newTestRepos(t).listings, &fakeBroadcaster{}, logger.NewNop())
	require.Error(t, listener.HandleEvent(context.Background(), &domain.BidEvent{Type: "mystery"}))
}

func TestEventListener_StartRelaysFromBus(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &fakeBroadcaster{}
	listener := NewEventListener(repos.listings, broadcaster, logger.NewNop())
	bus := memory.NewEventBus(logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- listener.Start(ctx, bus) }()

	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, bus.PublishBidEvent(ctx, &domain.BidEvent{Type: domain.BidPlaced, ListingID: "l1", Amount: d(120)}))
	require.Eventually(t, func() bool { return broadcaster.sentCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}
