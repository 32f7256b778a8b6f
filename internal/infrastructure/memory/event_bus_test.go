package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

func TestEventBus_DeliversToSubscriber(t *testing.T) {
	bus := NewEventBus(logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *domain.BidEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- bus.SubscribeToBidEvents(ctx, func(event *domain.BidEvent) error {
			received <- event
			return nil
		})
	}()

	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	sent := &domain.BidEvent{Type: domain.BidPlaced, ListingID: "l1", BidderID: "u1"}
	require.NoError(t, bus.PublishBidEvent(ctx, sent))

	select {
	case got := <-received:
		require.Equal(t, sent, got)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	require.True(t, errors.Is(<-done, context.Canceled))
	require.Equal(t, 0, bus.Subscribers())
}

func TestEventBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus(logger.NewNop())
	require.NoError(t, bus.PublishBidEvent(context.Background(), &domain.BidEvent{Type: domain.BidPlaced}))
}
