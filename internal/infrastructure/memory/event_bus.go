package memory

import (
	"context"
	"sync"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

const subscriberBuffer = 64

// EventBus fans bid events out to in-process subscribers. It stands in for
// redis pub/sub when the service runs as a single instance.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[int]chan *domain.BidEvent
	nextID      int
	log         logger.Logger
}

func NewEventBus(log logger.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[int]chan *domain.BidEvent),
		log:         log,
	}
}

// PublishBidEvent never blocks: a subscriber whose buffer is full misses
// the event.
func (b *EventBus) PublishBidEvent(ctx context.Context, event *domain.BidEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.log.Warn("Dropping event for slow subscriber", "subscriber", id, "type", event.Type)
		}
	}
	return nil
}

// SubscribeToBidEvents blocks, handing events to handler until ctx is done.
func (b *EventBus) SubscribeToBidEvents(ctx context.Context, handler domain.EventHandler) error {
	ch := make(chan *domain.BidEvent, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}()

	b.log.Info("Subscribed to listing events", "subscriber", id)

	for {
		select {
		case event := <-ch:
			if err := handler(event); err != nil {
				b.log.Error("Failed to handle event", "type", event.Type, "listing_id", event.ListingID, "error", err)
			}
		case <-ctx.Done():
			b.log.Info("Event subscriber stopped", "subscriber", id)
			return ctx.Err()
		}
	}
}

// Subscribers reports how many subscribers are attached.
func (b *EventBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
