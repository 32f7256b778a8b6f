package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/dboots/bg-broadcast/internal/domain"
)

const EventsChannel = "listing_events"

type EventPublisherImpl struct {
	client *redis.Client
}

func NewEventPublisher(client *redis.Client) *EventPublisherImpl {
	return &EventPublisherImpl{client: client}
}

func (r *EventPublisherImpl) PublishBidEvent(ctx context.Context, event *domain.BidEvent) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, EventsChannel, payload).Err()
}

func encodeEvent(event *domain.BidEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
