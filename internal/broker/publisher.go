package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhishek622/slotwise/internal/negotiation"
	"github.com/redis/go-redis/v9"
)

// Publisher fans negotiation events out on a Redis pub/sub channel so the
// notification workers can mail the other party.
type Publisher struct {
	client  *redis.Client
	channel string
}

func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

func (p *Publisher) Publish(ctx context.Context, ev negotiation.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Type, err)
	}
	return nil
}
