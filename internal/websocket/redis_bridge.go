package websocket

import (
	"context"

	"photoline/internal/events"
)

// RedisBridge forwards submission events published on Redis to the local
// hub, so every instance's viewers see events regardless of which instance
// ingested the submission.
type RedisBridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber events.Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

func (b *RedisBridge) Run(ctx context.Context) error {
	return b.subscriber.Subscribe(ctx, []string{events.ChannelSubmissions}, func(channel string, payload []byte) {
		b.hub.Broadcast(channel, payload)
	})
}
