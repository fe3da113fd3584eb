package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// MessagesChannel carries inserted chat messages to every API instance.
const MessagesChannel = "chat:messages"

// Publisher is the write side of the realtime bus.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// RedisBus is a redis pub/sub channel carrying JSON payloads.
type RedisBus struct {
	client  *redis.Client
	channel string
}

func NewRedisBus(client *redis.Client, channel string) *RedisBus {
	return &RedisBus{client: client, channel: channel}
}

func (b *RedisBus) Publish(ctx context.Context, payload []byte) error {
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Listen subscribes to the channel and streams payloads until ctx is done.
func (b *RedisBus) Listen(ctx context.Context) <-chan []byte {
	out := make(chan []byte)
	pubsub := b.client.Subscribe(ctx, b.channel)

	go func() {
		defer close(out)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
