package pubsub

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/certiblock/verifier-node/internal/log"
)

// RedisClient struct
type RedisClient struct {
	conn *redis.Client
}

// NewRedis returns a redis pubsub client
func NewRedis(rdb *redis.Client) Client {
	return &RedisClient{rdb}
}

// Publish publishes a new topic payload
func (rdb *RedisClient) Publish(ctx context.Context, topic string, payload Event) error {
	msg, err := payload.Marshal()
	if err != nil {
		return err
	}
	return rdb.conn.Publish(ctx, topic, []byte(msg)).Err()
}

// Subscribe adds a topic to the subscription list and runs callback on every message
func (rdb *RedisClient) Subscribe(ctx context.Context, topic string, callback EventHandler) {
	pubsub := rdb.conn.Subscribe(ctx, topic)
	go func() {
		for {
			select {
			case event := <-pubsub.Channel():
				if event.Channel != topic {
					log.Error(ctx, "msg channel != topic")
					continue
				}

				if err := callback(ctx, Message(event.Payload)); err != nil {
					log.Error(ctx, "executing callback function", "err", err)
				}

			case <-ctx.Done():
				return
			}
		}
	}()
}
