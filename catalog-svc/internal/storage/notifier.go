package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nazarkrivolesov/kitchen-2.0/catalog-svc/internal/domain"
)

const MenuChannel = "kitchen:menu"

type Envelope struct {
	Topic       string          `json:"topic"`
	Data        json.RawMessage `json:"data"`
	PublishedAt time.Time       `json:"published_at"`
}

// RedisNotifier publishes the full menu after every catalog write and keeps
// the last published copy under <channel>:latest for late subscribers.
type RedisNotifier struct {
	Client  *redis.Client
	Channel string
	now     func() time.Time
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{Client: client, Channel: MenuChannel, now: time.Now}
}

func (n *RedisNotifier) PublishMenu(ctx context.Context, menu []domain.Dish) error {
	if menu == nil {
		menu = []domain.Dish{}
	}
	data, err := json.Marshal(menu)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(Envelope{Topic: "menu", Data: data, PublishedAt: n.now().UTC()})
	if err != nil {
		return err
	}

	_, err = n.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, n.Channel+":latest", payload, 0)
		pipe.Publish(ctx, n.Channel, payload)
		return nil
	})
	return err
}
