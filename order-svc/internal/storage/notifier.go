package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/domain"
)

const OrdersChannel = "kitchen:orders"

// Envelope matches the catalog's menu envelope so the gateway can treat both
// feeds the same way.
type Envelope struct {
	Topic       string          `json:"topic"`
	Data        json.RawMessage `json:"data"`
	PublishedAt time.Time       `json:"published_at"`
}

type RedisNotifier struct {
	Client  *redis.Client
	Channel string
	now     func() time.Time
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{Client: client, Channel: OrdersChannel, now: time.Now}
}

func (n *RedisNotifier) PublishOrders(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(Envelope{Topic: "orders", Data: data, PublishedAt: n.now().UTC()})
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
