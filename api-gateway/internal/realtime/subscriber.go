package realtime

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	MenuChannel   = "kitchen:menu"
	OrdersChannel = "kitchen:orders"
)

// Subscriber feeds the hub's mirrors from Redis pub/sub. The services keep
// their last published payload under <channel>:latest, which primes the
// mirrors before the first live message arrives.
type Subscriber struct {
	Client *redis.Client
	Hub    *Hub
	Logger zerolog.Logger
}

func NewSubscriber(client *redis.Client, hub *Hub, logger zerolog.Logger) *Subscriber {
	return &Subscriber{Client: client, Hub: hub, Logger: logger}
}

func (s *Subscriber) Run(ctx context.Context) error {
	channels := s.Hub.Channels()

	pubsub := s.Client.Subscribe(ctx, channels...)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	for _, channel := range channels {
		payload, err := s.Client.Get(ctx, channel+":latest").Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			s.Logger.Warn().Err(err).Str("channel", channel).Msg("prime snapshot")
			continue
		}
		s.Hub.Mirror(channel).Set(payload)
	}

	s.Logger.Info().Strs("channels", channels).Msg("realtime subscriber started")
	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return errors.New("redis subscription closed")
			}
			if mirror := s.Hub.Mirror(msg.Channel); mirror != nil {
				mirror.Set([]byte(msg.Payload))
			}
		}
	}
}
