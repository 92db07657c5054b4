package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nazarkrivolesov/kitchen-2.0/catalog-svc/internal/domain"
)

const (
	cartKeyPrefix  = "cart:"
	maxCartRetries = 5
)

var errCartUnchanged = errors.New("cart unchanged")

// RedisCartStore keeps each cart as one JSON document. Mutations run inside
// WATCH/MULTI so two concurrent requests on one cart are applied in order.
type RedisCartStore struct {
	Client *redis.Client
	TTL    time.Duration
	now    func() time.Time
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{Client: client, TTL: ttl, now: time.Now}
}

func (s *RedisCartStore) key(id string) string {
	return cartKeyPrefix + id
}

func decodeCart(raw []byte) (*domain.Cart, error) {
	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

func (s *RedisCartStore) Create(ctx context.Context, cart *domain.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.key(cart.ID), payload, s.TTL).Err()
}

func (s *RedisCartStore) Get(ctx context.Context, id string) (*domain.Cart, error) {
	raw, err := s.Client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeCart(raw)
}

// Update loads the cart, applies fn and writes the result back. When fn
// fails nothing is written and the error is returned unchanged.
func (s *RedisCartStore) Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	key := s.key(id)
	var updated *domain.Cart

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrCartNotFound
		}
		if err != nil {
			return err
		}
		cart, err := decodeCart(raw)
		if err != nil {
			return err
		}
		if err := fn(cart); err != nil {
			return err
		}
		cart.UpdatedAt = s.now().UTC()

		payload, err := json.Marshal(cart)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.TTL)
			return nil
		})
		if err == nil {
			updated = cart
		}
		return err
	}

	for attempt := 0; attempt < maxCartRetries; attempt++ {
		err := s.Client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, domain.ErrCartBusy
}

func (s *RedisCartStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, s.key(id)).Err()
}

// PurgeDish removes dishID from every stored cart and returns how many carts
// changed.
func (s *RedisCartStore) PurgeDish(ctx context.Context, dishID string) (int, error) {
	changed := 0
	iter := s.Client.Scan(ctx, 0, cartKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id := iter.Val()[len(cartKeyPrefix):]
		_, err := s.Update(ctx, id, func(cart *domain.Cart) error {
			if !cart.Has(dishID) {
				return errCartUnchanged
			}
			cart.Remove(dishID)
			return nil
		})
		switch {
		case err == nil:
			changed++
		case errors.Is(err, errCartUnchanged), errors.Is(err, domain.ErrCartNotFound):
		default:
			return changed, fmt.Errorf("purge dish from cart %s: %w", id, err)
		}
	}
	return changed, iter.Err()
}
