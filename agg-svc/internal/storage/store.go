package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nazarkrivolesov/kitchen-2.0/agg-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/statkeys"
)

const (
	dailyTTL     = 90 * 24 * time.Hour
	processedTTL = 7 * 24 * time.Hour
)

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// MarkProcessed reports whether eventID was seen for the first time.
func (s *Store) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	return s.rdb.SetNX(ctx, statkeys.Processed(eventID), 1, processedTTL).Result()
}

func (s *Store) UnmarkProcessed(ctx context.Context, eventID string) error {
	return s.rdb.Del(ctx, statkeys.Processed(eventID)).Err()
}

// RecordOrder counts the portions of every dish, the day's revenue and order
// count, and the new order in the status breakdown.
func (s *Store) RecordOrder(ctx context.Context, event domain.OrderEvent) error {
	day := statkeys.Day(event.Timestamp)
	dailyKey := statkeys.DailyDishes(day)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range event.Items {
			pipe.ZIncrBy(ctx, dailyKey, float64(item.Quantity), item.DishID)
			pipe.ZIncrBy(ctx, statkeys.AllTimeDishes, float64(item.Quantity), item.DishID)
			if item.Name != "" {
				pipe.HSet(ctx, statkeys.DishNames, item.DishID, item.Name)
			}
		}
		pipe.Expire(ctx, dailyKey, dailyTTL)

		pipe.IncrBy(ctx, statkeys.Revenue(day), event.Total)
		pipe.Expire(ctx, statkeys.Revenue(day), dailyTTL)
		pipe.Incr(ctx, statkeys.Orders(day))
		pipe.Expire(ctx, statkeys.Orders(day), dailyTTL)

		pipe.HIncrBy(ctx, statkeys.StatusCounts, domain.StatusNew, 1)
		return nil
	})
	return err
}

// RecordStatusChange moves one order between buckets of the status breakdown.
func (s *Store) RecordStatusChange(ctx context.Context, event domain.OrderEvent) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if event.Previous != "" {
			pipe.HIncrBy(ctx, statkeys.StatusCounts, event.Previous, -1)
		}
		pipe.HIncrBy(ctx, statkeys.StatusCounts, event.Status, 1)
		return nil
	})
	return err
}
