package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nazarkrivolesov/kitchen-2.0/analytics-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
	"github.com/nazarkrivolesov/kitchen-2.0/statkeys"
)

type AnalyticsService struct {
	rdb    *redis.Client
	names  DishNameResolver
	logger zerolog.Logger
	now    func() time.Time
}

func NewAnalyticsService(rdb *redis.Client, names DishNameResolver, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		rdb:    rdb,
		names:  names,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock that decides what "today" is.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

func (s *AnalyticsService) TopDishes(ctx context.Context, query domain.TopQuery) ([]domain.DishStat, error) {
	if err := query.Normalize(); err != nil {
		return nil, err
	}

	key := statkeys.AllTimeDishes
	if query.Period == domain.PeriodToday {
		key = statkeys.DailyDishes(statkeys.Day(s.now()))
	}

	ranked, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(query.Limit-1)).Result()
	if err != nil {
		return nil, apperr.External("redis", "read dish ranking", err)
	}

	stats := make([]domain.DishStat, 0, len(ranked))
	ids := make([]string, 0, len(ranked))
	for i, z := range ranked {
		id, _ := z.Member.(string)
		ids = append(ids, id)
		stats = append(stats, domain.DishStat{Rank: i + 1, DishID: id, Quantity: int64(z.Score)})
	}
	if len(ids) == 0 {
		return stats, nil
	}

	names, err := s.resolveNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].Name = names[stats[i].DishID]
	}
	return stats, nil
}

// resolveNames reads the names agg-svc recorded and asks the catalog for the
// rest. Names found in the catalog are written back for the next read.
func (s *AnalyticsService) resolveNames(ctx context.Context, ids []string) (map[string]string, error) {
	values, err := s.rdb.HMGet(ctx, statkeys.DishNames, ids...).Result()
	if err != nil {
		return nil, apperr.External("redis", "read dish names", err)
	}

	names := make(map[string]string, len(ids))
	var missing []string
	for i, v := range values {
		if name, ok := v.(string); ok && name != "" {
			names[ids[i]] = name
			continue
		}
		missing = append(missing, ids[i])
	}
	if len(missing) == 0 || s.names == nil {
		return names, nil
	}

	found, err := s.names.DishNames(ctx, missing)
	if err != nil {
		s.logger.Warn().Err(err).Int("missing", len(missing)).Msg("dish name lookup failed")
		return names, nil
	}

	backfill := make(map[string]interface{}, len(found))
	for id, name := range found {
		names[id] = name
		backfill[id] = name
	}
	if len(backfill) > 0 {
		if err := s.rdb.HSet(ctx, statkeys.DishNames, backfill).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("backfill dish names")
		}
	}
	return names, nil
}

// Summary reports revenue, order count and the status breakdown for a UTC
// day. An empty date means today.
func (s *AnalyticsService) Summary(ctx context.Context, date string) (*domain.Summary, error) {
	day := statkeys.Day(s.now())
	if date != "" {
		parsed, err := time.Parse(statkeys.DateLayout, date)
		if err != nil {
			v := &apperr.ValidationError{}
			v.Add("date", "must be formatted as YYYY-MM-DD")
			return nil, v
		}
		day = parsed.Format(statkeys.DateLayout)
	}

	summary := &domain.Summary{Date: day, Statuses: make(map[string]int64, len(domain.OrderStatuses))}

	var err error
	if summary.Revenue, err = s.counter(ctx, statkeys.Revenue(day)); err != nil {
		return nil, err
	}
	if summary.Orders, err = s.counter(ctx, statkeys.Orders(day)); err != nil {
		return nil, err
	}
	if summary.Orders > 0 {
		summary.AverageOrder = summary.Revenue / summary.Orders
	}

	for _, status := range domain.OrderStatuses {
		summary.Statuses[status] = 0
	}
	counts, err := s.rdb.HGetAll(ctx, statkeys.StatusCounts).Result()
	if err != nil {
		return nil, apperr.External("redis", "read status breakdown", err)
	}
	for status, raw := range counts {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		summary.Statuses[status] = max(n, 0)
	}
	return summary, nil
}

func (s *AnalyticsService) counter(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, apperr.External("redis", "read "+key, err)
	}
	return n, nil
}
