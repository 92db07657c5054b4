package storage

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLoginAttempts counts failed logins per email. The counter expires
// Window after the first failure in a series.
type RedisLoginAttempts struct {
	Client      *redis.Client
	MaxFailures int64
	Window      time.Duration
}

func NewRedisLoginAttempts(client *redis.Client, maxFailures int64, window time.Duration) *RedisLoginAttempts {
	return &RedisLoginAttempts{Client: client, MaxFailures: maxFailures, Window: window}
}

func (a *RedisLoginAttempts) key(email string) string {
	return "login:failures:" + strings.ToLower(email)
}

func (a *RedisLoginAttempts) Locked(ctx context.Context, email string) (bool, error) {
	n, err := a.Client.Get(ctx, a.key(email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= a.MaxFailures, nil
}

func (a *RedisLoginAttempts) RecordFailure(ctx context.Context, email string) error {
	key := a.key(email)
	n, err := a.Client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return a.Client.Expire(ctx, key, a.Window).Err()
	}
	return nil
}

func (a *RedisLoginAttempts) Reset(ctx context.Context, email string) error {
	return a.Client.Del(ctx, a.key(email)).Err()
}
