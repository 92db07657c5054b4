package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRevocations remembers logged-out token ids until they would have
// expired anyway.
type RedisRevocations struct {
	Client *redis.Client
	now    func() time.Time
}

func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{Client: client, now: time.Now}
}

func (r *RedisRevocations) key(tokenID string) string {
	return "session:revoked:" + tokenID
}

func (r *RedisRevocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.Client.Set(ctx, r.key(tokenID), "1", ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.Client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ Revocations = (*RedisRevocations)(nil)
