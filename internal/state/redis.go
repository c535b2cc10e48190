package state

import (
	"context"

	"github.com/wonny/ignition/pkg/redis"
)

// RedisStore persists pipeline state in Redis as JSON values.
// 키는 "ignition:state:" 프리픽스 아래에 저장.
type RedisStore struct {
	cache *redis.Cache
}

// NewRedisStore creates a Redis-backed state store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		cache: redis.NewCache(client, "ignition:state"),
	}
}

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return s.cache.Get(ctx, key, dest)
}

// Set implements Store. State entries never expire on their own —
// the cursor and universe cache must survive until an explicit reset.
func (s *RedisStore) Set(ctx context.Context, key string, value interface{}) error {
	return s.cache.Set(ctx, key, value, 0)
}

// Delete implements Store
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}
